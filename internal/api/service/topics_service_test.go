package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bitewise-api/internal/api/config"
	"bitewise-api/internal/api/dto"
	"bitewise-api/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTopicsHarness(t *testing.T) (*topicsService, *fakeTopicsRepo, *fakeTopicFeed) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Topics.MaxArticlesPerTopic = 3

	repo := newFakeTopicsRepo()
	feed := &fakeTopicFeed{articles: map[string][]entity.TopicArticle{}}

	svc := NewTopicsService(cfg, repo, feed, newTestLogger(t))
	ts := svc.(*topicsService)
	ts.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return ts, repo, feed
}

func TestGenerateTopicsStoresNewTopics(t *testing.T) {
	svc, repo, feed := newTopicsHarness(t)
	feed.articles["science"] = []entity.TopicArticle{{URL: "https://s/1", Title: "s1"}}
	feed.articles["sports"] = []entity.TopicArticle{{URL: "https://p/1", Title: "p1"}}

	resp, err := svc.GenerateTopics(context.Background(), &dto.GenerateTopicsRequest{
		Topics: []string{"science", "sports"},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"science", "sports"}, resp.Generated)
	assert.Empty(t, resp.Skipped)
	assert.Len(t, repo.inserted, 2)
}

func TestGenerateTopicsSkipsExistingForToday(t *testing.T) {
	svc, repo, feed := newTopicsHarness(t)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	repo.stored[topicKey(today, "science")] = &entity.TopicsArticles{Date: today, Topic: "science"}
	feed.articles["sports"] = []entity.TopicArticle{{URL: "https://p/1"}}

	resp, err := svc.GenerateTopics(context.Background(), &dto.GenerateTopicsRequest{
		Topics: []string{"science", "sports"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"sports"}, resp.Generated)
	assert.Contains(t, resp.Skipped, "science")
	assert.Len(t, repo.inserted, 1)
}

func TestGenerateTopicsFetchFailureSkips(t *testing.T) {
	svc, repo, feed := newTopicsHarness(t)
	feed.err = errors.New("feed unreachable")

	resp, err := svc.GenerateTopics(context.Background(), &dto.GenerateTopicsRequest{
		Topics: []string{"science"},
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Generated)
	assert.Equal(t, []string{"science"}, resp.Skipped)
	assert.Empty(t, repo.inserted)
}

func TestGenerateTopicsDeduplicatesInput(t *testing.T) {
	svc, repo, feed := newTopicsHarness(t)
	feed.articles["science"] = []entity.TopicArticle{{URL: "https://s/1"}}

	resp, err := svc.GenerateTopics(context.Background(), &dto.GenerateTopicsRequest{
		Topics: []string{"science", " science ", "science"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"science"}, resp.Generated)
	assert.Len(t, repo.inserted, 1)
}

func TestGenerateTopicsEmptyInputRejected(t *testing.T) {
	svc, _, _ := newTopicsHarness(t)

	_, err := svc.GenerateTopics(context.Background(), &dto.GenerateTopicsRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetTopicsReturnsEmptySliceForQuietDay(t *testing.T) {
	svc, _, _ := newTopicsHarness(t)

	resp, err := svc.GetTopics(context.Background(), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotNil(t, resp.Topics)
	assert.Empty(t, resp.Topics)
}

func TestHousekeepingRemovesExpiredRecords(t *testing.T) {
	cfg := &config.Config{}
	cfg.Housekeeping.RetentionDays = 7
	cfg.Housekeeping.CronExpression = "0 3 * * *"

	queryRepo := newFakeQueryRepo()
	topicsRepo := newFakeTopicsRepo()
	now := time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)

	queryRepo.records["old"] = &entity.Query{Query: "old", IssuedAt: now.AddDate(0, 0, -9)}
	queryRepo.records["recent"] = &entity.Query{Query: "recent", IssuedAt: now.AddDate(0, 0, -2)}
	oldDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	topicsRepo.stored[topicKey(oldDate, "science")] = &entity.TopicsArticles{Date: oldDate, Topic: "science"}

	svc := NewHousekeepingService(cfg, queryRepo, topicsRepo, newTestLogger(t))
	svc.(*housekeepingService).now = func() time.Time { return now }

	require.NoError(t, svc.RunOnce(context.Background()))

	assert.NotContains(t, queryRepo.records, "old")
	assert.Contains(t, queryRepo.records, "recent")
	assert.Empty(t, topicsRepo.stored)
}
