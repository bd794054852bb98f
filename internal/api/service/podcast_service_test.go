package service

import (
	"context"
	"testing"
	"time"

	"bitewise-api/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPodcastHarness(t *testing.T) (PodcastService, *fakeDashboardRepo, *fakeMedia) {
	t.Helper()
	repo := newFakeDashboardRepo()
	media := &fakeMedia{podcastURL: "https://cdn/podcast.mp3"}
	svc := NewPodcastService(repo, media, unreachableRedis(), newTestLogger(t))
	return svc, repo, media
}

func podcastDashboard(date time.Time) *entity.Dashboard {
	return &entity.Dashboard{
		Date:     date,
		Location: "",
		Clusters: [][]entity.Article{
			{{URL: "https://a/1"}, {URL: "https://a/2"}},
			{{URL: "https://b/1"}},
		},
	}
}

func TestGeneratePodcastSynthesizesAndAttaches(t *testing.T) {
	svc, repo, media := newPodcastHarness(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	repo.put(podcastDashboard(date))

	resp, err := svc.GeneratePodcast(context.Background(), date, "")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn/podcast.mp3", resp.AudioURL)
	require.Len(t, media.podcasted, 1)
	// One representative article per cluster.
	assert.Equal(t, []string{"https://a/1", "https://b/1"}, media.podcasted[0])
	assert.Equal(t, "https://cdn/podcast.mp3", repo.attached[dashboardKey(date, "")])
}

func TestGeneratePodcastReusesExistingAudio(t *testing.T) {
	svc, repo, media := newPodcastHarness(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	d := podcastDashboard(date)
	d.PodcastURL = "https://cdn/existing.mp3"
	repo.put(d)

	resp, err := svc.GeneratePodcast(context.Background(), date, "")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn/existing.mp3", resp.AudioURL)
	assert.Empty(t, media.podcasted)
}

func TestGeneratePodcastMissingDashboard(t *testing.T) {
	svc, _, _ := newPodcastHarness(t)

	_, err := svc.GeneratePodcast(context.Background(), time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), "")
	assert.ErrorIs(t, err, ErrPodcastDashboardMissing)
}

func TestGeneratePodcastEmptyDashboardRejected(t *testing.T) {
	svc, repo, _ := newPodcastHarness(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	repo.put(&entity.Dashboard{Date: date, Location: ""})

	_, err := svc.GeneratePodcast(context.Background(), date, "")
	assert.Error(t, err)
}
