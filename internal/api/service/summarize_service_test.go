package service

import (
	"context"
	"errors"
	"testing"

	"bitewise-api/internal/api/dto"
	"bitewise-api/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSummarizeHarness(t *testing.T) (SummarizeService, *fakeArticleRepo, *fakeGeneration, *fakeScraper, *fakeMedia) {
	t.Helper()
	articleRepo := newFakeArticleRepo()
	gen := &fakeGeneration{
		oneResult:  &dto.SummarizeOneResult{Summary: "generated", Difficulty: 1},
		manyResult: &dto.SummarizeManyResult{Title: "shared title", Summary: "shared summary"},
	}
	scraper := &fakeScraper{content: map[string]string{}}
	media := &fakeMedia{audioURL: "https://cdn/audio.mp3"}

	svc := NewSummarizeService(articleRepo, gen, scraper, media, newTestLogger(t))
	return svc, articleRepo, gen, scraper, media
}

func casualStyle() dto.StylePreferences {
	return dto.StylePreferences{Length: "medium", Tone: "conversational", Format: "bullets"}
}

func TestSummarizeArticleReusesStoredSummary(t *testing.T) {
	svc, articleRepo, gen, _, _ := newSummarizeHarness(t)

	existing := entity.Summary{Summary: "stored", AILength: 1, AITone: 1, AIFormat: 1, AIJargonAllowed: 1}
	articleRepo.articles["https://x/1"] = &entity.Article{
		URL: "https://x/1", Content: "text",
		Summaries: []entity.Summary{existing},
	}
	gen.oneErr = errors.New("must not be called")

	resp, err := svc.SummarizeArticle(context.Background(), &dto.SummarizeArticleRequest{
		Article:     dto.ArticleForSummary{URL: "https://x/1"},
		Preferences: casualStyle(),
	})
	require.NoError(t, err)

	assert.True(t, resp.Cached)
	assert.Equal(t, "stored", resp.Summary.Summary)
}

func TestSummarizeArticleDifferentStyleAppends(t *testing.T) {
	svc, articleRepo, _, _, _ := newSummarizeHarness(t)

	existing := entity.Summary{Summary: "stored", AILength: 0, AITone: 0, AIFormat: 0, AIJargonAllowed: 0}
	articleRepo.articles["https://x/1"] = &entity.Article{
		URL: "https://x/1", Content: "text",
		Summaries: []entity.Summary{existing},
	}

	resp, err := svc.SummarizeArticle(context.Background(), &dto.SummarizeArticleRequest{
		Article:     dto.ArticleForSummary{URL: "https://x/1"},
		Preferences: casualStyle(),
	})
	require.NoError(t, err)

	assert.False(t, resp.Cached)
	assert.Equal(t, "generated", resp.Summary.Summary)
	require.Len(t, articleRepo.appended["https://x/1"], 1)
	appended := articleRepo.appended["https://x/1"][0]
	assert.Equal(t, 1, appended.AILength)
	assert.Equal(t, 1, appended.AITone)
	assert.Equal(t, 1, appended.AIFormat)
	// Jargon not allowed stores code 1.
	assert.Equal(t, 1, appended.AIJargonAllowed)
}

func TestSummarizeArticleScrapesWhenContentMissing(t *testing.T) {
	svc, articleRepo, _, scraper, _ := newSummarizeHarness(t)
	scraper.content["https://x/2"] = "scraped body"

	resp, err := svc.SummarizeArticle(context.Background(), &dto.SummarizeArticleRequest{
		Article:     dto.ArticleForSummary{URL: "https://x/2"},
		Preferences: casualStyle(),
	})
	require.NoError(t, err)

	assert.False(t, resp.Cached)
	assert.Equal(t, 1, scraper.calls)
	require.Len(t, articleRepo.filled, 1)
	assert.Equal(t, "https://x/2", articleRepo.filled[0].URL)
	assert.Equal(t, "scraped body", articleRepo.filled[0].Content)
}

func TestSummarizeArticleWithAudio(t *testing.T) {
	svc, _, _, _, media := newSummarizeHarness(t)

	resp, err := svc.SummarizeArticle(context.Background(), &dto.SummarizeArticleRequest{
		Article:     dto.ArticleForSummary{URL: "https://x/3", Content: "text"},
		Preferences: casualStyle(),
		WithAudio:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, media.audioURL, resp.Summary.AudioURL)
}

func TestSummarizeArticleAudioFailureDegrades(t *testing.T) {
	svc, _, _, _, media := newSummarizeHarness(t)
	media.audioErr = errors.New("tts down")

	resp, err := svc.SummarizeArticle(context.Background(), &dto.SummarizeArticleRequest{
		Article:     dto.ArticleForSummary{URL: "https://x/3", Content: "text"},
		Preferences: casualStyle(),
		WithAudio:   true,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Summary.AudioURL)
	assert.Equal(t, "generated", resp.Summary.Summary)
}

func TestSummarizeArticleUnknownLabelRejected(t *testing.T) {
	svc, _, _, _, _ := newSummarizeHarness(t)

	_, err := svc.SummarizeArticle(context.Background(), &dto.SummarizeArticleRequest{
		Article:     dto.ArticleForSummary{URL: "https://x/1", Content: "text"},
		Preferences: dto.StylePreferences{Length: "gigantic", Tone: "formal", Format: "bullets"},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSummarizeArticlesEnrichesAndReconciles(t *testing.T) {
	svc, articleRepo, _, scraper, _ := newSummarizeHarness(t)
	scraper.content["https://x/empty"] = "filled in"

	result, err := svc.SummarizeArticles(context.Background(), []dto.ArticleForSummary{
		{URL: "https://x/full", Content: "already has text"},
		{URL: "https://x/empty"},
	}, casualStyle(), false)
	require.NoError(t, err)

	assert.Equal(t, "shared title", result.Title)
	assert.Equal(t, 1, scraper.calls)
	require.Len(t, result.EnrichedArticles, 1)
	assert.Equal(t, "https://x/empty", result.EnrichedArticles[0].URL)
	require.Len(t, articleRepo.filled, 1)
	assert.Equal(t, "filled in", articleRepo.filled[0].Content)
}

func TestSummarizeArticlesScrapeFailureIsNotFatal(t *testing.T) {
	svc, articleRepo, _, scraper, _ := newSummarizeHarness(t)
	scraper.err = errors.New("blocked")

	result, err := svc.SummarizeArticles(context.Background(), []dto.ArticleForSummary{
		{URL: "https://x/1"},
	}, casualStyle(), false)
	require.NoError(t, err)

	assert.Equal(t, "shared summary", result.Summary)
	assert.Empty(t, result.EnrichedArticles)
	assert.Empty(t, articleRepo.filled)
}

func TestSummarizeArticlesEmptyInputRejected(t *testing.T) {
	svc, _, _, _, _ := newSummarizeHarness(t)

	_, err := svc.SummarizeArticles(context.Background(), nil, casualStyle(), false)
	assert.ErrorIs(t, err, ErrValidation)
}
