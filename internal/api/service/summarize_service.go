package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bitewise-api/internal/api/dto"
	"bitewise-api/internal/api/repository"
	"bitewise-api/internal/entity"
	"bitewise-api/pkg/logger"
	"bitewise-api/pkg/preference"
	"bitewise-api/pkg/utils"
)

// ErrValidation marks request errors surfaced before any downstream call.
var ErrValidation = errors.New("validation error")

// maxConcurrentScrapes bounds the enrichment fetches issued for one
// summarization request.
const maxConcurrentScrapes = 4

// SummarizeService produces article summaries, enriching empty articles by
// scraping and reconciling the scraped text back into the store.
type SummarizeService interface {
	SummarizeArticle(ctx context.Context, req *dto.SummarizeArticleRequest) (*dto.SummarizeArticleResponse, error)
	// SummarizeArticles summarizes a set of articles as one overview. The
	// returned result carries the enrichment pairs produced on the way;
	// reconciliation into the store has already been attempted.
	SummarizeArticles(ctx context.Context, articles []dto.ArticleForSummary, prefs dto.StylePreferences, dashboard bool) (*dto.SummarizeManyResult, error)
}

// NewSummarizeService creates a new SummarizeService.
func NewSummarizeService(
	articleRepo repository.ArticleRepository,
	generation repository.GenerationRepository,
	scraper repository.ScraperRepository,
	media repository.MediaRepository,
	log *logger.Logger,
) SummarizeService {
	return &summarizeService{
		articleRepo: articleRepo,
		generation:  generation,
		scraper:     scraper,
		media:       media,
		logger:      log,
	}
}

type summarizeService struct {
	articleRepo repository.ArticleRepository
	generation  repository.GenerationRepository
	scraper     repository.ScraperRepository
	media       repository.MediaRepository
	logger      *logger.Logger
}

func (s *summarizeService) SummarizeArticle(ctx context.Context, req *dto.SummarizeArticleRequest) (*dto.SummarizeArticleResponse, error) {
	if req.Article.URL == "" && req.Article.Content == "" {
		return nil, fmt.Errorf("%w: article is required", ErrValidation)
	}

	codes, err := translateStyle(req.Preferences)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// An already-stored summary for the same preference combination is
	// reused; summaries are append-only and never regenerated in place.
	stored, err := s.articleRepo.FindByURL(ctx, req.Article.URL)
	if err != nil && !errors.Is(err, repository.ErrArticleNotFound) {
		return nil, err
	}
	if stored != nil {
		for _, existing := range stored.Summaries {
			if existing.SamePreferences(codes) {
				return &dto.SummarizeArticleResponse{Summary: existing, Cached: true}, nil
			}
		}
	}

	article := req.Article
	if article.Content == "" && stored != nil {
		article.Content = stored.Content
	}
	var scraped []repository.ContentPair
	if article.Content == "" {
		content, err := s.scraper.FetchContent(ctx, article.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to enrich article for summarization: %w", err)
		}
		article.Content = content
		scraped = append(scraped, repository.ContentPair{URL: article.URL, Content: content})
	}

	result, err := s.generation.SummarizeOne(ctx, article, req.Preferences)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	summary := entity.Summary{
		Summary:         result.Summary,
		AILength:        codes.AILength,
		AITone:          codes.AITone,
		AIFormat:        codes.AIFormat,
		AIJargonAllowed: codes.AIJargonAllowed,
		Difficulty:      result.Difficulty,
	}

	if req.WithAudio {
		audioURL, err := s.media.SynthesizeAudio(ctx, result.Summary)
		if err != nil {
			// Audio is an optional decoration on the summary.
			s.logger.Error("Failed to synthesize summary audio", logger.ErrorField(err),
				logger.StringField("url", req.Article.URL))
		} else {
			summary.AudioURL = audioURL
		}
	}

	if stored != nil {
		if err := s.articleRepo.AppendSummary(ctx, req.Article.URL, summary); err != nil {
			// The summary was computed; persistence failure degrades to a
			// non-cached response.
			s.logger.Error("Failed to persist summary", logger.ErrorField(err),
				logger.StringField("url", req.Article.URL))
		}
	}
	_ = s.articleRepo.FillEmptyContent(ctx, scraped)

	return &dto.SummarizeArticleResponse{Summary: summary, Cached: false}, nil
}

func (s *summarizeService) SummarizeArticles(ctx context.Context, articles []dto.ArticleForSummary, prefs dto.StylePreferences, dashboard bool) (*dto.SummarizeManyResult, error) {
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w: articles are required", ErrValidation)
	}
	if _, err := translateStyle(prefs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	enriched, pairs := s.enrich(ctx, articles)

	result, err := s.generation.SummarizeMany(ctx, enriched, prefs, dashboard)
	if err != nil {
		return nil, fmt.Errorf("failed to generate collection summary: %w", err)
	}
	result.EnrichedArticles = pairsToDTO(pairs)

	_ = s.articleRepo.FillEmptyContent(ctx, pairs)

	return result, nil
}

// enrich scrapes full text for articles that have none. Failures leave the
// article as-is; the summarizer can still work from titles and URLs.
func (s *summarizeService) enrich(ctx context.Context, articles []dto.ArticleForSummary) ([]dto.ArticleForSummary, []repository.ContentPair) {
	enriched := make([]dto.ArticleForSummary, len(articles))
	copy(enriched, articles)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		pairs []repository.ContentPair
	)
	sem := make(chan struct{}, maxConcurrentScrapes)

	for i := range enriched {
		if enriched[i].Content != "" || enriched[i].URL == "" {
			continue
		}
		idx := i
		wg.Add(1)
		sem <- struct{}{}
		utils.GoSafe(func() {
			defer wg.Done()
			defer func() { <-sem }()

			content, err := s.scraper.FetchContent(ctx, enriched[idx].URL)
			if err != nil {
				s.logger.Warn("Failed to scrape article for enrichment",
					logger.ErrorField(err), logger.StringField("url", enriched[idx].URL))
				return
			}
			mu.Lock()
			enriched[idx].Content = content
			pairs = append(pairs, repository.ContentPair{URL: enriched[idx].URL, Content: content})
			mu.Unlock()
		})
	}
	wg.Wait()

	return enriched, pairs
}

// translateStyle maps style labels to storage codes, rejecting unknown
// labels before any downstream call is made.
func translateStyle(prefs dto.StylePreferences) (entity.Summary, error) {
	length, err := preference.CodeFor(preference.EnumAILength, prefs.Length)
	if err != nil {
		return entity.Summary{}, err
	}
	tone, err := preference.CodeFor(preference.EnumAITone, prefs.Tone)
	if err != nil {
		return entity.Summary{}, err
	}
	format, err := preference.CodeFor(preference.EnumAIFormat, prefs.Format)
	if err != nil {
		return entity.Summary{}, err
	}
	jargonLabel := "false"
	if prefs.JargonAllowed {
		jargonLabel = "true"
	}
	jargon, err := preference.CodeFor(preference.EnumAIJargon, jargonLabel)
	if err != nil {
		return entity.Summary{}, err
	}
	return entity.Summary{
		AILength:        length,
		AITone:          tone,
		AIFormat:        format,
		AIJargonAllowed: jargon,
	}, nil
}

func pairsToDTO(pairs []repository.ContentPair) []dto.EnrichedArticle {
	out := make([]dto.EnrichedArticle, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, dto.EnrichedArticle{URL: p.URL, Content: p.Content})
	}
	return out
}
