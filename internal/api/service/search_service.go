package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitewise-api/internal/api/dto"
	"bitewise-api/internal/api/repository"
	"bitewise-api/internal/entity"
	"bitewise-api/pkg/common"
	"bitewise-api/pkg/logger"
	"bitewise-api/pkg/preference"

	gocache "github.com/patrickmn/go-cache"
)

// SearchService is the query cache orchestrator: cache hit/miss by query
// text, TTL expiry with delete-and-refetch, and association of crawl results
// with a query record.
type SearchService interface {
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
	FilterArticles(req *dto.FilterRequest) (*dto.FilterResponse, error)
}

// NewSearchService creates a new SearchService.
func NewSearchService(
	queryRepo repository.QueryRepository,
	articleRepo repository.ArticleRepository,
	crawler repository.NewsSearchRepository,
	relevance *RelevanceFilter,
	summarizer SummarizeService,
	log *logger.Logger,
) SearchService {
	return &searchService{
		queryRepo:   queryRepo,
		articleRepo: articleRepo,
		crawler:     crawler,
		relevance:   relevance,
		summarizer:  summarizer,
		logger:      log,
		hitCache:    gocache.New(5*time.Minute, 10*time.Minute),
		now:         time.Now,
	}
}

type searchService struct {
	queryRepo   repository.QueryRepository
	articleRepo repository.ArticleRepository
	crawler     repository.NewsSearchRepository
	relevance   *RelevanceFilter
	summarizer  SummarizeService
	logger      *logger.Logger
	hitCache    *gocache.Cache
	now         func() time.Time
}

func (s *searchService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrValidation)
	}

	style := req.Style
	if style == (dto.StylePreferences{}) {
		style = dto.DefaultDashboardStyle()
	}

	cached, err := s.queryRepo.FindByText(ctx, req.Query)
	switch {
	case err == nil && cached.IsFresh(s.now(), common.QueryFreshnessTTL):
		return s.serveHit(ctx, cached, style)
	case err == nil:
		// Stale: drop the record (not the articles) and refetch.
		if err := s.queryRepo.DeleteByText(ctx, req.Query); err != nil {
			return nil, fmt.Errorf("failed to expire stale query: %w", err)
		}
	case !errors.Is(err, repository.ErrQueryNotFound):
		return nil, err
	}

	return s.serveMiss(ctx, req)
}

// serveHit loads the stored result set and regenerates an overview of its
// first articles in the requested style, since the caller's preferences may
// have changed since the set was stored. The fresh summary is intentionally
// not persisted: repeated hits recompute it (the short-lived in-process cache
// only absorbs identical back-to-back hits for the same style).
func (s *searchService) serveHit(ctx context.Context, cached *entity.Query, style dto.StylePreferences) (*dto.SearchResponse, error) {
	articles, err := s.articleRepo.FindByURLs(ctx, cached.ArticleURLs)
	if err != nil {
		return nil, fmt.Errorf("failed to load cached articles: %w", err)
	}

	summary, err := s.resummarize(ctx, cached.Query, articles, style)
	if err != nil {
		return nil, err
	}

	return &dto.SearchResponse{Articles: articles, Summary: summary}, nil
}

func (s *searchService) resummarize(ctx context.Context, query string, articles []entity.Article, style dto.StylePreferences) (*dto.QuerySummary, error) {
	cacheKey := fmt.Sprintf("hit.%s|%s|%s|%s|%t", query,
		style.Length, style.Tone, style.Format, style.JargonAllowed)
	if v, ok := s.hitCache.Get(cacheKey); ok {
		summary := v.(dto.QuerySummary)
		return &summary, nil
	}

	head := articles
	if len(head) > common.CachedHitSummaryCount {
		head = head[:common.CachedHitSummaryCount]
	}
	forSummary := make([]dto.ArticleForSummary, 0, len(head))
	for _, a := range head {
		forSummary = append(forSummary, dto.ArticleForSummary{
			URL:     a.URL,
			Title:   a.Title,
			Content: a.Content,
		})
	}
	if len(forSummary) == 0 {
		return nil, nil
	}

	result, err := s.summarizer.SummarizeArticles(ctx, forSummary, style, false)
	if err != nil {
		return nil, fmt.Errorf("failed to resummarize cached result: %w", err)
	}

	summary := dto.QuerySummary{Title: query, Summary: result.Summary}
	s.hitCache.SetDefault(cacheKey, summary)
	return &summary, nil
}

func (s *searchService) serveMiss(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	crawl, err := s.crawler.Search(ctx, &dto.CrawlSearchRequest{
		Query:       req.Query,
		Preferences: req.Preferences,
		Cluster:     req.Preferences.Clustering,
	})
	if err != nil {
		return nil, fmt.Errorf("search upstream failed: %w", err)
	}

	kept := make([]dto.CrawlArticle, 0, len(crawl.Results))
	for _, a := range crawl.Results {
		if a.Removed || a.URL == "" {
			continue
		}
		kept = append(kept, a)
	}

	kept = s.relevance.Reorder(ctx, kept, req.Query)

	articles := make([]entity.Article, 0, len(kept))
	for _, a := range kept {
		articles = append(articles, crawlArticleToEntity(a))
	}

	// Persistence is best-effort: the search result is valid even when some
	// inserts conflict or fail.
	urls := s.articleRepo.InsertIgnoreConflicts(ctx, articles)

	record := &entity.Query{
		Query:       req.Query,
		IssuedAt:    s.now(),
		ArticleURLs: urls,
	}
	inserted, err := s.queryRepo.Create(ctx, record)
	if err != nil {
		s.logger.Error("Failed to create query record", logger.ErrorField(err),
			logger.StringField("query", req.Query))
	} else if !inserted {
		// A concurrent search for the same text won the insert; its record
		// stands and this result is still correct.
		s.logger.Info("Query record already created by concurrent search",
			logger.StringField("query", req.Query))
	}

	resp := &dto.SearchResponse{Articles: articles}
	if req.Preferences.Clustering {
		resp.Clusters = reshapeClusters(crawl.Clusters)
	}
	return resp, nil
}

func (s *searchService) FilterArticles(req *dto.FilterRequest) (*dto.FilterResponse, error) {
	readTimes := make(map[int]bool, len(req.ReadTimes))
	for _, label := range req.ReadTimes {
		code, err := preference.CodeFor(preference.EnumReadTime, label)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		readTimes[code] = true
	}
	biases := make(map[int]bool, len(req.Biases))
	for _, label := range req.Biases {
		code, err := preference.CodeFor(preference.EnumBias, label)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		biases[code] = true
	}

	kept := make([]entity.Article, 0, len(req.Articles))
	for _, a := range req.Articles {
		if len(readTimes) > 0 && !readTimes[a.ReadTime] {
			continue
		}
		if len(biases) > 0 && !biases[a.BiasRating] {
			continue
		}
		kept = append(kept, a)
	}
	return &dto.FilterResponse{Articles: kept}, nil
}

// crawlArticleToEntity shapes a crawl result into its stored form,
// deriving the read-time bucket and bias rating on the way in.
func crawlArticleToEntity(a dto.CrawlArticle) entity.Article {
	length := len(a.Content)
	if length == 0 {
		length = len(a.Description)
	}
	return entity.Article{
		URL:           a.URL,
		Title:         a.Title,
		Content:       a.Content,
		DatePublished: a.PublishedAt,
		Author:        a.Author,
		Source:        a.Source,
		ReadTime:      preference.ReadTimeBucket(length),
		BiasRating:    preference.BiasForSource(a.Source),
		ImageURL:      a.ImageURL,
	}
}

// reshapeClusters exposes only the cluster id and each article's
// title/description/url to callers.
func reshapeClusters(clusters []dto.CrawlCluster) []dto.ClusterView {
	views := make([]dto.ClusterView, 0, len(clusters))
	for _, c := range clusters {
		view := dto.ClusterView{ID: c.ID}
		for _, a := range c.Articles {
			if a.Removed {
				continue
			}
			view.Articles = append(view.Articles, dto.ClusterArticleView{
				Title:       a.Title,
				Description: a.Description,
				URL:         a.URL,
			})
		}
		views = append(views, view)
	}
	return views
}
