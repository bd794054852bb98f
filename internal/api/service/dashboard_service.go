package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bitewise-api/internal/api/config"
	"bitewise-api/internal/api/dto"
	"bitewise-api/internal/api/repository"
	"bitewise-api/internal/entity"
	"bitewise-api/pkg/common"
	"bitewise-api/pkg/logger"
	"bitewise-api/pkg/telegram"
	"bitewise-api/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// ErrNoHistoricalDashboard is returned when a backfill walk exhausts the
// configured lookback without finding a stored dashboard.
var ErrNoHistoricalDashboard = errors.New("no historical dashboard within lookback window")

// Placeholder texts substituted for a cluster whose summarization failed.
const (
	FailedClusterTitle   = "Title generation failed."
	FailedClusterSummary = "Summary generation failed."
)

// DashboardService serves daily and local dashboards: cache by (date,
// location), generation on today's miss, and historical backfill while the
// crawl is still producing.
type DashboardService interface {
	GetDashboard(ctx context.Context, kind, location string, date time.Time) (*dto.DashboardResponse, error)
	ValidDates(ctx context.Context, location string) ([]string, error)
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	cfg *config.Config,
	dashboardRepo repository.DashboardRepository,
	crawler repository.NewsSearchRepository,
	summarizer SummarizeService,
	generation repository.GenerationRepository,
	redisClient *redis.Client,
	notifier telegram.Notifier,
	log *logger.Logger,
) DashboardService {
	readTTL := 5 * time.Minute
	if cfg.Dashboard.ReadCacheTTLSeconds > 0 {
		readTTL = time.Duration(cfg.Dashboard.ReadCacheTTLSeconds) * time.Second
	}
	return &dashboardService{
		cfg:           cfg,
		dashboardRepo: dashboardRepo,
		crawler:       crawler,
		summarizer:    summarizer,
		generation:    generation,
		redisClient:   redisClient,
		notifier:      notifier,
		logger:        log,
		readCache:     gocache.New(readTTL, 2*readTTL),
		now:           time.Now,
	}
}

type dashboardService struct {
	cfg           *config.Config
	dashboardRepo repository.DashboardRepository
	crawler       repository.NewsSearchRepository
	summarizer    SummarizeService
	generation    repository.GenerationRepository
	redisClient   *redis.Client
	notifier      telegram.Notifier
	logger        *logger.Logger
	readCache     *gocache.Cache
	now           func() time.Time
}

func (s *dashboardService) GetDashboard(ctx context.Context, kind, location string, date time.Time) (*dto.DashboardResponse, error) {
	if kind != dto.DigestKindGlobal && kind != dto.DigestKindLocal {
		return nil, fmt.Errorf("%w: unknown dashboard kind %q", ErrValidation, kind)
	}
	if kind == dto.DigestKindLocal && location == "" {
		return nil, fmt.Errorf("%w: location is required for local dashboards", ErrValidation)
	}
	if kind == dto.DigestKindGlobal {
		location = common.GlobalLocation
	}

	date = utils.StartOfDay(date)

	// Historical dates are pure reads: no external service is consulted
	// and nothing is written. The request date arrives as a bare calendar
	// day, so compare days rather than instants.
	if !utils.SameDay(date, s.now()) {
		stored, err := s.dashboardRepo.FindByDateLocation(ctx, date, location)
		if errors.Is(err, repository.ErrDashboardNotFound) {
			return dto.EmptyDashboardResponse(), nil
		}
		if err != nil {
			return nil, err
		}
		return dto.DashboardFromEntity(stored), nil
	}

	cacheKey := date.Format("2006-01-02") + "|" + location
	if v, ok := s.readCache.Get(cacheKey); ok {
		return v.(*dto.DashboardResponse), nil
	}

	stored, err := s.dashboardRepo.FindByDateLocation(ctx, date, location)
	if err == nil {
		resp := dto.DashboardFromEntity(stored)
		s.readCache.SetDefault(cacheKey, resp)
		return resp, nil
	}
	if !errors.Is(err, repository.ErrDashboardNotFound) {
		return nil, err
	}

	return s.generate(ctx, kind, location, date)
}

func (s *dashboardService) ValidDates(ctx context.Context, location string) ([]string, error) {
	dates, err := s.dashboardRepo.DistinctDates(ctx, location)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	return out, nil
}

// generate builds today's dashboard from a fresh crawl digest, falling back
// to the most recent historical dashboard while the crawl is still
// producing. A redis lock dedups concurrent generation for the same key.
func (s *dashboardService) generate(ctx context.Context, kind, location string, date time.Time) (*dto.DashboardResponse, error) {
	lockKey := common.RedisLockDashboardPrefix + date.Format("2006-01-02") + "|" + location
	acquired, err := s.redisClient.SetNX(ctx, lockKey, 1, common.RedisLockTTL).Result()
	if err != nil {
		// Generation can proceed without the lock; the store's one-row-per-key
		// constraint still guarantees a single persisted dashboard.
		s.logger.Warn("Failed to acquire dashboard lock, generating anyway", logger.ErrorField(err))
		acquired = true
	}
	if !acquired {
		if resp, ok := s.awaitConcurrentGeneration(ctx, location, date); ok {
			return resp, nil
		}
	} else {
		defer s.redisClient.Del(context.WithoutCancel(ctx), lockKey)
	}

	digest, err := s.crawler.DailyDigest(ctx, kind, location)
	if err != nil {
		return nil, fmt.Errorf("digest upstream failed: %w", err)
	}

	if digest.Status == dto.DigestStatusStillProducing {
		return s.backfill(ctx, location, date)
	}

	results := s.summarizeClusters(ctx, digest.Clusters)

	dashboard := &entity.Dashboard{
		Date:             date,
		Location:         location,
		Summary:          digest.OverallSummary,
		Clusters:         make([][]entity.Article, 0, len(results)),
		ClusterSummaries: make([]string, 0, len(results)),
		ClusterLabels:    make([]string, 0, len(results)),
	}
	failed := 0
	for _, res := range results {
		dashboard.Clusters = append(dashboard.Clusters, res.articles)
		dashboard.ClusterSummaries = append(dashboard.ClusterSummaries, res.summary)
		dashboard.ClusterLabels = append(dashboard.ClusterLabels, res.label)
		if res.failed {
			failed++
		}
	}

	if dashboard.Summary == "" {
		dashboard.Summary = s.overallSummary(ctx, results)
	}

	// Persist only when the crawl artifact behind this digest is recent;
	// otherwise the result is served ephemerally and recomputed later.
	if s.artifactFresh(digest.ArtifactModifiedAt) {
		created, err := s.dashboardRepo.Create(ctx, dashboard)
		if err != nil {
			s.logger.Error("Failed to persist dashboard", logger.ErrorField(err),
				logger.StringField("location", location))
		} else if created {
			if err := s.notifier.SendMessage(telegram.FormatDashboardGenerated(date, location, dashboard.ClusterLabels, failed)); err != nil {
				s.logger.Error("Failed to send dashboard notification", logger.ErrorField(err))
			}
		}
	} else {
		s.logger.Info("Crawl artifact too old, serving dashboard without persisting",
			logger.StringField("location", location))
	}

	resp := dto.DashboardFromEntity(dashboard)
	s.readCache.SetDefault(date.Format("2006-01-02")+"|"+location, resp)
	return resp, nil
}

// awaitConcurrentGeneration polls the store while another process holds the
// generation lock. Returns false if nothing appeared in time; the caller
// then generates itself.
func (s *dashboardService) awaitConcurrentGeneration(ctx context.Context, location string, date time.Time) (*dto.DashboardResponse, bool) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	deadline := time.After(30 * time.Second)

	for {
		select {
		case <-ctx.Done():
			return nil, false
		case <-deadline:
			return nil, false
		case <-ticker.C:
			stored, err := s.dashboardRepo.FindByDateLocation(ctx, date, location)
			if err == nil {
				return dto.DashboardFromEntity(stored), true
			}
		}
	}
}

// backfill walks backward one day at a time until it finds a stored
// dashboard, bounded by the configured lookback.
func (s *dashboardService) backfill(ctx context.Context, location string, from time.Time) (*dto.DashboardResponse, error) {
	for i := 1; i <= s.cfg.Dashboard.MaxBackfillDays; i++ {
		candidate := from.AddDate(0, 0, -i)
		stored, err := s.dashboardRepo.FindByDateLocation(ctx, candidate, location)
		if err == nil {
			return dto.DashboardFromEntity(stored), nil
		}
		if !errors.Is(err, repository.ErrDashboardNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %d days before %s", ErrNoHistoricalDashboard,
		s.cfg.Dashboard.MaxBackfillDays, from.Format("2006-01-02"))
}

type clusterResult struct {
	id       int
	articles []entity.Article
	label    string
	summary  string
	failed   bool
}

// summarizeClusters requests a summary for every cluster concurrently,
// bounded by the configured limit. A cluster whose summarization fails gets
// placeholder texts and its original unenriched articles; the failure never
// aborts the other clusters or the request.
func (s *dashboardService) summarizeClusters(ctx context.Context, clusters []dto.CrawlCluster) []clusterResult {
	results := make([]clusterResult, len(clusters))
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.Dashboard.MaxConcurrentSummaries)

	for i := range clusters {
		idx := i
		cluster := clusters[i]
		wg.Add(1)
		sem <- struct{}{}
		utils.GoSafe(func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = s.summarizeCluster(ctx, cluster)
		})
	}
	wg.Wait()

	return results
}

func (s *dashboardService) summarizeCluster(ctx context.Context, cluster dto.CrawlCluster) clusterResult {
	original := make([]entity.Article, 0, len(cluster.Articles))
	forSummary := make([]dto.ArticleForSummary, 0, len(cluster.Articles))
	for _, a := range cluster.Articles {
		original = append(original, crawlArticleToEntity(a))
		forSummary = append(forSummary, dto.ArticleForSummary{
			URL:     a.URL,
			Title:   a.Title,
			Content: a.Content,
		})
	}

	res, err := s.summarizer.SummarizeArticles(ctx, forSummary, dto.DefaultDashboardStyle(), true)
	if err != nil {
		s.logger.Error("Cluster summarization failed", logger.ErrorField(err),
			logger.IntField("cluster_id", cluster.ID))
		return clusterResult{
			id:       cluster.ID,
			articles: original,
			label:    FailedClusterTitle,
			summary:  FailedClusterSummary,
			failed:   true,
		}
	}

	enriched := applyEnrichment(original, res.EnrichedArticles)
	return clusterResult{
		id:       cluster.ID,
		articles: enriched,
		label:    res.Title,
		summary:  res.Summary,
	}
}

// overallSummary generates the dashboard overview from each cluster's
// leading articles when the crawl digest did not include one.
func (s *dashboardService) overallSummary(ctx context.Context, results []clusterResult) string {
	var representatives []dto.ArticleForSummary
	for _, res := range results {
		if res.failed || len(res.articles) == 0 {
			continue
		}
		a := res.articles[0]
		representatives = append(representatives, dto.ArticleForSummary{
			URL:     a.URL,
			Title:   a.Title,
			Content: a.Content,
		})
	}
	if len(representatives) == 0 {
		return ""
	}

	overview, err := s.generation.DailyOverview(ctx, representatives)
	if err != nil {
		s.logger.Error("Failed to generate daily overview", logger.ErrorField(err))
		return ""
	}
	return overview
}

func (s *dashboardService) artifactFresh(modifiedAt *time.Time) bool {
	if modifiedAt == nil {
		return false
	}
	return s.now().Sub(*modifiedAt) <= common.DashboardArtifactMaxAge
}

func applyEnrichment(articles []entity.Article, enriched []dto.EnrichedArticle) []entity.Article {
	if len(enriched) == 0 {
		return articles
	}
	byURL := make(map[string]string, len(enriched))
	for _, e := range enriched {
		byURL[e.URL] = e.Content
	}
	for i := range articles {
		if articles[i].Content == "" {
			if content, ok := byURL[articles[i].URL]; ok {
				articles[i].Content = content
			}
		}
	}
	return articles
}
