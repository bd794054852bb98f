package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitewise-api/internal/api/dto"
	"bitewise-api/internal/api/repository"
	"bitewise-api/pkg/common"
	"bitewise-api/pkg/logger"
	"bitewise-api/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// ErrPodcastDashboardMissing is returned when a podcast is requested for a
// (date, location) pair that has no stored dashboard.
var ErrPodcastDashboardMissing = errors.New("no dashboard stored for requested date")

// PodcastService synthesizes a narrated podcast for a stored dashboard and
// attaches the resulting audio locator to it. Synthesis happens at most once
// per dashboard.
type PodcastService interface {
	GeneratePodcast(ctx context.Context, date time.Time, location string) (*dto.PodcastResponse, error)
}

// NewPodcastService creates a new PodcastService.
func NewPodcastService(
	dashboardRepo repository.DashboardRepository,
	media repository.MediaRepository,
	redisClient *redis.Client,
	log *logger.Logger,
) PodcastService {
	return &podcastService{
		dashboardRepo: dashboardRepo,
		media:         media,
		redisClient:   redisClient,
		logger:        log,
	}
}

type podcastService struct {
	dashboardRepo repository.DashboardRepository
	media         repository.MediaRepository
	redisClient   *redis.Client
	logger        *logger.Logger
}

func (s *podcastService) GeneratePodcast(ctx context.Context, date time.Time, location string) (*dto.PodcastResponse, error) {
	date = utils.StartOfDay(date)

	dashboard, err := s.dashboardRepo.FindByDateLocation(ctx, date, location)
	if errors.Is(err, repository.ErrDashboardNotFound) {
		return nil, ErrPodcastDashboardMissing
	}
	if err != nil {
		return nil, err
	}
	if dashboard.PodcastURL != "" {
		return &dto.PodcastResponse{AudioURL: dashboard.PodcastURL}, nil
	}

	lockKey := common.RedisLockPodcastPrefix + date.Format("2006-01-02") + "|" + location
	acquired, err := s.redisClient.SetNX(ctx, lockKey, 1, common.RedisLockTTL).Result()
	if err != nil {
		s.logger.Warn("Failed to acquire podcast lock, synthesizing anyway", logger.ErrorField(err))
		acquired = true
	}
	if !acquired {
		return nil, fmt.Errorf("podcast synthesis already in progress for %s", date.Format("2006-01-02"))
	}
	defer s.redisClient.Del(context.WithoutCancel(ctx), lockKey)

	// One representative article per cluster keeps the narration close to
	// the dashboard's own structure.
	var urls []string
	for _, cluster := range dashboard.Clusters {
		if len(cluster) > 0 {
			urls = append(urls, cluster[0].URL)
		}
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("dashboard for %s has no articles to narrate", date.Format("2006-01-02"))
	}

	audioURL, err := s.media.SynthesizePodcast(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("podcast synthesis failed: %w", err)
	}

	if err := s.dashboardRepo.AttachPodcast(ctx, date, location, audioURL); err != nil {
		s.logger.Error("Failed to attach podcast to dashboard", logger.ErrorField(err),
			logger.StringField("location", location))
	}

	return &dto.PodcastResponse{AudioURL: audioURL}, nil
}
