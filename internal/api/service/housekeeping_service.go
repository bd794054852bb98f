package service

import (
	"context"
	"time"

	"bitewise-api/internal/api/config"
	"bitewise-api/internal/api/repository"
	"bitewise-api/pkg/logger"
	"bitewise-api/pkg/utils"

	"github.com/robfig/cron/v3"
)

// HousekeepingService periodically drops query records and topic digests
// older than the retention window. Dashboards and articles are kept.
type HousekeepingService interface {
	Start() error
	Stop()
	RunOnce(ctx context.Context) error
}

// NewHousekeepingService creates a new HousekeepingService.
func NewHousekeepingService(
	cfg *config.Config,
	queryRepo repository.QueryRepository,
	topicsRepo repository.TopicsArticlesRepository,
	log *logger.Logger,
) HousekeepingService {
	return &housekeepingService{
		cfg:        cfg,
		queryRepo:  queryRepo,
		topicsRepo: topicsRepo,
		logger:     log,
		cron:       cron.New(),
		now:        time.Now,
	}
}

type housekeepingService struct {
	cfg        *config.Config
	queryRepo  repository.QueryRepository
	topicsRepo repository.TopicsArticlesRepository
	logger     *logger.Logger
	cron       *cron.Cron
	now        func() time.Time
}

func (s *housekeepingService) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Housekeeping.CronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("Housekeeping run failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Housekeeping scheduled",
		logger.StringField("cron", s.cfg.Housekeeping.CronExpression),
		logger.IntField("retention_days", s.cfg.Housekeeping.RetentionDays))
	return nil
}

func (s *housekeepingService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *housekeepingService) RunOnce(ctx context.Context) error {
	cutoff := utils.StartOfDay(s.now()).AddDate(0, 0, -s.cfg.Housekeeping.RetentionDays)

	queries, err := s.queryRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	topics, err := s.topicsRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	s.logger.Info("Housekeeping completed",
		logger.IntField("queries_removed", int(queries)),
		logger.IntField("topics_removed", int(topics)))
	return nil
}
