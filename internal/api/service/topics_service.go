package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bitewise-api/internal/api/config"
	"bitewise-api/internal/api/dto"
	"bitewise-api/internal/api/repository"
	"bitewise-api/internal/entity"
	"bitewise-api/pkg/logger"
	"bitewise-api/pkg/utils"
)

// TopicsService builds per-topic article digests. Each (day, topic) pair is
// generated at most once; repeat requests for an already generated topic are
// skipped.
type TopicsService interface {
	GenerateTopics(ctx context.Context, req *dto.GenerateTopicsRequest) (*dto.GenerateTopicsResponse, error)
	GetTopics(ctx context.Context, date time.Time) (*dto.TopicsResponse, error)
}

// NewTopicsService creates a new TopicsService.
func NewTopicsService(
	cfg *config.Config,
	topicsRepo repository.TopicsArticlesRepository,
	feed repository.TopicFeedRepository,
	log *logger.Logger,
) TopicsService {
	return &topicsService{
		cfg:        cfg,
		topicsRepo: topicsRepo,
		feed:       feed,
		logger:     log,
		now:        time.Now,
	}
}

type topicsService struct {
	cfg        *config.Config
	topicsRepo repository.TopicsArticlesRepository
	feed       repository.TopicFeedRepository
	logger     *logger.Logger
	now        func() time.Time
}

func (s *topicsService) GenerateTopics(ctx context.Context, req *dto.GenerateTopicsRequest) (*dto.GenerateTopicsResponse, error) {
	if len(req.Topics) == 0 {
		return nil, fmt.Errorf("%w: at least one topic is required", ErrValidation)
	}

	today := utils.StartOfDay(s.now())
	resp := &dto.GenerateTopicsResponse{
		Generated: []string{},
		Skipped:   []string{},
	}

	var pending []string
	seen := make(map[string]bool, len(req.Topics))
	for _, raw := range req.Topics {
		topic := strings.TrimSpace(raw)
		if topic == "" || seen[topic] {
			continue
		}
		seen[topic] = true

		_, err := s.topicsRepo.FindByDateTopic(ctx, today, topic)
		if err == nil {
			resp.Skipped = append(resp.Skipped, topic)
			continue
		}
		if !errors.Is(err, repository.ErrTopicsNotFound) {
			return nil, err
		}
		pending = append(pending, topic)
	}

	if len(pending) == 0 {
		return resp, nil
	}

	records := make([]*entity.TopicsArticles, len(pending))
	var wg sync.WaitGroup
	for i, topic := range pending {
		idx, topic := i, topic
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			articles, err := s.feed.FetchTopicArticles(ctx, topic, s.cfg.Topics.MaxArticlesPerTopic)
			if err != nil {
				s.logger.Error("Failed to fetch topic articles", logger.ErrorField(err),
					logger.StringField("topic", topic))
				return
			}
			records[idx] = &entity.TopicsArticles{
				Date:    today,
				Topic:   topic,
				Results: articles,
			}
		})
	}
	wg.Wait()

	var toInsert []entity.TopicsArticles
	for i, rec := range records {
		if rec == nil {
			resp.Skipped = append(resp.Skipped, pending[i])
			continue
		}
		toInsert = append(toInsert, *rec)
		resp.Generated = append(resp.Generated, pending[i])
	}

	if len(toInsert) > 0 {
		if err := s.topicsRepo.InsertMany(ctx, toInsert); err != nil {
			return nil, fmt.Errorf("failed to store topic digests: %w", err)
		}
	}
	return resp, nil
}

func (s *topicsService) GetTopics(ctx context.Context, date time.Time) (*dto.TopicsResponse, error) {
	records, err := s.topicsRepo.FindByDate(ctx, utils.StartOfDay(date))
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []entity.TopicsArticles{}
	}
	return &dto.TopicsResponse{Topics: records}, nil
}
