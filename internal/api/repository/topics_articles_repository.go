package repository

import (
	"context"
	"errors"
	"time"

	"bitewise-api/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTopicsNotFound is returned when no digest exists for a (date, topic).
var ErrTopicsNotFound = errors.New("topics articles not found")

// TopicsArticlesRepository defines the interface for topic digests.
type TopicsArticlesRepository interface {
	FindByDateTopic(ctx context.Context, date time.Time, topic string) (*entity.TopicsArticles, error)
	FindByDate(ctx context.Context, date time.Time) ([]entity.TopicsArticles, error)
	InsertMany(ctx context.Context, records []entity.TopicsArticles) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewTopicsArticlesRepository creates a new instance of
// TopicsArticlesRepository.
func NewTopicsArticlesRepository(db *gorm.DB) TopicsArticlesRepository {
	return &topicsArticlesRepository{db: db}
}

type topicsArticlesRepository struct {
	db *gorm.DB
}

func (r *topicsArticlesRepository) FindByDateTopic(ctx context.Context, date time.Time, topic string) (*entity.TopicsArticles, error) {
	var t entity.TopicsArticles
	err := r.db.WithContext(ctx).
		First(&t, "date = ? AND topic = ?", date.Format("2006-01-02"), topic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTopicsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *topicsArticlesRepository) FindByDate(ctx context.Context, date time.Time) ([]entity.TopicsArticles, error) {
	var records []entity.TopicsArticles
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		Order("topic ASC").
		Find(&records).Error
	return records, err
}

func (r *topicsArticlesRepository) InsertMany(ctx context.Context, records []entity.TopicsArticles) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "topic"}},
		DoNothing: true,
	}).Create(&records).Error
}

func (r *topicsArticlesRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("date < ?", cutoff.Format("2006-01-02")).
		Delete(&entity.TopicsArticles{})
	return res.RowsAffected, res.Error
}
