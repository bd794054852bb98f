package repository

import (
	"context"
	"errors"
	"time"

	"bitewise-api/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrQueryNotFound is returned when no cached query exists for a text.
var ErrQueryNotFound = errors.New("query not found")

// QueryRepository defines the interface for the query cache records.
type QueryRepository interface {
	FindByText(ctx context.Context, text string) (*entity.Query, error)
	// Create inserts the query record if no record with the same text exists.
	// The insert-if-absent is atomic at the store, which is what closes the
	// concurrent cache-miss race. Returns false when another writer won.
	Create(ctx context.Context, query *entity.Query) (bool, error)
	DeleteByText(ctx context.Context, text string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewQueryRepository creates a new instance of QueryRepository.
func NewQueryRepository(db *gorm.DB) QueryRepository {
	return &queryRepository{db: db}
}

type queryRepository struct {
	db *gorm.DB
}

func (r *queryRepository) FindByText(ctx context.Context, text string) (*entity.Query, error) {
	var q entity.Query
	err := r.db.WithContext(ctx).First(&q, "query = ?", text).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQueryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *queryRepository) Create(ctx context.Context, query *entity.Query) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "query"}},
		DoNothing: true,
	}).Create(query)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *queryRepository) DeleteByText(ctx context.Context, text string) error {
	return r.db.WithContext(ctx).Where("query = ?", text).Delete(&entity.Query{}).Error
}

func (r *queryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("issued_at < ?", cutoff).Delete(&entity.Query{})
	return res.RowsAffected, res.Error
}
