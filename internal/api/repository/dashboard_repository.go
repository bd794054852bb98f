package repository

import (
	"context"
	"errors"
	"time"

	"bitewise-api/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDashboardNotFound is returned when no dashboard exists for a key.
var ErrDashboardNotFound = errors.New("dashboard not found")

// DashboardRepository defines the interface for stored dashboards.
type DashboardRepository interface {
	FindByDateLocation(ctx context.Context, date time.Time, location string) (*entity.Dashboard, error)
	// Create persists a dashboard, at most one per (date, location). Returns
	// false when that key already exists.
	Create(ctx context.Context, dashboard *entity.Dashboard) (bool, error)
	// AttachPodcast sets the podcast locator on an existing dashboard. This
	// is the only in-place mutation a dashboard ever receives.
	AttachPodcast(ctx context.Context, date time.Time, location, audioURL string) error
	// DistinctDates lists the dates having a stored dashboard for the
	// location, newest first.
	DistinctDates(ctx context.Context, location string) ([]time.Time, error)
}

// NewDashboardRepository creates a new instance of DashboardRepository.
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

type dashboardRepository struct {
	db *gorm.DB
}

func (r *dashboardRepository) FindByDateLocation(ctx context.Context, date time.Time, location string) (*entity.Dashboard, error) {
	var d entity.Dashboard
	err := r.db.WithContext(ctx).
		First(&d, "date = ? AND location = ?", date.Format("2006-01-02"), location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDashboardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *dashboardRepository) Create(ctx context.Context, dashboard *entity.Dashboard) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "location"}},
		DoNothing: true,
	}).Create(dashboard)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *dashboardRepository) AttachPodcast(ctx context.Context, date time.Time, location, audioURL string) error {
	res := r.db.WithContext(ctx).Model(&entity.Dashboard{}).
		Where("date = ? AND location = ?", date.Format("2006-01-02"), location).
		Update("podcast_url", audioURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDashboardNotFound
	}
	return nil
}

func (r *dashboardRepository) DistinctDates(ctx context.Context, location string) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).Model(&entity.Dashboard{}).
		Where("location = ?", location).
		Distinct("date").
		Order("date DESC").
		Pluck("date", &dates).Error
	return dates, err
}
