package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Dashboard is one day's digest for a location. Location "" is the global
// dashboard. Clusters, ClusterSummaries and ClusterLabels are parallel lists
// and correspond by index. A dashboard is created once per (date, location)
// and afterwards mutated only to attach a podcast locator.
type Dashboard struct {
	ID               uint                           `gorm:"primaryKey" json:"id"`
	Date             time.Time                      `gorm:"type:date;not null;uniqueIndex:idx_dashboards_date_location" json:"date"`
	Location         string                         `gorm:"not null;default:'';uniqueIndex:idx_dashboards_date_location" json:"location"`
	Summary          string                         `json:"summary"`
	Clusters         datatypes.JSONSlice[[]Article] `json:"clusters"`
	ClusterSummaries pq.StringArray                 `gorm:"type:text[]" json:"cluster_summaries"`
	ClusterLabels    pq.StringArray                 `gorm:"type:text[]" json:"cluster_labels"`
	PodcastURL       string                         `json:"podcast_url"`
	CreatedAt        time.Time                      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Dashboard model.
func (Dashboard) TableName() string {
	return "dashboards"
}
