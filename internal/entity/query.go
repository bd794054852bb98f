package entity

import (
	"time"

	"github.com/lib/pq"
)

// Query is a cached search. One row per query text; rows older than the
// freshness TTL are deleted and replaced rather than updated.
type Query struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Query       string         `gorm:"uniqueIndex;not null" json:"query"`
	IssuedAt    time.Time      `gorm:"not null" json:"issued_at"`
	ArticleURLs pq.StringArray `gorm:"type:text[]" json:"article_urls"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Query model.
func (Query) TableName() string {
	return "queries"
}

// IsFresh reports whether the cached result is still inside the TTL window.
func (q *Query) IsFresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(q.IssuedAt) < ttl
}
