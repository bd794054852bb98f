package entity

import (
	"time"

	"gorm.io/datatypes"
)

// TopicArticle is a lightweight article descriptor stored under a topic
// digest. It carries no full content.
type TopicArticle struct {
	URL           string     `json:"url"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Source        string     `json:"source"`
	DatePublished *time.Time `json:"date_published,omitempty"`
	ReadTime      int        `json:"read_time"`
	BiasRating    int        `json:"bias_rating"`
}

// TopicsArticles is the set of article descriptors generated for one topic on
// one day. Rows are aged out by the housekeeping job.
type TopicsArticles struct {
	ID        uint                              `gorm:"primaryKey" json:"id"`
	Date      time.Time                         `gorm:"type:date;not null;uniqueIndex:idx_topics_date_topic" json:"date"`
	Topic     string                            `gorm:"not null;uniqueIndex:idx_topics_date_topic" json:"topic"`
	Results   datatypes.JSONSlice[TopicArticle] `json:"results"`
	CreatedAt time.Time                         `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the TopicsArticles model.
func (TopicsArticles) TableName() string {
	return "topics_articles"
}
