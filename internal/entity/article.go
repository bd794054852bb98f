package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Summary is one generated summary of an article. Summaries are append-only:
// a new preference combination adds a record, it never overwrites one.
type Summary struct {
	Summary         string `json:"summary"`
	AILength        int    `json:"ai_length"`
	AITone          int    `json:"ai_tone"`
	AIFormat        int    `json:"ai_format"`
	AIJargonAllowed int    `json:"ai_jargon_allowed"`
	Difficulty      int    `json:"difficulty"`
	AudioURL        string `json:"audio_url,omitempty"`
}

// SamePreferences reports whether s was generated with the same preference
// codes as other, ignoring the generated text.
func (s Summary) SamePreferences(other Summary) bool {
	return s.AILength == other.AILength &&
		s.AITone == other.AITone &&
		s.AIFormat == other.AIFormat &&
		s.AIJargonAllowed == other.AIJargonAllowed
}

// Article is a discovered news article. The URL is the primary key and never
// changes; content starts empty and is filled in by enrichment at most once
// (see ArticleRepository.FillEmptyContent).
type Article struct {
	URL           string                       `gorm:"primaryKey" json:"url"`
	Title         string                       `gorm:"not null" json:"title"`
	Content       string                       `json:"content"`
	DatePublished *time.Time                   `json:"date_published,omitempty"`
	Author        string                       `json:"author"`
	Source        string                       `json:"source"`
	ReadTime      int                          `json:"read_time"`
	BiasRating    int                          `json:"bias_rating"`
	Difficulty    int                          `json:"difficulty"`
	ImageURL      string                       `json:"image_url"`
	Summaries     datatypes.JSONSlice[Summary] `json:"summaries"`
	CreatedAt     time.Time                    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                    `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Article model.
func (Article) TableName() string {
	return "articles"
}
