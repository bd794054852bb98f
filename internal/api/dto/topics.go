package dto

import "bitewise-api/internal/entity"

// GenerateTopicsRequest is the body of POST /topics/generate.
type GenerateTopicsRequest struct {
	Topics      []string          `json:"topics"`
	Preferences SearchPreferences `json:"search_preferences"`
}

// GenerateTopicsResponse reports which topics were actually generated; topics
// already present for today are skipped.
type GenerateTopicsResponse struct {
	Generated []string `json:"generated"`
	Skipped   []string `json:"skipped"`
}

// TopicsResponse is the body returned by GET /topics.
type TopicsResponse struct {
	Topics []entity.TopicsArticles `json:"topics"`
}
