package dto

import "bitewise-api/internal/entity"

// SummarizeArticleRequest is the body of POST /summarize/article.
type SummarizeArticleRequest struct {
	Article     ArticleForSummary `json:"article"`
	Preferences StylePreferences  `json:"user_preferences"`
	WithAudio   bool              `json:"with_audio,omitempty"`
}

// SummarizeArticleResponse returns the stored (or freshly appended)
// SummaryRecord for the requested preference combination.
type SummarizeArticleResponse struct {
	Summary entity.Summary `json:"summary"`
	Cached  bool           `json:"cached"`
}

// SummarizeArticlesRequest is the body of POST /summarize/articles.
type SummarizeArticlesRequest struct {
	Articles    []ArticleForSummary `json:"articles"`
	Preferences StylePreferences    `json:"user_preferences"`
}

// SummarizeArticlesResponse is the multi-article overview.
type SummarizeArticlesResponse struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}
