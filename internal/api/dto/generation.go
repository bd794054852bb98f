package dto

// ArticleForSummary is the keyed article shape handed to the generation
// service's multi-article endpoint.
type ArticleForSummary struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// EnrichedArticle is full text produced as a side effect of summarization,
// fed back to the store through the content reconciler.
type EnrichedArticle struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// SummarizeManyResult is the generation service's multi-article reply.
type SummarizeManyResult struct {
	Title            string            `json:"title"`
	Summary          string            `json:"summary"`
	EnrichedArticles []EnrichedArticle `json:"enriched_articles,omitempty"`
}

// SummarizeOneResult is the generation service's single-article reply.
type SummarizeOneResult struct {
	Summary    string `json:"summary"`
	Difficulty int    `json:"difficulty"`
	AudioURL   string `json:"audio_url,omitempty"`
}

// IndexedTitle is one relevance-classification candidate: the article's
// position in the candidate list plus its title text.
type IndexedTitle struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// GeminiAPIRequest is the generateContent request body.
type GeminiAPIRequest struct {
	Contents []Content `json:"contents"`
}

// Content is a single conversational turn.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is one piece of content.
type Part struct {
	Text string `json:"text"`
}

// GeminiAPIResponse is the generateContent response body.
type GeminiAPIResponse struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
