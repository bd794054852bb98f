package dto

import "bitewise-api/internal/entity"

// SearchPreferences narrow a crawl request. All fields are optional.
type SearchPreferences struct {
	Sources        []string `json:"sources,omitempty"`
	Domains        []string `json:"domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
	FromDate       string   `json:"from_date,omitempty"`
	Clustering     bool     `json:"clustering,omitempty"`
	Location       string   `json:"location,omitempty"`
}

// StylePreferences select how the generation service writes summaries.
// Values are labels, not codes; the preference codec translates at the
// storage boundary.
type StylePreferences struct {
	Length        string `json:"length"`
	Tone          string `json:"tone"`
	Format        string `json:"format"`
	JargonAllowed bool   `json:"jargon_allowed"`
}

// DefaultDashboardStyle is the fixed style used for dashboard cluster
// summaries, which are not user-customized.
func DefaultDashboardStyle() StylePreferences {
	return StylePreferences{
		Length:        "short",
		Tone:          "formal",
		Format:        "highlights",
		JargonAllowed: true,
	}
}

// SearchRequest is the body of POST /search. Style applies when a cached
// result set is resummarized; when omitted the default style is used.
type SearchRequest struct {
	Query       string            `json:"query"`
	Preferences SearchPreferences `json:"user_preferences"`
	Style       StylePreferences  `json:"style_preferences"`
}

// QuerySummary is the overview generated for a search result set.
type QuerySummary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// ClusterArticleView is the reduced article shape exposed when clustering was
// requested on a search.
type ClusterArticleView struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// ClusterView pairs a provider cluster id with its reduced articles.
type ClusterView struct {
	ID       int                  `json:"id"`
	Articles []ClusterArticleView `json:"articles"`
}

// SearchResponse is the body returned by POST /search.
type SearchResponse struct {
	Articles []entity.Article `json:"articles"`
	Summary  *QuerySummary    `json:"summary,omitempty"`
	Clusters []ClusterView    `json:"clusters,omitempty"`
}

// FilterRequest is the body of POST /articles/filter. ReadTimes and Biases
// hold preference labels; articles failing every selected bucket are dropped
// from the response (the store is not consulted).
type FilterRequest struct {
	Articles  []entity.Article `json:"articles"`
	ReadTimes []string         `json:"read_times,omitempty"`
	Biases    []string         `json:"biases,omitempty"`
}

// FilterResponse is the body returned by POST /articles/filter.
type FilterResponse struct {
	Articles []entity.Article `json:"articles"`
}
