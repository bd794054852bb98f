package dto

import (
	"fmt"
	"time"
)

// Digest status values. The status field makes the "still producing" case an
// explicit tagged union instead of a missing-fields guess.
const (
	DigestStatusOK             = "ok"
	DigestStatusStillProducing = "still_producing"
)

// Digest kinds.
const (
	DigestKindGlobal = "global"
	DigestKindLocal  = "local"
)

// CrawlArticle is one search or digest result as the crawl service returns
// it. Removed is set by the upstream provider when an article was retracted
// after indexing.
type CrawlArticle struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Author      string     `json:"author"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ImageURL    string     `json:"image_url"`
	Removed     bool       `json:"removed"`
}

// CrawlSearchRequest is the body sent to the crawl service's search endpoint.
type CrawlSearchRequest struct {
	Query       string            `json:"query"`
	Preferences SearchPreferences `json:"search_preferences"`
	Cluster     bool              `json:"cluster"`
}

// CrawlCluster groups related search results under a provider cluster id.
type CrawlCluster struct {
	ID       int            `json:"id"`
	Articles []CrawlArticle `json:"articles"`
}

// CrawlSearchResponse is the crawl service's search reply.
type CrawlSearchResponse struct {
	Results  []CrawlArticle `json:"results"`
	Clusters []CrawlCluster `json:"clusters,omitempty"`
}

// DigestResponse is the crawl service's daily-digest reply. When Status is
// still_producing all other fields are absent.
type DigestResponse struct {
	Status             string         `json:"status"`
	Clusters           []CrawlCluster `json:"clusters,omitempty"`
	OverallSummary     string         `json:"overall_summary,omitempty"`
	ArtifactModifiedAt *time.Time     `json:"artifact_modified_at,omitempty"`
}

// Validate rejects malformed digest payloads before they reach core logic.
func (r *DigestResponse) Validate() error {
	switch r.Status {
	case DigestStatusStillProducing:
		return nil
	case DigestStatusOK:
		if r.Clusters == nil {
			return fmt.Errorf("digest response with status %q is missing clusters", r.Status)
		}
		return nil
	default:
		return fmt.Errorf("unknown digest status %q", r.Status)
	}
}
