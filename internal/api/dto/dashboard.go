package dto

import "bitewise-api/internal/entity"

// DashboardResponse is the body returned by GET /dashboard. Summary is nil
// and Clusters empty when no dashboard exists for a historical date.
type DashboardResponse struct {
	Date             string             `json:"date,omitempty"`
	Location         string             `json:"location,omitempty"`
	Summary          *string            `json:"summary"`
	Clusters         [][]entity.Article `json:"clusters"`
	ClusterSummaries []string           `json:"cluster_summaries,omitempty"`
	ClusterLabels    []string           `json:"cluster_labels,omitempty"`
	PodcastURL       string             `json:"podcast_url,omitempty"`
}

// EmptyDashboardResponse is the shell returned for a historical date with no
// stored dashboard.
func EmptyDashboardResponse() *DashboardResponse {
	return &DashboardResponse{
		Summary:  nil,
		Clusters: [][]entity.Article{},
	}
}

// DashboardFromEntity converts a stored dashboard to its response shape.
func DashboardFromEntity(d *entity.Dashboard) *DashboardResponse {
	summary := d.Summary
	return &DashboardResponse{
		Date:             d.Date.Format("2006-01-02"),
		Location:         d.Location,
		Summary:          &summary,
		Clusters:         d.Clusters,
		ClusterSummaries: d.ClusterSummaries,
		ClusterLabels:    d.ClusterLabels,
		PodcastURL:       d.PodcastURL,
	}
}

// DashboardDatesResponse is the body returned by GET /dashboard/dates.
type DashboardDatesResponse struct {
	Dates []string `json:"dates"`
}

// PodcastRequest is the body of POST /dashboard/podcast.
type PodcastRequest struct {
	Date     string `json:"date"`
	Location string `json:"location"`
}

// PodcastResponse carries the attached podcast locator.
type PodcastResponse struct {
	AudioURL string `json:"audio_url"`
}
