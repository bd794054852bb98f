package telegram

import (
	"fmt"
	"strings"
	"time"
)

// FormatDashboardGenerated builds the notification sent after a daily
// dashboard has been assembled and persisted.
func FormatDashboardGenerated(date time.Time, location string, clusterLabels []string, failedClusters int) string {
	var b strings.Builder

	scope := "Daily"
	if location != "" {
		scope = fmt.Sprintf("Local (%s)", location)
	}
	b.WriteString(fmt.Sprintf("*%s dashboard generated* — %s\n", scope, date.Format("2006-01-02")))
	for _, label := range clusterLabels {
		b.WriteString(fmt.Sprintf("• %s\n", label))
	}
	if failedClusters > 0 {
		b.WriteString(fmt.Sprintf("_%d cluster(s) fell back to placeholder summaries_\n", failedClusters))
	}
	return b.String()
}
