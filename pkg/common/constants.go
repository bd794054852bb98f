package common

import "time"

const (
	// Redis lock keys. Values are owner tokens, TTL bounds how long a stuck
	// generation can block its key.
	RedisLockDashboardPrefix = "lock.dashboard."
	RedisLockPodcastPrefix   = "lock.podcast."
	RedisLockTTL             = 2 * time.Minute

	// QueryFreshnessTTL is how long a cached query result is served before it
	// is deleted and refetched.
	QueryFreshnessTTL = 24 * time.Hour

	// DashboardArtifactMaxAge gates persistence of a freshly assembled
	// dashboard: the crawl artifact behind it must be newer than this.
	DashboardArtifactMaxAge = 12 * time.Hour

	// GlobalLocation is the location key of the non-local dashboard.
	GlobalLocation = ""

	// CachedHitSummaryCount is how many stored articles are resummarized on a
	// query cache hit.
	CachedHitSummaryCount = 5
)
