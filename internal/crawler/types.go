package crawler

import (
	"time"
)

// DefaultPort is the destination TCP port when none is configured.
const DefaultPort = 80

// DefaultTimeout bounds every socket operation of a single fetch.
const DefaultTimeout = 10 * time.Second

// Fetcher retrieves one page from a host and reports how long the
// round-trip took. Implementations return an error only when the request
// could not be issued at all; a response cut short while reading still
// counts as a successful fetch.
type Fetcher interface {
	Fetch(host, path string) (body []byte, elapsedMs float64, err error)
}

// Sink receives one completed site report. The scheduler serializes all
// Emit calls, so implementations do not need their own locking.
type Sink interface {
	Emit(stats SiteStats, depth int) error
}

// Config defines inputs for a crawl run.
type Config struct {
	// SeedURLs are the absolute URLs whose hostnames enter the frontier
	// at depth 0.
	SeedURLs []string

	// CrawlDelay is the pause between successive requests within one
	// site. The first request of a site is never delayed.
	CrawlDelay time.Duration

	// MaxConcurrentSites bounds the number of site workers in flight.
	MaxConcurrentSites int

	// DepthLimit is the maximum site-hop distance from any seed. Sites
	// at the limit are still crawled but do not promote their outbound
	// hosts.
	DepthLimit int

	// PageLimit caps pages visited per site; -1 means unlimited.
	PageLimit int

	// LinkedSitesLimit caps how many outbound hosts of one site are
	// promoted to the frontier.
	LinkedSitesLimit int

	// Port is the destination TCP port, DefaultPort when zero.
	Port int

	// Timeout bounds each socket operation, DefaultTimeout when zero.
	Timeout time.Duration

	// MaxRequestsPerSecond is a global ceiling across all site workers.
	// Zero disables it.
	MaxRequestsPerSecond float64

	// Filters selects which extracted links are kept. Nil means the
	// built-in defaults.
	Filters *Filters

	// Fetcher overrides the raw socket client, used by tests.
	Fetcher Fetcher

	// Sink receives completed site reports. Nil discards them.
	Sink Sink
}

// PageVisit records one successfully fetched page.
type PageVisit struct {
	URL            string
	ResponseTimeMs float64
}

// SiteStats summarizes the crawl of a single site.
type SiteStats struct {
	Hostname        string
	DiscoveredPages []PageVisit
	LinkedSites     []string
	FailedQueries   int

	// Response-time aggregates over DiscoveredPages, in milliseconds.
	// All three hold -1 when no page was fetched.
	MinResponseTime     float64
	MaxResponseTime     float64
	AverageResponseTime float64
}

// siteItem is one frontier entry: a bare hostname and its distance in
// site-hops from the nearest seed.
type siteItem struct {
	host  string
	depth int
}

// siteResult is what a worker hands back to the scheduler loop.
type siteResult struct {
	stats SiteStats
	depth int
}
