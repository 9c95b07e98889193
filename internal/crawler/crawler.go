package crawler

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Scheduler owns the site frontier, the global dedup set, and the worker
// pool. It is built once per run; Run drives the crawl to quiescence.
type Scheduler struct {
	cfg     Config
	fetcher Fetcher
	limiter *rate.Limiter

	frontier   []siteItem
	discovered map[string]struct{}
	inFlight   int
}

// New validates the configuration and seeds the frontier from the seed
// URLs. Seeds whose hostname cannot be recognized are skipped; at least
// one must survive.
func New(cfg Config) (*Scheduler, error) {
	if len(cfg.SeedURLs) == 0 {
		return nil, errors.New("at least one seed URL is required")
	}
	if cfg.MaxConcurrentSites <= 0 {
		return nil, fmt.Errorf("maxConcurrentSites must be positive, got %d", cfg.MaxConcurrentSites)
	}
	if cfg.CrawlDelay < 0 {
		return nil, errors.New("crawlDelay must not be negative")
	}
	if cfg.DepthLimit < 0 {
		return nil, errors.New("depthLimit must not be negative")
	}
	if cfg.PageLimit < -1 {
		return nil, fmt.Errorf("pageLimit must be -1 or above, got %d", cfg.PageLimit)
	}
	if cfg.LinkedSitesLimit < 0 {
		return nil, errors.New("linkedSitesLimit must not be negative")
	}
	if cfg.Filters == nil {
		cfg.Filters = DefaultFilters()
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = &Client{Port: cfg.Port, Timeout: cfg.Timeout}
	}

	s := &Scheduler{
		cfg:        cfg,
		fetcher:    fetcher,
		limiter:    newLimiter(cfg.MaxRequestsPerSecond),
		discovered: map[string]struct{}{},
	}

	for _, seed := range cfg.SeedURLs {
		host := HostnameOf(seed)
		if host == "" {
			logrus.Warnf("ignoring seed without a recognized scheme: %q", seed)
			continue
		}
		s.enqueueSite(host, 0)
	}
	if len(s.frontier) == 0 {
		return nil, errors.New("no seed URL yields a usable hostname")
	}

	return s, nil
}

// Run crawls until the frontier is empty and no worker is in flight.
// Completed site reports are handed to the sink as their workers finish,
// serialized by this loop.
func (s *Scheduler) Run() {
	logrus.Infof("starting crawl: %d seed site(s), up to %d concurrent workers",
		len(s.frontier), s.cfg.MaxConcurrentSites)

	completions := make(chan siteResult)
	for s.inFlight > 0 || len(s.frontier) > 0 {
		for s.inFlight < s.cfg.MaxConcurrentSites && len(s.frontier) > 0 {
			item := s.frontier[0]
			s.frontier = s.frontier[1:]
			s.inFlight++
			s.startWorker(item, completions)
		}

		res := <-completions
		s.finishWorker(res)
	}

	logrus.Infof("crawl finished: %d site(s) discovered", len(s.discovered))
}

// finishWorker runs inside the scheduler loop, so report delivery and
// frontier growth need no further locking.
func (s *Scheduler) finishWorker(res siteResult) {
	logrus.Infof("site %s done: %d page(s), %d failed, %d linked site(s)",
		res.stats.Hostname, len(res.stats.DiscoveredPages),
		res.stats.FailedQueries, len(res.stats.LinkedSites))

	if s.cfg.Sink != nil {
		if err := s.cfg.Sink.Emit(res.stats, res.depth); err != nil {
			logrus.Warnf("report sink failed for %s: %v", res.stats.Hostname, err)
		}
	}

	s.promoteLinkedSites(res)
	s.inFlight--
}
