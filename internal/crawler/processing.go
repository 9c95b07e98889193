package crawler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// siteCrawler walks the pages of a single host, breadth first. All of
// its state is private to one worker goroutine.
type siteCrawler struct {
	host      string
	fetcher   Fetcher
	pageLimit int
	delay     time.Duration
	filters   *Filters
	limiter   *rate.Limiter

	pending      []string
	visitedPages map[string]struct{}
	externalSeen map[string]struct{}
}

func newSiteCrawler(host string, cfg *Config, fetcher Fetcher, limiter *rate.Limiter) *siteCrawler {
	return &siteCrawler{
		host:         host,
		fetcher:      fetcher,
		pageLimit:    cfg.PageLimit,
		delay:        cfg.CrawlDelay,
		filters:      cfg.Filters,
		limiter:      limiter,
		pending:      []string{"/"},
		visitedPages: map[string]struct{}{"/": {}},
		externalSeen: map[string]struct{}{},
	}
}

// run drains the path frontier and returns the finished site report.
// Transport errors are counted, never retried, and never escape.
func (c *siteCrawler) run() SiteStats {
	stats := SiteStats{
		Hostname:            c.host,
		MinResponseTime:     -1,
		MaxResponseTime:     -1,
		AverageResponseTime: -1,
	}

	for len(c.pending) > 0 && (c.pageLimit < 0 || len(stats.DiscoveredPages) < c.pageLimit) {
		path := c.pending[0]
		c.pending = c.pending[1:]

		// The very first request of a site goes out immediately.
		if path != "/" {
			time.Sleep(c.delay)
		}
		if c.limiter != nil {
			c.limiter.Wait(context.Background())
		}

		body, elapsed, err := c.fetcher.Fetch(c.host, path)
		if err != nil {
			logrus.Debugf("fetch %s%s failed: %v", c.host, path, err)
			stats.FailedQueries++
			continue
		}
		logrus.Debugf("fetched %s%s in %.2fms (%d bytes)", c.host, path, elapsed, len(body))
		stats.DiscoveredPages = append(stats.DiscoveredPages, PageVisit{
			URL:            c.host + path,
			ResponseTimeMs: elapsed,
		})

		for _, link := range ExtractLinks(body, c.host, c.filters) {
			if link.Host == "" || link.Host == c.host {
				if _, seen := c.visitedPages[link.Path]; !seen {
					c.visitedPages[link.Path] = struct{}{}
					c.pending = append(c.pending, link.Path)
				}
				continue
			}
			if _, seen := c.externalSeen[link.Host]; !seen {
				c.externalSeen[link.Host] = struct{}{}
				stats.LinkedSites = append(stats.LinkedSites, link.Host)
			}
		}
	}

	finalizeStats(&stats)
	return stats
}
