package crawler

import "github.com/sirupsen/logrus"

// startWorker spawns the goroutine that crawls one site and reports back
// on the completions channel. Workers share nothing but the fetcher and
// the global rate limiter; everything else is scoped to the goroutine.
func (s *Scheduler) startWorker(item siteItem, completions chan<- siteResult) {
	logrus.Debugf("worker starting for %s (depth %d)", item.host, item.depth)
	go func() {
		sc := newSiteCrawler(item.host, &s.cfg, s.fetcher, s.limiter)
		completions <- siteResult{stats: sc.run(), depth: item.depth}
	}()
}
