package crawler

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"
)

type fakePage struct {
	body string
	err  error
}

type fetchCall struct {
	host, path string
	start, end time.Time
}

// fakeFetcher serves scripted pages keyed by "host/path". Unknown pages
// behave like hosts that refuse the connection. It records call timing
// and the high-water mark of concurrent fetches.
type fakeFetcher struct {
	pages   map[string]fakePage
	latency time.Duration

	mu        sync.Mutex
	calls     []fetchCall
	active    int
	maxActive int
}

func (f *fakeFetcher) Fetch(host, path string) ([]byte, float64, error) {
	f.mu.Lock()
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	f.mu.Unlock()

	start := time.Now()
	if f.latency > 0 {
		time.Sleep(f.latency)
	}
	end := time.Now()

	f.mu.Lock()
	f.active--
	f.calls = append(f.calls, fetchCall{host: host, path: path, start: start, end: end})
	f.mu.Unlock()

	page, ok := f.pages[host+path]
	if !ok {
		return nil, 0, fmt.Errorf("connection refused: %s%s", host, path)
	}
	if page.err != nil {
		return nil, 0, page.err
	}
	return []byte(page.body), float64(end.Sub(start)) / float64(time.Millisecond), nil
}

func (f *fakeFetcher) recordedCalls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.calls...)
}

func crawlOne(host string, fetcher Fetcher, pageLimit int, delay time.Duration) SiteStats {
	cfg := Config{PageLimit: pageLimit, CrawlDelay: delay}
	return newSiteCrawler(host, &cfg, fetcher, nil).run()
}

func pageURLs(stats SiteStats) []string {
	urls := make([]string, len(stats.DiscoveredPages))
	for i, p := range stats.DiscoveredPages {
		urls[i] = p.URL
	}
	return urls
}

func TestCrawlSiteVisitsPagesBreadthFirst(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"a.com/":  {body: `<html><a href="/x">x</a></html>`},
		"a.com/x": {body: `<html>done</html>`},
	}}

	stats := crawlOne("a.com", fetcher, 100, 0)

	if got, want := pageURLs(stats), []string{"a.com/", "a.com/x"}; !reflect.DeepEqual(got, want) {
		t.Errorf("pages = %v, want %v", got, want)
	}
	if len(stats.LinkedSites) != 0 {
		t.Errorf("linked sites = %v, want none", stats.LinkedSites)
	}
	if stats.FailedQueries != 0 {
		t.Errorf("failed queries = %d, want 0", stats.FailedQueries)
	}
	if stats.MinResponseTime > stats.AverageResponseTime ||
		stats.AverageResponseTime > stats.MaxResponseTime {
		t.Errorf("inconsistent aggregates: min=%f avg=%f max=%f",
			stats.MinResponseTime, stats.AverageResponseTime, stats.MaxResponseTime)
	}
}

func TestCrawlSitePageLimit(t *testing.T) {
	var links string
	for i := 0; i < 10; i++ {
		links += fmt.Sprintf(`<a href="/p%d">%d</a>`, i, i)
	}
	pages := map[string]fakePage{"a.com/": {body: links}}
	for i := 0; i < 10; i++ {
		pages[fmt.Sprintf("a.com/p%d", i)] = fakePage{body: links}
	}

	stats := crawlOne("a.com", &fakeFetcher{pages: pages}, 5, 0)

	if len(stats.DiscoveredPages) != 5 {
		t.Errorf("discovered %d pages, want 5", len(stats.DiscoveredPages))
	}
}

func TestCrawlSiteZeroPageLimit(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{"a.com/": {body: "x"}}}
	stats := crawlOne("a.com", fetcher, 0, 0)
	if len(stats.DiscoveredPages) != 0 {
		t.Errorf("discovered %d pages, want 0", len(stats.DiscoveredPages))
	}
	if len(fetcher.recordedCalls()) != 0 {
		t.Error("expected no fetches with a zero page limit")
	}
}

func TestCrawlSiteUnlimitedPages(t *testing.T) {
	pages := map[string]fakePage{"a.com/": {body: `<a href="/b">b</a>`}}
	for _, p := range []string{"b", "c", "d"} {
		pages["a.com/"+p] = fakePage{body: fmt.Sprintf(`<a href="/%c">n</a>`, p[0]+1)}
	}
	stats := crawlOne("a.com", &fakeFetcher{pages: pages}, -1, 0)
	if got := len(stats.DiscoveredPages); got != 4 {
		t.Errorf("discovered %d pages, want 4", got)
	}
}

func TestCrawlSiteCountsFailures(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"a.com/": {body: `<html><a href="/x">x</a></html>`},
	}}

	stats := crawlOne("a.com", fetcher, 100, 0)

	if got, want := pageURLs(stats), []string{"a.com/"}; !reflect.DeepEqual(got, want) {
		t.Errorf("pages = %v, want %v", got, want)
	}
	if stats.FailedQueries != 1 {
		t.Errorf("failed queries = %d, want 1", stats.FailedQueries)
	}
	if stats.MinResponseTime != stats.MaxResponseTime {
		t.Errorf("aggregates should reflect the single success: min=%f max=%f",
			stats.MinResponseTime, stats.MaxResponseTime)
	}
}

func TestCrawlSiteAllFailedKeepsSentinels(t *testing.T) {
	stats := crawlOne("a.com", &fakeFetcher{pages: map[string]fakePage{}}, 100, 0)

	if len(stats.DiscoveredPages) != 0 || stats.FailedQueries != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	for _, v := range []float64{stats.MinResponseTime, stats.MaxResponseTime, stats.AverageResponseTime} {
		if v != -1 {
			t.Errorf("aggregate = %f, want -1", v)
		}
	}
}

func TestCrawlSiteLinkedSitesFirstSeenOrder(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"a.com/": {body: `<a href="http://b.com/">b</a><a href="http://c.com/">c</a><a href="http://b.com/">b again</a>`},
	}}

	stats := crawlOne("a.com", fetcher, 100, 0)

	if want := []string{"b.com", "c.com"}; !reflect.DeepEqual(stats.LinkedSites, want) {
		t.Errorf("linked sites = %v, want %v", stats.LinkedSites, want)
	}
}

// Between two requests of one site, at least the crawl delay must pass
// after the previous request finished.
func TestCrawlSiteDelayBetweenRequests(t *testing.T) {
	const delay = 30 * time.Millisecond
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"a.com/":  {body: `<a href="/a">a</a>`},
		"a.com/a": {body: `<a href="/b">b</a>`},
		"a.com/b": {body: `end`},
	}}

	crawlOne("a.com", fetcher, 100, delay)

	calls := fetcher.recordedCalls()
	if len(calls) != 3 {
		t.Fatalf("recorded %d calls, want 3", len(calls))
	}
	for i := 1; i < len(calls); i++ {
		if gap := calls[i].start.Sub(calls[i-1].end); gap < delay {
			t.Errorf("gap before request %d = %v, want at least %v", i, gap, delay)
		}
	}
}
