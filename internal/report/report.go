// Package report delivers completed site reports to their output
// destinations. The scheduler serializes Emit calls, so sinks stay free
// of locking.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sitestat/internal/crawler"
)

// formatMs renders a millisecond value, "-" for the empty-site sentinel.
func formatMs(v float64) string {
	if v < 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ConsoleSink prints one human-readable block per completed site.
type ConsoleSink struct {
	W io.Writer
}

func (s *ConsoleSink) Emit(stats crawler.SiteStats, depth int) error {
	var b strings.Builder

	b.WriteString(strings.Repeat("-", 76) + "\n")
	fmt.Fprintf(&b, " - Website: %s\n", stats.Hostname)
	fmt.Fprintf(&b, " - Depth (distance from the starting pages): %d\n", depth)
	fmt.Fprintf(&b, " - Pages Discovered: %d\n", len(stats.DiscoveredPages))
	fmt.Fprintf(&b, " - Failed Queries: %d\n", stats.FailedQueries)
	fmt.Fprintf(&b, " - Linked Sites: %d\n", len(stats.LinkedSites))
	fmt.Fprintf(&b, " - Min. Response Time: %s\n", withUnit(stats.MinResponseTime))
	fmt.Fprintf(&b, " - Max. Response Time: %s\n", withUnit(stats.MaxResponseTime))
	fmt.Fprintf(&b, " - Avg. Response Time: %s\n", withUnit(stats.AverageResponseTime))

	if len(stats.DiscoveredPages) > 0 {
		b.WriteString("\n [*] List of visited pages:\n")
		fmt.Fprintf(&b, "    %15s    %s\n", "Response Time", "URL")
		for _, page := range stats.DiscoveredPages {
			fmt.Fprintf(&b, "    %13.2fms    %s\n", page.ResponseTimeMs, page.URL)
		}
	}

	_, err := io.WriteString(s.W, b.String())
	return err
}

func withUnit(v float64) string {
	if v < 0 {
		return "-"
	}
	return formatMs(v) + "ms"
}

// csvHeader is the fixed first row of the CSV output.
var csvHeader = []string{
	"WEBSITE",
	"DEPTH",
	"PAGES DISCOVERED",
	"FAILED QUERIES",
	"LINKED SITES",
	"MIN RESPONSE TIME (ms)",
	"MAX RESPONSE TIME (ms)",
	"AVG RESPONSE TIME (ms)",
	"DISCOVERED PAGES",
}

// CSVSink appends one row per completed site to a CSV stream.
type CSVSink struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVSink writes the header row and returns a sink over w. When w is
// also an io.Closer, Close will close it.
func NewCSVSink(w io.Writer) (*CSVSink, error) {
	s := &CSVSink{w: csv.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	if err := s.w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write CSV header: %w", err)
	}
	s.w.Flush()
	return s, s.w.Error()
}

func (s *CSVSink) Emit(stats crawler.SiteStats, depth int) error {
	pages := "None"
	if len(stats.DiscoveredPages) > 0 {
		urls := make([]string, len(stats.DiscoveredPages))
		for i, page := range stats.DiscoveredPages {
			urls[i] = page.URL
		}
		pages = strings.Join(urls, "; ")
	}

	row := []string{
		stats.Hostname,
		strconv.Itoa(depth),
		strconv.Itoa(len(stats.DiscoveredPages)),
		strconv.Itoa(stats.FailedQueries),
		strconv.Itoa(len(stats.LinkedSites)),
		formatMs(stats.MinResponseTime),
		formatMs(stats.MaxResponseTime),
		formatMs(stats.AverageResponseTime),
		pages,
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("write CSV row: %w", err)
	}
	s.w.Flush()
	return s.w.Error()
}

// Close flushes buffered rows and closes the underlying file, if any.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// MultiSink fans one report out to several sinks, keeping the first
// error while still trying the rest.
type MultiSink []crawler.Sink

func (m MultiSink) Emit(stats crawler.SiteStats, depth int) error {
	var firstErr error
	for _, sink := range m {
		if err := sink.Emit(stats, depth); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
