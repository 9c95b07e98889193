package report

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"sitestat/internal/crawler"
)

const createReportsTable = `
CREATE TABLE IF NOT EXISTS site_reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hostname TEXT NOT NULL,
	depth INTEGER NOT NULL,
	pages_discovered INTEGER NOT NULL,
	failed_queries INTEGER NOT NULL,
	linked_sites TEXT NOT NULL,
	min_response_ms REAL NOT NULL,
	max_response_ms REAL NOT NULL,
	avg_response_ms REAL NOT NULL,
	discovered_pages TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteSink persists one row per completed site, so a finished run can
// be queried or diffed later without re-crawling.
type SQLiteSink struct {
	db     *sql.DB
	insert *sql.Stmt
}

// NewSQLiteSink opens (or creates) the database file and prepares the
// reports table.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(createReportsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create reports table: %w", err)
	}
	insert, err := db.Prepare(`INSERT INTO site_reports
		(hostname, depth, pages_discovered, failed_queries, linked_sites,
		 min_response_ms, max_response_ms, avg_response_ms, discovered_pages)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	return &SQLiteSink{db: db, insert: insert}, nil
}

func (s *SQLiteSink) Emit(stats crawler.SiteStats, depth int) error {
	urls := make([]string, len(stats.DiscoveredPages))
	for i, page := range stats.DiscoveredPages {
		urls[i] = page.URL
	}

	_, err := s.insert.Exec(
		stats.Hostname,
		depth,
		len(stats.DiscoveredPages),
		stats.FailedQueries,
		strings.Join(stats.LinkedSites, "; "),
		stats.MinResponseTime,
		stats.MaxResponseTime,
		stats.AverageResponseTime,
		strings.Join(urls, "; "),
	)
	if err != nil {
		return fmt.Errorf("insert report for %s: %w", stats.Hostname, err)
	}
	return nil
}

// Close releases the prepared statement and the database handle.
func (s *SQLiteSink) Close() error {
	if err := s.insert.Close(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}
