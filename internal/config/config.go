// Package config loads the crawler's run parameters from a plain
// key-value file and validates them. Command-line overrides are layered
// on top by the caller.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options holds all runtime parameters of a crawl run.
type Options struct {
	// CrawlDelayMs is the pause between requests within one site.
	CrawlDelayMs int
	// MaxThreads bounds the number of concurrent site workers.
	MaxThreads int
	// DepthLimit is the maximum site-hop distance from any seed.
	DepthLimit int
	// PageLimit caps pages per site; -1 means unlimited.
	PageLimit int
	// LinkedSitesLimit caps outbound hosts promoted per site.
	LinkedSitesLimit int
	// Port is the destination TCP port.
	Port int
	// RequestTimeoutSec bounds each socket operation of a fetch.
	RequestTimeoutSec int
	// MaxRequestsPerSecond is a global ceiling across all workers,
	// zero for none.
	MaxRequestsPerSecond float64
	// SeedURLs are the starting absolute URLs, in order.
	SeedURLs []string
}

// Defaults returns the options used when neither the config file nor the
// command line says otherwise.
func Defaults() Options {
	return Options{
		CrawlDelayMs:      1000,
		MaxThreads:        10,
		DepthLimit:        10,
		PageLimit:         10,
		LinkedSitesLimit:  10,
		Port:              80,
		RequestTimeoutSec: 10,
	}
}

// LoadFile reads a whitespace-separated "<name> <value>" file on top of
// the defaults. Keys may appear in any order; "startUrls <N>" is
// followed by N URL tokens. Unrecognized keys are skipped with their
// value.
func LoadFile(path string) (Options, error) {
	opts := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read config file: %w", err)
	}

	tokens := strings.Fields(string(data))
	for i := 0; i < len(tokens); {
		key := tokens[i]
		i++
		if i >= len(tokens) {
			return opts, fmt.Errorf("config key %q has no value", key)
		}

		value := tokens[i]
		i++
		switch key {
		case "crawlDelay":
			opts.CrawlDelayMs, err = parseInt(key, value)
		case "maxThreads":
			opts.MaxThreads, err = parseInt(key, value)
		case "depthLimit":
			opts.DepthLimit, err = parseInt(key, value)
		case "pageLimit":
			opts.PageLimit, err = parseInt(key, value)
		case "linkedSitesLimit":
			opts.LinkedSitesLimit, err = parseInt(key, value)
		case "port":
			opts.Port, err = parseInt(key, value)
		case "requestTimeout":
			opts.RequestTimeoutSec, err = parseInt(key, value)
		case "maxRequestsPerSecond":
			opts.MaxRequestsPerSecond, err = parseFloat(key, value)
		case "startUrls":
			var count int
			count, err = parseInt(key, value)
			if err != nil {
				break
			}
			if count < 0 || i+count > len(tokens) {
				return opts, fmt.Errorf("startUrls announces %d URLs, file has fewer", count)
			}
			opts.SeedURLs = append(opts.SeedURLs, tokens[i:i+count]...)
			i += count
		default:
			logrus.Warnf("skipping unrecognized config key %q", key)
		}
		if err != nil {
			return opts, err
		}
	}

	return opts, nil
}

// Validate rejects option combinations the crawler cannot run with.
func (o *Options) Validate() error {
	if o.CrawlDelayMs < 0 {
		return fmt.Errorf("crawlDelay must not be negative, got %d", o.CrawlDelayMs)
	}
	if o.MaxThreads < 1 {
		return fmt.Errorf("maxThreads must be at least 1, got %d", o.MaxThreads)
	}
	if o.DepthLimit < 0 {
		return fmt.Errorf("depthLimit must not be negative, got %d", o.DepthLimit)
	}
	if o.PageLimit < -1 {
		return fmt.Errorf("pageLimit must be -1 (unlimited) or above, got %d", o.PageLimit)
	}
	if o.LinkedSitesLimit < 0 {
		return fmt.Errorf("linkedSitesLimit must not be negative, got %d", o.LinkedSitesLimit)
	}
	if o.Port < 1 || o.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", o.Port)
	}
	if o.RequestTimeoutSec < 1 {
		return fmt.Errorf("requestTimeout must be at least 1 second, got %d", o.RequestTimeoutSec)
	}
	if len(o.SeedURLs) == 0 {
		return fmt.Errorf("no seed URLs supplied")
	}
	return nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config key %q: invalid integer %q", key, value)
	}
	return n, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("config key %q: invalid number %q", key, value)
	}
	return f, nil
}
