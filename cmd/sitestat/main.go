package main

import (
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"sitestat/internal/config"
	"sitestat/internal/crawler"
	"sitestat/internal/report"
)

var cli struct {
	ConfigFile string `name:"configFile" aliases:"cfg" help:"Key-value config file to load." type:"existingfile" optional:""`

	MaxThreads       *int `name:"maxThreads" help:"Maximum concurrent site workers."`
	CrawlDepth       *int `name:"crawlDepth" help:"Maximum site-hop depth from the seeds."`
	PageLimit        *int `name:"pageLimit" help:"Pages per site, -1 for unlimited."`
	LinkedSitesLimit *int `name:"linkedSitesLimit" help:"Outbound hosts promoted per site."`
	CrawlDelay       *int `name:"crawlDelay" help:"Delay between requests within one site, in ms."`
	Port             *int `name:"port" help:"Destination TCP port."`

	CSV     string `name:"csv" help:"Write site reports to this CSV file." optional:""`
	SQLite  string `name:"sqlite" help:"Persist site reports to this SQLite database." optional:""`
	Filters string `name:"filters" help:"YAML file with link filter lists." type:"existingfile" optional:""`
	Verbose bool   `name:"verbose" short:"v" help:"Enable debug logging."`

	Seeds []string `arg:"" name:"url" help:"Seed URLs, appended to the config file's." optional:""`
}

func main() {
	kong.Parse(&cli,
		kong.Name("sitestat"),
		kong.Description("Breadth-first site crawler measuring per-page response times."))

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cli.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	opts, err := loadOptions()
	if err != nil {
		logrus.Errorf("configuration: %v", err)
		os.Exit(1)
	}

	filters, err := loadFilters()
	if err != nil {
		logrus.Errorf("configuration: %v", err)
		os.Exit(1)
	}

	sink, closers, err := buildSink()
	if err != nil {
		logrus.Errorf("configuration: %v", err)
		os.Exit(1)
	}
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logrus.Warnf("closing report sink: %v", err)
			}
		}
	}()

	sched, err := crawler.New(crawler.Config{
		SeedURLs:             opts.SeedURLs,
		CrawlDelay:           time.Duration(opts.CrawlDelayMs) * time.Millisecond,
		MaxConcurrentSites:   opts.MaxThreads,
		DepthLimit:           opts.DepthLimit,
		PageLimit:            opts.PageLimit,
		LinkedSitesLimit:     opts.LinkedSitesLimit,
		Port:                 opts.Port,
		Timeout:              time.Duration(opts.RequestTimeoutSec) * time.Second,
		MaxRequestsPerSecond: opts.MaxRequestsPerSecond,
		Filters:              filters,
		Sink:                 sink,
	})
	if err != nil {
		logrus.Errorf("configuration: %v", err)
		os.Exit(1)
	}

	sched.Run()
}

// loadOptions layers the command line over the config file over the
// defaults. Flags only override when actually present.
func loadOptions() (config.Options, error) {
	opts := config.Defaults()
	if cli.ConfigFile != "" {
		var err error
		opts, err = config.LoadFile(cli.ConfigFile)
		if err != nil {
			return opts, err
		}
	}

	if cli.MaxThreads != nil {
		opts.MaxThreads = *cli.MaxThreads
	}
	if cli.CrawlDepth != nil {
		opts.DepthLimit = *cli.CrawlDepth
	}
	if cli.PageLimit != nil {
		opts.PageLimit = *cli.PageLimit
	}
	if cli.LinkedSitesLimit != nil {
		opts.LinkedSitesLimit = *cli.LinkedSitesLimit
	}
	if cli.CrawlDelay != nil {
		opts.CrawlDelayMs = *cli.CrawlDelay
	}
	if cli.Port != nil {
		opts.Port = *cli.Port
	}
	opts.SeedURLs = append(opts.SeedURLs, cli.Seeds...)

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func loadFilters() (*crawler.Filters, error) {
	if cli.Filters == "" {
		return crawler.DefaultFilters(), nil
	}
	return crawler.LoadFilters(cli.Filters)
}

// buildSink assembles the console sink plus any file-backed sinks the
// flags ask for.
func buildSink() (crawler.Sink, []io.Closer, error) {
	sinks := report.MultiSink{&report.ConsoleSink{W: os.Stdout}}
	var closers []io.Closer

	if cli.CSV != "" {
		f, err := os.Create(cli.CSV)
		if err != nil {
			return nil, nil, err
		}
		csvSink, err := report.NewCSVSink(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		sinks = append(sinks, csvSink)
		closers = append(closers, csvSink)
	}

	if cli.SQLite != "" {
		dbSink, err := report.NewSQLiteSink(cli.SQLite)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, dbSink)
		closers = append(closers, dbSink)
	}

	return sinks, closers, nil
}
