package crawler

// finalizeStats fills in the response-time aggregates. With no fetched
// pages the three fields keep their -1 sentinel.
func finalizeStats(stats *SiteStats) {
	if len(stats.DiscoveredPages) == 0 {
		return
	}

	min := stats.DiscoveredPages[0].ResponseTimeMs
	max := min
	total := 0.0
	for _, page := range stats.DiscoveredPages {
		if page.ResponseTimeMs < min {
			min = page.ResponseTimeMs
		}
		if page.ResponseTimeMs > max {
			max = page.ResponseTimeMs
		}
		total += page.ResponseTimeMs
	}

	stats.MinResponseTime = min
	stats.MaxResponseTime = max
	stats.AverageResponseTime = total / float64(len(stats.DiscoveredPages))
}
