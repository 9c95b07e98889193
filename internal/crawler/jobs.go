package crawler

// enqueueSite places a hostname on the frontier unless it has ever been
// enqueued before. The depth recorded at first insertion sticks.
func (s *Scheduler) enqueueSite(host string, depth int) bool {
	if _, seen := s.discovered[host]; seen {
		return false
	}
	s.discovered[host] = struct{}{}
	s.frontier = append(s.frontier, siteItem{host: host, depth: depth})
	return true
}

// promoteLinkedSites feeds a finished site's outbound hosts back into
// the frontier at depth+1. Sites already at the depth limit promote
// nothing, and only the first LinkedSitesLimit entries are considered.
func (s *Scheduler) promoteLinkedSites(res siteResult) {
	if res.depth >= s.cfg.DepthLimit {
		return
	}
	limit := s.cfg.LinkedSitesLimit
	if limit > len(res.stats.LinkedSites) {
		limit = len(res.stats.LinkedSites)
	}
	for _, host := range res.stats.LinkedSites[:limit] {
		s.enqueueSite(host, res.depth+1)
	}
}
