package crawler

import "golang.org/x/time/rate"

// newLimiter builds the optional global request-rate ceiling shared by
// all site workers. A non-positive rate disables it.
func newLimiter(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
}
