package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/V4T54L/integrator/internal/adapter/metrics"
)

// idleLimiterTTL is how long a client's limiter survives without traffic.
const idleLimiterTTL = 15 * time.Minute

// RateLimit is a middleware factory that applies a per-client token bucket.
// A perMinute of zero or less disables limiting.
func RateLimit(perMinute, burst int, m *metrics.IntegratorMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if perMinute <= 0 {
			return next
		}
		store := newLimiterStore(perMinute, burst)
		retryAfter := strconv.Itoa(max(1, 60/perMinute))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.allow(clientKey(r), time.Now()) {
				if m != nil {
					m.RateLimitedTotal.Inc()
				}
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterStore struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

func newLimiterStore(perMinute, burst int) *limiterStore {
	if burst <= 0 {
		burst = 1
	}
	return &limiterStore{
		limiters:  make(map[string]*limiterEntry),
		limit:     rate.Limit(float64(perMinute) / 60.0),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (s *limiterStore) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Sweep idle clients at most once per TTL.
	if now.Sub(s.lastSweep) > idleLimiterTTL {
		for k, e := range s.limiters {
			if now.Sub(e.lastSeen) > idleLimiterTTL {
				delete(s.limiters, k)
			}
		}
		s.lastSweep = now
	}

	entry, ok := s.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
