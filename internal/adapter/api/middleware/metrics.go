package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/V4T54L/integrator/internal/adapter/metrics"
)

// Metrics records request latency by matched route pattern and status code.
// It must wrap the ServeMux so the pattern is set once the mux returns.
func Metrics(m *metrics.IntegratorMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := wrap(w)
			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.RequestDuration.
				WithLabelValues(route, strconv.Itoa(rw.statusCode)).
				Observe(time.Since(start).Seconds())
		})
	}
}
