package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/V4T54L/integrator/internal/adapter/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	rr := httptest.NewRecorder()
	Logging(logger)(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/integrate", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, buf.String(), `"status":201`)
	assert.Contains(t, buf.String(), `"path":"/integrate"`)
}

func TestMetrics(t *testing.T) {
	m := metrics.NewIntegratorMetrics(prometheus.NewRegistry())
	h := Metrics(m)(okHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/integrate", nil))

	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestRateLimit(t *testing.T) {
	m := metrics.NewIntegratorMetrics(prometheus.NewRegistry())
	h := RateLimit(60, 2, m)(okHandler())

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/register", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusCreated, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusCreated, send("10.0.0.1:1235"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1236"), "burst of 2 is exhausted")
	assert.Equal(t, http.StatusCreated, send("10.0.0.2:1234"), "other clients have their own bucket")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitedTotal))
}

func TestRateLimit_Disabled(t *testing.T) {
	h := RateLimit(0, 1, nil)(okHandler())
	for i := 0; i < 10; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/register", nil))
		assert.Equal(t, http.StatusCreated, rr.Code)
	}
}

func TestLimiterStore_SweepsIdleClients(t *testing.T) {
	s := newLimiterStore(60, 1)
	start := time.Now()

	s.allow("a", start)
	s.allow("b", start.Add(idleLimiterTTL+time.Minute))
	s.allow("b", start.Add(2*idleLimiterTTL+time.Minute))

	s.mu.Lock()
	defer s.mu.Unlock()
	_, hasA := s.limiters["a"]
	assert.False(t, hasA)
	assert.Contains(t, s.limiters, "b")
}
