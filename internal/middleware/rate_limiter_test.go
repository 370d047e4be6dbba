package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(limit int, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(limit, window))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r *gin.Engine, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = addr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterBlocksBeyondLimit(t *testing.T) {
	r := newLimitedRouter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1000").Code)
	}
	w := hit(r, "10.0.0.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Terlalu banyak permintaan")

	// Other clients keep their own window.
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2:1000").Code)
}

func TestPurgeOnceDropsOnlyExpiredEntries(t *testing.T) {
	now := time.Now()
	apiRateMapMu.Lock()
	apiRateMap["198.51.100.7"] = &rateEntry{count: 5, windowEnd: now.Add(-time.Minute)}
	apiRateMap["198.51.100.8"] = &rateEntry{count: 1, windowEnd: now.Add(time.Minute)}
	apiRateMapMu.Unlock()

	purged, remaining := purgeOnce(now)
	assert.GreaterOrEqual(t, purged, 1)
	assert.GreaterOrEqual(t, remaining, 1)

	apiRateMapMu.Lock()
	_, expiredKept := apiRateMap["198.51.100.7"]
	_, liveKept := apiRateMap["198.51.100.8"]
	apiRateMapMu.Unlock()
	assert.False(t, expiredKept)
	assert.True(t, liveKept)
}
