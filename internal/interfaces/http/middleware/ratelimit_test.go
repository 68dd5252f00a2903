package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketLimiterBurstThenRefill(t *testing.T) {
	limiter := NewTokenBucketLimiter(100, 2, 0)

	allowed, info := limiter.Allow("client")
	require.True(t, allowed)
	assert.Equal(t, 2, info.Limit)
	assert.Equal(t, 1, info.Remaining)

	allowed, _ = limiter.Allow("client")
	require.True(t, allowed)

	allowed, info = limiter.Allow("client")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)

	// 100 tokens/s refills within tens of milliseconds.
	require.Eventually(t, func() bool {
		ok, _ := limiter.Allow("client")
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestTokenBucketLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewTokenBucketLimiter(0.001, 1, 0)

	allowed, _ := limiter.Allow("a")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("a")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("b")
	assert.True(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewTokenBucketLimiter(0.001, 1, 0)

	r := gin.New()
	r.Use(RateLimit(limiter, "/health"))
	r.GET("/api/stats", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "198.51.100.4:1000"
		r.ServeHTTP(rec, req)
		return rec
	}

	first := hit("/api/stats")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := hit("/api/stats")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "too many requests")

	// Skip paths bypass the limiter entirely.
	assert.Equal(t, http.StatusOK, hit("/health").Code)
	assert.Equal(t, http.StatusOK, hit("/health").Code)
}

//Personal.AI order the ending
