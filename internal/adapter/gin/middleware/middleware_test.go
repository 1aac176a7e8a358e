package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestLimiter(t *testing.T, client redis.Scripter, cfg RateLimiterConfig) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(client, cfg, zaptest.NewLogger(t))
	rl.now = clock.now
	return rl, clock
}

func TestRateLimiter_Allow(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl, clock := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 1, Burst: 3})
	ctx := context.Background()

	for i := range 3 {
		ok, err := rl.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d within burst", i)
	}

	ok, err := rl.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "burst exhausted")

	// Other clients have their own bucket.
	ok, err = rl.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)

	clock.advance(time.Second)
	ok, err = rl.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "one token refilled")

	ok, err = rl.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRateLimiter_RefillCapsAtBurst(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl, clock := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 10, Burst: 2})
	ctx := context.Background()

	_, err := rl.Allow(ctx, "ip")
	require.NoError(t, err)
	clock.advance(time.Minute)

	allowed := 0
	for range 5 {
		ok, err := rl.Allow(ctx, "ip")
		require.NoError(t, err)
		if ok {
			allowed++
		}
	}
	assert.Equal(t, 2, allowed)
}

func TestRateLimiter_SetsExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	rl, _ := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 2, Burst: 10})

	_, err := rl.Allow(context.Background(), "ip")
	require.NoError(t, err)
	assert.Equal(t, 6*time.Second, mr.TTL("ratelimit:tb:ip"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client, _ := setupTestRedis(t)
	rl, _ := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 1, Burst: 1})

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/v1/books", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/books", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/books", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimiter_FailOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client, mr := setupTestRedis(t)
	rl, _ := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 1, Burst: 1})
	mr.Close()

	ok, err := rl.Allow(context.Background(), "ip")
	require.Error(t, err)
	assert.True(t, ok)

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiter_NilPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var rl *RateLimiter

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Recovery(zaptest.NewLogger(t)))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}
