package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"SimpleMOOC/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	ttls   map[string]time.Duration
	err    error
}

func newMemCounter() *memCounter {
	return &memCounter{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (m *memCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return redis.NewIntResult(0, m.err)
	}
	m.counts[key]++
	return redis.NewIntResult(m.counts[key], nil)
}

func (m *memCounter) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *memCounter) TTL(_ context.Context, key string) *redis.DurationCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	return redis.NewDurationResult(m.ttls[key], nil)
}

func limitedRouter(rl *RateLimiter, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/contact", rl.Limit("contact", limit, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func post(r http.Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	counter := newMemCounter()
	r := limitedRouter(NewRateLimiter(logger.Discard(), counter), 2)

	assert.Equal(t, http.StatusOK, post(r).Code)
	assert.Equal(t, http.StatusOK, post(r).Code)

	w := post(r)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, time.Minute, counter.ttls["rate_limit:contact:10.0.0.1"])
}

func TestRateLimiterPassesWithoutRedis(t *testing.T) {
	r := limitedRouter(NewRateLimiter(logger.Discard(), nil), 1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(r).Code)
	}
}

func TestRateLimiterPassesWhenRedisFails(t *testing.T) {
	counter := newMemCounter()
	counter.err = errors.New("connection refused")
	r := limitedRouter(NewRateLimiter(logger.Discard(), counter), 1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(r).Code)
	}
}
