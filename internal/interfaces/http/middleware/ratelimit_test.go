package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/carehouse/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	t.Run("blocks requests over the limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("10.0.0.1"), "request %d should be allowed", i+1)
		}
		assert.False(t, limiter.Allow("10.0.0.1"))
		assert.Zero(t, limiter.Remaining("10.0.0.1"))
	})

	t.Run("limits each client separately", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)

		assert.True(t, limiter.Allow("a"))
		assert.False(t, limiter.Allow("a"))
		assert.True(t, limiter.Allow("b"))
		assert.Equal(t, 1, limiter.Remaining("c"))
	})

	t.Run("resets after the window", func(t *testing.T) {
		limiter := NewRateLimiter(1, 30*time.Millisecond)

		assert.True(t, limiter.Allow("a"))
		assert.False(t, limiter.Allow("a"))
		time.Sleep(40 * time.Millisecond)
		assert.True(t, limiter.Allow("a"))
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		limiter := NewRateLimiter(50, time.Minute)
		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, allowed)
	})

	t.Run("evicts idle clients", func(t *testing.T) {
		limiter := NewRateLimiter(1, 10*time.Millisecond)
		limiter.Allow("idle")

		limiter.evictIdle(time.Now().Add(time.Second))

		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		assert.Empty(t, limiter.clients)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	limiter := NewRateLimiter(2, time.Minute)
	limiter.StartCleanup(ctx)

	router := gin.New()
	router.Use(RequestID())
	router.POST("/revenue-entries/:id/recompute-payouts", RateLimit(limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/revenue-entries/x/recompute-payouts", nil)
		req.RemoteAddr = "192.168.1.20:5000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, send().Code)

	blocked := send()
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))
	var resp dto.Response
	require.NoError(t, json.Unmarshal(blocked.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeRateLimited, resp.Error.Code)
}
