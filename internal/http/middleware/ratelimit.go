package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

type clientInfo struct {
	last  time.Time
	count int
}

// RateLimit picks the limiter for the given settings: none when
// maxRequests is 0, Redis when a client is available, in-memory otherwise.
func RateLimit(client *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	switch {
	case maxRequests <= 0:
		return func(c *gin.Context) { c.Next() }
	case client != nil:
		return RedisRateLimit(client, maxRequests, window)
	default:
		return SimpleRateLimit(maxRequests, window)
	}
}

// SimpleRateLimit blocks clients that send more than maxRequests per window.
// State is per process.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	l := newMemoryLimiter(maxRequests, window)

	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// memoryLimiter is a fixed-window counter per client. Entries whose window
// has passed are swept at most once per window.
type memoryLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientInfo
	max       int
	window    time.Duration
	lastSweep time.Time
}

func newMemoryLimiter(maxRequests int, window time.Duration) *memoryLimiter {
	return &memoryLimiter{
		clients: make(map[string]*clientInfo),
		max:     maxRequests,
		window:  window,
	}
}

// allow records a request from ip at now and reports whether it fits the budget.
func (l *memoryLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.window {
		for k, ci := range l.clients {
			if now.Sub(ci.last) > l.window {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	ci, ok := l.clients[ip]
	if !ok || now.Sub(ci.last) > l.window {
		l.clients[ip] = &clientInfo{last: now, count: 1}
		return true
	}
	ci.count++
	return ci.count <= l.max
}
