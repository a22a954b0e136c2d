// Package ratelimiter implements fixed-window cooldowns on top of redis.
package ratelimiter

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitError is returned when subject is still cooling down.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

type Limiter struct {
	rdb    *redis.Client
	action string
	limit  int64
	window time.Duration
}

// New allows limit calls of action per subject within window. A nil client
// allows everything.
func New(rdb *redis.Client, action string, limit int64, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, action: action, limit: limit, window: window}
}

func (l *Limiter) key(subject string) string {
	return fmt.Sprintf("rate_limit:%s:%s", l.action, subject)
}

// Allow counts one call for subject and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, subject string) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}

	key := l.key(subject)
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count <= l.limit, nil
}

// TTL is the time left until subject's window resets.
func (l *Limiter) TTL(ctx context.Context, subject string) (time.Duration, error) {
	if l == nil || l.rdb == nil {
		return 0, nil
	}
	return l.rdb.TTL(ctx, l.key(subject)).Result()
}

func (l *Limiter) Clear(ctx context.Context, subject string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, l.key(subject)).Err()
}

// PerClientIP limits requests by client IP. Redis errors let the request
// through.
func (l *Limiter) PerClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed, err := l.Allow(c.Request.Context(), ip)
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			ttl, _ := l.TTL(c.Request.Context(), ip)
			rle := &RateLimitError{
				Message:    fmt.Sprintf("too many requests. Please wait %.0f seconds", ttl.Seconds()),
				RetryAfter: ttl,
			}
			c.Header("Retry-After", strconv.Itoa(int(rle.RetryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": rle.Message})
			return
		}
		c.Next()
	}
}
