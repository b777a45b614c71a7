package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"todolist/internal/adapter/http/helper"
	"todolist/internal/config"
	"todolist/internal/core/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const defaultRateLimitKey = "default"

// RateLimiter is a fixed-window limiter keyed by route and client IP.
type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]config.RateLimitConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.Mutex
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(configs map[string]config.RateLimitConfig, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	limits := make(map[string]config.RateLimitConfig, len(configs)+1)
	for key, value := range configs {
		limits[key] = value
	}

	if _, ok := limits[defaultRateLimitKey]; !ok {
		limits[defaultRateLimitKey] = config.RateLimitConfig{Requests: 60, Window: time.Minute}
	}

	return &RateLimiter{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		config:  limits,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		methodRoute := c.Request.Method + " " + route
		limit := rl.lookup(methodRoute, route)
		key := fmt.Sprintf("rate_limit:%s:%s", methodRoute, c.ClientIP())

		allowed, remaining, resetTime := rl.check(key, limit, time.Now())

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), route)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.Int("limit", limit.Requests),
				zap.Duration("window", limit.Window))

			retryAfter := int(time.Until(resetTime).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			helper.SendError(c, http.StatusTooManyRequests,
				fmt.Sprintf("Too many requests. Limit: %d per %v", limit.Requests, limit.Window))
			c.Abort()
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), route)
		}

		c.Next()
	}
}

func (rl *RateLimiter) lookup(methodRoute, route string) config.RateLimitConfig {
	if limit, ok := rl.config[methodRoute]; ok {
		return limit
	}

	if limit, ok := rl.config[route]; ok {
		return limit
	}

	return rl.config[defaultRateLimitKey]
}

func (rl *RateLimiter) check(key string, limit config.RateLimitConfig, now time.Time) (bool, int, time.Time) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if cached, found := rl.cache.Get(key); found {
		entry := cached.(rateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= limit.Requests {
				return false, 0, entry.ResetTime
			}

			entry.Count++
			rl.cache.Set(key, entry, time.Until(entry.ResetTime))

			return true, limit.Requests - entry.Count, entry.ResetTime
		}
	}

	resetTime := now.Add(limit.Window)
	rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, limit.Window)

	return true, limit.Requests - 1, resetTime
}
