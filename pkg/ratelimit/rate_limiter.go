package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"antesala/internal/shared/constants"
)

type RateLimitType string

const (
	RateLimitTypeDefault   RateLimitType = "default"
	RateLimitTypeWrite     RateLimitType = "write"
	RateLimitTypeQuote     RateLimitType = "quote"
	RateLimitTypeAnalytics RateLimitType = "analytics"
	RateLimitTypeHealth    RateLimitType = "health"
)

// Config holds per-type request budgets for one window
type Config struct {
	Enabled           bool          `json:"enabled"`
	WindowDuration    time.Duration `json:"window_duration"`
	DefaultRequests   int           `json:"default_requests"`
	WriteRequests     int           `json:"write_requests"`
	QuoteRequests     int           `json:"quote_requests"`
	AnalyticsRequests int           `json:"analytics_requests"`
	// Zero means health checks are never limited
	HealthRequests int      `json:"health_requests"`
	WhitelistedIPs []string `json:"whitelisted_ips"`
}

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// slidingWindow keeps one sorted-set member per request scored by its arrival in ms
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current_count = redis.call('ZCARD', key)

	if current_count >= limit then
		redis.call('PEXPIRE', key, window_ms)
		return {current_count + 1, 0}
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window_ms)

	return {current_count + 1, limit - current_count - 1}
`)

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client    redis.Scripter
	config    *Config
	whitelist map[string]struct{}
	now       func() time.Time
}

func NewRateLimiter(client redis.Scripter, config *Config) *RateLimiter {
	whitelist := make(map[string]struct{}, len(config.WhitelistedIPs))
	for _, ip := range config.WhitelistedIPs {
		whitelist[ip] = struct{}{}
	}
	return &RateLimiter{
		client:    client,
		config:    config,
		whitelist: whitelist,
		now:       time.Now,
	}
}

// IsAllowed records one request from clientIP and reports whether it fits the budget
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.getLimit(limitType)
	if !r.config.Enabled || limit <= 0 || r.isWhitelisted(clientIP) {
		return &Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: r.now().Add(r.config.WindowDuration).Unix(),
		}, nil
	}

	key := fmt.Sprintf("%s:%s:%s", constants.CACHE_KEY_RATE_LIMIT, clientIP, limitType)
	return r.checkLimit(ctx, key, limit)
}

// checkLimit performs the sliding window check atomically in Redis
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int) (*Result, error) {
	now := r.now()
	windowStart := now.Add(-r.config.WindowDuration)
	member := strconv.FormatInt(now.UnixNano(), 10)

	result, err := slidingWindow.Run(ctx, r.client, []string{key},
		windowStart.UnixMilli(),
		now.UnixMilli(),
		limit,
		r.config.WindowDuration.Milliseconds(),
		member,
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected redis response")
	}

	return &Result{
		Allowed:   int(result[0]) <= limit,
		Limit:     limit,
		Remaining: int(result[1]),
		ResetTime: now.Add(r.config.WindowDuration).Unix(),
	}, nil
}

func (r *RateLimiter) getLimit(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypeWrite:
		return r.config.WriteRequests
	case RateLimitTypeQuote:
		return r.config.QuoteRequests
	case RateLimitTypeAnalytics:
		return r.config.AnalyticsRequests
	case RateLimitTypeHealth:
		return r.config.HealthRequests
	default:
		return r.config.DefaultRequests
	}
}

func (r *RateLimiter) isWhitelisted(ip string) bool {
	_, ok := r.whitelist[ip]
	return ok
}
