package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for Antesala
// Pattern: antesala:{module}:{operation}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // 10 minutes - for analytics
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // 5 minutes - for calendar views
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "antesala"
)

// ================== RESERVATIONS MODULE ==================

// DEFAULT_LOCAL_RESERVATIONS_KEY holds the whole reservation list in the local store.
// It has no TTL and no prefix so older clients keep reading the same key.
const DEFAULT_LOCAL_RESERVATIONS_KEY = "antesalaReservations"

// ================== ANALYTICS MODULE ==================

// Analytics Cache Keys
const (
	CACHE_KEY_ANALYTICS_DASHBOARD = CACHE_PREFIX + ":analytics:dashboard:day:" // + YYYY-MM-DD
	CACHE_KEY_ANALYTICS_ROOMS     = CACHE_PREFIX + ":analytics:rooms"
	CACHE_KEY_ANALYTICS_GUESTS    = CACHE_PREFIX + ":analytics:guests"
	CACHE_KEY_ANALYTICS_CALENDAR  = CACHE_PREFIX + ":analytics:calendar:" // + YYYY:MM
)

// Analytics Cache TTLs
const (
	TTL_ANALYTICS_DASHBOARD = TTL_DYNAMIC_MEDIUM // 10 minutes
	TTL_ANALYTICS_STATS     = TTL_DYNAMIC_MEDIUM // 10 minutes
	TTL_ANALYTICS_CALENDAR  = TTL_DYNAMIC_SHORT  // 5 minutes
)

// ================== RATE LIMIT MODULE ==================

const (
	CACHE_KEY_RATE_LIMIT = CACHE_PREFIX + ":ratelimit"
)

// ================== CACHE INVALIDATION PATTERNS ==================

// Patterns for cache invalidation, matched with SCAN
const (
	// Every reservation change invalidates all statistics
	PATTERN_INVALIDATE_ANALYTICS = CACHE_PREFIX + ":analytics:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildDashboardKey -> "antesala:analytics:dashboard:day:2026-10-14"
func BuildDashboardKey(day string) string {
	return CACHE_KEY_ANALYTICS_DASHBOARD + day
}

// BuildCalendarKey -> "antesala:analytics:calendar:2026:10"
func BuildCalendarKey(year, month int) string {
	return CACHE_KEY_ANALYTICS_CALENDAR + fmt.Sprintf("%04d:%02d", year, month)
}
