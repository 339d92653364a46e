package cache

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Key namespace shared by every cache entry this service writes.
const Namespace = "marketing"

// Operation-specific TTLs, chosen by how quickly the underlying data moves.
const (
	TTLRecommendations  = 30 * time.Minute
	TTLCategoryRecs     = time.Hour
	TTLTrending         = 2 * time.Hour
	TTLInterests        = time.Hour
	TTLSpendingSummary  = 30 * time.Minute
	TTLSimilarUsers     = 2 * time.Hour
	TTLProductSearch    = time.Hour
	TTLPlatformOverview = time.Hour
)

// Cache is a best-effort key-value store. Set and Get never fail hard: a
// cache outage reads as a miss, which callers already handle by recomputing.
// Deleting every entry must never change endpoint correctness, only latency.
type Cache interface {
	// Set serializes value as JSON and stores it with the given TTL.
	// Returns false (and logs) instead of erroring on any failure.
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
	// Get decodes the entry into dest and reports whether it was found.
	// A miss and an unreachable store are indistinguishable on purpose.
	Get(ctx context.Context, key string, dest any) bool
	Delete(ctx context.Context, key string) bool
	// DeletePattern removes all keys matching a glob pattern and returns
	// how many were deleted.
	DeletePattern(ctx context.Context, pattern string) int
	Available() bool
	Stats(ctx context.Context) map[string]any
}

// Key builds a deterministic cache key:
// {namespace}:{category}:{identifier}[:{k}={v}...] with extras sorted by key
// so semantically identical lookups always collide on the same entry.
func Key(category, identifier string, extras map[string]string) string {
	var b strings.Builder
	b.WriteString(Namespace)
	b.WriteByte(':')
	b.WriteString(category)
	b.WriteByte(':')
	b.WriteString(identifier)
	if len(extras) > 0 {
		keys := make([]string, 0, len(extras))
		for k := range extras {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteByte(':')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(extras[k])
		}
	}
	return b.String()
}

// UserPattern matches every entry scoped to one user across all categories.
func UserPattern(category, userID string) string {
	return Namespace + ":" + category + ":" + userID + "*"
}
