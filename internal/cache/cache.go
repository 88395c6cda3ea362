// Package cache keeps completed run results in memory so a re-run over the
// same export and report date is served without recomputation.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/gyeh/claimstats/internal/model"
)

const lastKey = "last"

// DefaultTTL bounds how long a result is reused.
const DefaultTTL = 30 * time.Minute

// Results caches RunResults keyed by export hash and report date.
type Results struct {
	cache *gocache.Cache
}

// New creates a result cache. A zero ttl never expires entries.
func New(ttl time.Duration) *Results {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Results{cache: gocache.New(ttl, 2*ttl)}
}

// Key builds the cache key for an export hash and report date.
func Key(fileSHA256 string, reportDate time.Time) string {
	return fileSHA256 + "@" + reportDate.Format(time.DateOnly)
}

// Get returns the cached result for key.
func (r *Results) Get(key string) (model.RunResult, bool) {
	if val, found := r.cache.Get(key); found {
		return val.(model.RunResult), true
	}
	return model.RunResult{}, false
}

// Put stores result under key and records it as the last completed run.
func (r *Results) Put(key string, result model.RunResult) {
	r.cache.SetDefault(key, result)
	r.cache.Set(lastKey, result, gocache.NoExpiration)
}

// Last returns the most recently completed run.
func (r *Results) Last() (model.RunResult, bool) {
	return r.Get(lastKey)
}

// Len reports the number of cached entries, including the last-run slot.
func (r *Results) Len() int {
	return r.cache.ItemCount()
}

// Clear drops every entry.
func (r *Results) Clear() {
	r.cache.Flush()
}
