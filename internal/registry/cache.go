package registry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/flowmesh-ai/toolspec/contracts"
)

// DefinitionCache is a TTL-based in-memory cache with stale-while-revalidate
// for tool contract definitions. Uses sync.Map for lock-free reads on the hot
// path.
type DefinitionCache struct {
	store sync.Map // map[string]*cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	tool       *contracts.Tool // nil = negative cache (no stored definition)
	expiresAt  time.Time
	refreshing atomic.Bool
}

// CacheGetResult holds the result of a cache lookup.
type CacheGetResult struct {
	Tool         *contracts.Tool // nil if not found or negative cache
	Hit          bool            // true if a value was found (fresh or stale)
	NeedsRefresh bool            // true if expired — caller should refresh in background
}

// NewDefinitionCache creates a cache with the given TTL.
func NewDefinitionCache(ttl time.Duration) *DefinitionCache {
	return &DefinitionCache{ttl: ttl}
}

// cacheKey builds the lookup key for a project+tool pair.
func cacheKey(projectID, toolName string) string {
	return projectID + ":" + toolName
}

// Get performs a non-blocking cache lookup.
// Returns stale entries with NeedsRefresh=true when expired.
func (c *DefinitionCache) Get(projectID, toolName string) CacheGetResult {
	key := cacheKey(projectID, toolName)
	val, ok := c.store.Load(key)
	if !ok {
		return CacheGetResult{Hit: false}
	}

	entry := val.(*cacheEntry)
	now := time.Now()

	if now.Before(entry.expiresAt) {
		// Fresh hit
		return CacheGetResult{
			Tool: entry.tool,
			Hit:  true,
		}
	}

	// Stale hit — signal refresh needed (only one goroutine wins the CAS)
	needsRefresh := entry.refreshing.CompareAndSwap(false, true)
	return CacheGetResult{
		Tool:         entry.tool,
		Hit:          true,
		NeedsRefresh: needsRefresh,
	}
}

// Set stores a contract in the cache with a fresh TTL.
// Passing nil stores a negative cache entry (no stored definition).
func (c *DefinitionCache) Set(projectID, toolName string, tool *contracts.Tool) {
	key := cacheKey(projectID, toolName)
	c.store.Store(key, &cacheEntry{
		tool:      tool,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Delete removes an entry from the cache.
func (c *DefinitionCache) Delete(projectID, toolName string) {
	key := cacheKey(projectID, toolName)
	c.store.Delete(key)
}
