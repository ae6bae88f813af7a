package pricecache

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"defi_assistant/internal/app/port"
	"defi_assistant/internal/domain/entity"
	"defi_assistant/pkg/metrics"
)

const dayFormat = "2006-01-02"

// FileCache is the day-scoped persistent price cache. It keeps one
// entity.CacheEntry in memory, serializes every load-mutate-persist cycle
// behind a single mutex and rewrites the backing JSON file in full after
// each mutation. A write failure degrades the cache to in-memory-only for
// the rest of the run; it is never fatal.
type FileCache struct {
	path   string
	logger port.Logger

	mu      sync.Mutex
	entry   entity.CacheEntry
	memOnly bool
	now     func() time.Time
}

// New loads the cache file at path, discarding it when it is unreadable,
// corrupt or scoped to a previous day.
func New(path string, l port.Logger) *FileCache {
	c := &FileCache{
		path:   path,
		logger: l,
		now:    time.Now,
	}
	c.entry = c.load()
	return c
}

// today returns the current day key. The cache day boundary is UTC.
func (c *FileCache) today() string {
	return c.now().UTC().Format(dayFormat)
}

func (c *FileCache) load() entity.CacheEntry {
	today := c.today()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("Failed to read price cache file, starting empty", "path", c.path, "error", err)
		}
		return entity.NewCacheEntry(today)
	}

	var entry entity.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("Price cache file is corrupt, starting empty", "path", c.path, "error", err)
		return entity.NewCacheEntry(today)
	}

	if entry.Date != today {
		c.logger.Info("Discarding stale price cache", "cached_date", entry.Date, "today", today)
		return entity.NewCacheEntry(today)
	}

	// Maps may be null in a hand-edited file.
	if entry.Tokens == nil {
		entry.Tokens = make(map[string]entity.PriceInfo)
	}
	if entry.NotFound == nil {
		entry.NotFound = make(map[string]entity.NotFoundEntry)
	}
	if entry.InvalidTrust == nil {
		entry.InvalidTrust = make(map[string]entity.InvalidTrustEntry)
	}

	c.logger.Info("Price cache loaded", "path", c.path, "date", entry.Date, "tokens", len(entry.Tokens))
	return entry
}

// persistLocked writes the whole entry back to disk. Callers hold c.mu.
func (c *FileCache) persistLocked() {
	if c.memOnly {
		return
	}
	data, err := json.MarshalIndent(c.entry, "", "  ")
	if err != nil {
		c.logger.Error("Failed to marshal price cache, disabling persistence for this run", "error", err)
		c.memOnly = true
		return
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		c.logger.Error("Failed to write price cache file, disabling persistence for this run",
			"path", c.path, "error", err)
		c.memOnly = true
	}
}

// cleanupLocked resets all three maps when the stored date is not today.
// Callers hold c.mu.
func (c *FileCache) cleanupLocked() {
	today := c.today()
	if c.entry.Date == today {
		return
	}
	c.logger.Info("Price cache day rollover, resetting", "old_date", c.entry.Date, "new_date", today)
	c.entry = entity.NewCacheEntry(today)
	c.persistLocked()
}

// Get returns the cached price for a cache key, if present today.
func (c *FileCache) Get(key string) (entity.PriceInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked()

	info, ok := c.entry.Tokens[strings.ToLower(key)]
	if ok {
		metrics.PriceCacheLookups.WithLabelValues("tokens", "hit").Inc()
	} else {
		metrics.PriceCacheLookups.WithLabelValues("tokens", "miss").Inc()
	}
	return info, ok
}

// Set stores a resolved price and writes through to disk immediately.
func (c *FileCache) Set(key string, info entity.PriceInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked()

	c.entry.Tokens[strings.ToLower(key)] = info
	c.persistLocked()
}

// IsNotFound reports whether a contract address was already reported unknown
// by the price provider today.
func (c *FileCache) IsNotFound(contractAddress string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked()

	_, ok := c.entry.NotFound[strings.ToLower(contractAddress)]
	if ok {
		metrics.PriceCacheLookups.WithLabelValues("not_found", "hit").Inc()
	}
	return ok
}

// MarkNotFound records a contract the provider does not know, so the lookup
// is not repeated today.
func (c *FileCache) MarkNotFound(contractAddress, symbolHint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked()

	c.entry.NotFound[strings.ToLower(contractAddress)] = entity.NotFoundEntry{
		Timestamp: c.now().Unix(),
		Symbol:    symbolHint,
	}
	c.persistLocked()
}

// IsInvalidTrust reports whether a contract already failed the trust filter
// today.
func (c *FileCache) IsInvalidTrust(contractAddress string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked()

	_, ok := c.entry.InvalidTrust[strings.ToLower(contractAddress)]
	if ok {
		metrics.PriceCacheLookups.WithLabelValues("invalid_trust", "hit").Inc()
	}
	return ok
}

// MarkInvalidTrust records a contract whose market tickers failed the trust
// filter, with the reason.
func (c *FileCache) MarkInvalidTrust(contractAddress, symbolHint, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked()

	c.entry.InvalidTrust[strings.ToLower(contractAddress)] = entity.InvalidTrustEntry{
		Timestamp: c.now().Unix(),
		Symbol:    symbolHint,
		TrustInfo: reason,
	}
	c.persistLocked()
}

// CleanupIfStale resets the cache when the stored date is no longer today.
func (c *FileCache) CleanupIfStale() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked()
}
