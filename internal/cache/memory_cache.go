package cache

import (
	"sync"
	"time"

	"github.com/epeers/secmaster/internal/models"
)

// DefaultTTL is how long the service trusts a cached row
const DefaultTTL = 5 * time.Minute

// MemoryCache provides an in-memory L1 cache for coverage rows and securities
type MemoryCache struct {
	coverage   map[string]coverageEntry
	securities map[string]securityEntry
	coverageMu sync.RWMutex
	securityMu sync.RWMutex
	ttl        time.Duration
}

type coverageEntry struct {
	row       *models.PricesLog // nil means the security has no coverage row
	fetchedAt time.Time
}

type securityEntry struct {
	security  *models.Security
	fetchedAt time.Time
}

// NewMemoryCache creates a new in-memory cache. Entries older than ttl are ignored.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		coverage:   make(map[string]coverageEntry),
		securities: make(map[string]securityEntry),
		ttl:        ttl,
	}
}

func (c *MemoryCache) fresh(fetchedAt time.Time) bool {
	return c.ttl <= 0 || time.Since(fetchedAt) <= c.ttl
}

// GetCoverage retrieves a cached prices_log row. The bool is false on a miss;
// a hit may still carry a nil row.
func (c *MemoryCache) GetCoverage(secid string) (*models.PricesLog, bool) {
	c.coverageMu.RLock()
	defer c.coverageMu.RUnlock()

	entry, exists := c.coverage[secid]
	if !exists || !c.fresh(entry.fetchedAt) {
		return nil, false
	}
	return entry.row, true
}

// SetCoverage caches a prices_log row
func (c *MemoryCache) SetCoverage(secid string, row *models.PricesLog) {
	c.coverageMu.Lock()
	defer c.coverageMu.Unlock()

	c.coverage[secid] = coverageEntry{
		row:       row,
		fetchedAt: time.Now(),
	}
}

// InvalidateCoverage removes coverage rows from the cache
func (c *MemoryCache) InvalidateCoverage(secids ...string) {
	c.coverageMu.Lock()
	defer c.coverageMu.Unlock()

	for _, secid := range secids {
		delete(c.coverage, secid)
	}
}

// ClearCoverage drops every cached coverage row
func (c *MemoryCache) ClearCoverage() {
	c.coverageMu.Lock()
	c.coverage = make(map[string]coverageEntry)
	c.coverageMu.Unlock()
}

// GetSecurity retrieves a cached security if fresh
func (c *MemoryCache) GetSecurity(secid string) (*models.Security, bool) {
	c.securityMu.RLock()
	defer c.securityMu.RUnlock()

	entry, exists := c.securities[secid]
	if !exists || !c.fresh(entry.fetchedAt) {
		return nil, false
	}
	return entry.security, true
}

// SetSecurity caches a security
func (c *MemoryCache) SetSecurity(sec *models.Security) {
	c.securityMu.Lock()
	defer c.securityMu.Unlock()

	c.securities[sec.SecID] = securityEntry{
		security:  sec,
		fetchedAt: time.Now(),
	}
}

// InvalidateSecurity removes securities from the cache
func (c *MemoryCache) InvalidateSecurity(secids ...string) {
	c.securityMu.Lock()
	defer c.securityMu.Unlock()

	for _, secid := range secids {
		delete(c.securities, secid)
	}
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.ClearCoverage()

	c.securityMu.Lock()
	c.securities = make(map[string]securityEntry)
	c.securityMu.Unlock()
}
