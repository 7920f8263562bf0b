package predictor

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/sportcast/internal/models"
)

// DefaultCacheTTL is how long a decision stays fresh. Odds drift, so
// decisions expire on their own.
const DefaultCacheTTL = 30 * time.Minute

// cacheKey identifies one cached decision.
type cacheKey struct {
	MatchID uuid.UUID
	Sport   string
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s:%s", k.MatchID, k.Sport)
}

// DecisionCache keeps recent decisions in memory so repeated requests
// for the same fixture do not rerun the whole pipeline.
type DecisionCache struct {
	cache *cache.Cache
	ttl   time.Duration

	mu     sync.Mutex
	hits   uint64
	misses uint64
}

// NewDecisionCache creates a cache with the given TTL.
func NewDecisionCache(ttl time.Duration) *DecisionCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &DecisionCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get returns the cached decision for a fixture, or nil.
func (c *DecisionCache) Get(key cacheKey) *models.Decision {
	if v, found := c.cache.Get(key.String()); found {
		if decision, ok := v.(*models.Decision); ok {
			c.count(true)
			return decision
		}
	}
	c.count(false)
	return nil
}

// Set stores a decision.
func (c *DecisionCache) Set(key cacheKey, decision *models.Decision) {
	c.cache.Set(key.String(), decision, c.ttl)
}

// Invalidate drops the cached decision for one fixture.
func (c *DecisionCache) Invalidate(key cacheKey) {
	c.cache.Delete(key.String())
}

// Clear flushes everything.
func (c *DecisionCache) Clear() {
	c.cache.Flush()
	c.mu.Lock()
	c.hits, c.misses = 0, 0
	c.mu.Unlock()
}

// Stats returns hit/miss counters and the hit ratio.
func (c *DecisionCache) Stats() (hits, misses uint64, ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hits, misses = c.hits, c.misses
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return hits, misses, ratio
}

func (c *DecisionCache) count(hit bool) {
	c.mu.Lock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
	hits, misses := c.hits, c.misses
	c.mu.Unlock()

	if total := hits + misses; total > 0 {
		CacheHitRatio.Set(float64(hits) / float64(total))
	}
}
