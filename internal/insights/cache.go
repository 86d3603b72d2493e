package insights

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/emiliopalmerini/mhabit/internal/domain"
)

// DefaultTTL is how long a computed report stays fresh.
const DefaultTTL = 5 * time.Minute

// ComputeTimeout bounds a shared computation, which no longer follows any
// single caller's context.
const ComputeTimeout = time.Minute

// ComputeFunc produces a fresh report on a cache miss.
type ComputeFunc func(ctx context.Context) (*domain.InsightReport, error)

// Cache holds the last insight report. The report, its timestamp and the
// generation are always read and written together under mu.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	now        func() time.Time
	report     *domain.InsightReport
	computedAt time.Time
	generation uint64

	flights singleflight.Group
}

// NewCache creates an empty cache. A non-positive ttl uses DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	return NewCacheWithClock(ttl, time.Now)
}

// NewCacheWithClock creates a cache reading time from now.
func NewCacheWithClock(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl, now: now}
}

// Get returns the cached report while it is younger than the TTL.
func (c *Cache) Get() (*domain.InsightReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	report, ok, _ := c.lookupLocked()
	return report, ok
}

func (c *Cache) lookupLocked() (*domain.InsightReport, bool, uint64) {
	if c.report != nil && c.now().Sub(c.computedAt) < c.ttl {
		return c.report, true, c.generation
	}
	return nil, false, c.generation
}

// Invalidate drops the cached report. Computations already running when
// Invalidate is called will not store their result.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = nil
	c.computedAt = time.Time{}
	c.generation++
}

// GetOrCompute returns the cached report or runs compute. Concurrent misses
// within one generation share a single computation. Errors are never cached.
// hit reports whether the result came from the cache.
//
// The shared computation is detached from ctx: a caller that goes away stops
// waiting and gets ctx.Err(), while the other callers still receive the result.
func (c *Cache) GetOrCompute(ctx context.Context, compute ComputeFunc) (report *domain.InsightReport, hit bool, err error) {
	c.mu.Lock()
	report, hit, gen := c.lookupLocked()
	c.mu.Unlock()
	if hit {
		return report, true, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		computeCtx, cancel := context.WithTimeout(detached, ComputeTimeout)
		defer cancel()

		r, err := compute(computeCtx)
		if err != nil {
			return nil, err
		}
		c.store(gen, r)
		return r, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*domain.InsightReport), false, nil
	}
}

func (c *Cache) store(gen uint64, r *domain.InsightReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.report = r
	c.computedAt = c.now()
}
