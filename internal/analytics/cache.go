// Package analytics provides caching in front of the analytics engine.
package analytics

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/skylark/internal/metrics"
	"github.com/yourusername/skylark/internal/repository"
)

// CacheKey identifies one aggregate query
type CacheKey struct {
	Query    string
	HorseID  int64
	Date     time.Time
	Distance int
	Limit    int
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%d:%s:%s:%d:%d", k.HorseID, k.Query, k.Date.Format("2006-01-02"), k.Distance, k.Limit)
}

// horseOf extracts the horse id from a cache key string
func horseOf(key string) (int64, bool) {
	head, _, found := strings.Cut(key, ":")
	if !found {
		return 0, false
	}
	id, err := strconv.ParseInt(head, 10, 64)
	return id, err == nil
}

// CachedEngine decorates an AnalyticsEngine with a TTL cache. Only
// present values are cached; absent results and errors always reach
// the underlying engine.
type CachedEngine struct {
	engine    repository.AnalyticsEngine
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.RWMutex
}

// NewCachedEngine creates a new cached analytics engine
func NewCachedEngine(engine repository.AnalyticsEngine, ttl time.Duration, maxSize int) *CachedEngine {
	return &CachedEngine{
		engine:  engine,
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// GetLastSpeedFigure implements repository.AnalyticsEngine
func (c *CachedEngine) GetLastSpeedFigure(ctx context.Context, horseID int64, date time.Time) (*float64, error) {
	key := CacheKey{Query: "last_speed_figure", HorseID: horseID, Date: date, Limit: 1}
	return c.lookup(key, func() (*float64, error) {
		return c.engine.GetLastSpeedFigure(ctx, horseID, date)
	})
}

// GetAverageSpeedFigure implements repository.AnalyticsEngine
func (c *CachedEngine) GetAverageSpeedFigure(ctx context.Context, horseID int64, date time.Time, limit int) (*float64, error) {
	key := CacheKey{Query: "speed_figure_avg", HorseID: horseID, Date: date, Limit: limit}
	return c.lookup(key, func() (*float64, error) {
		return c.engine.GetAverageSpeedFigure(ctx, horseID, date, limit)
	})
}

// GetAverageFinishPosition implements repository.AnalyticsEngine
func (c *CachedEngine) GetAverageFinishPosition(ctx context.Context, horseID int64, date time.Time, limit int) (*float64, error) {
	key := CacheKey{Query: "finish_position_avg", HorseID: horseID, Date: date, Limit: limit}
	return c.lookup(key, func() (*float64, error) {
		return c.engine.GetAverageFinishPosition(ctx, horseID, date, limit)
	})
}

// GetAverageSpeedFigureByDistance implements repository.AnalyticsEngine
func (c *CachedEngine) GetAverageSpeedFigureByDistance(ctx context.Context, horseID int64, date time.Time, distance, limit int) (*float64, error) {
	key := CacheKey{Query: "speed_figure_distance_avg", HorseID: horseID, Date: date, Distance: distance, Limit: limit}
	return c.lookup(key, func() (*float64, error) {
		return c.engine.GetAverageSpeedFigureByDistance(ctx, horseID, date, distance, limit)
	})
}

// GetAverageDistance implements repository.AnalyticsEngine
func (c *CachedEngine) GetAverageDistance(ctx context.Context, horseID int64, date time.Time, limit int) (*float64, error) {
	key := CacheKey{Query: "distance_avg", HorseID: horseID, Date: date, Limit: limit}
	return c.lookup(key, func() (*float64, error) {
		return c.engine.GetAverageDistance(ctx, horseID, date, limit)
	})
}

// GetAverageEarnings implements repository.AnalyticsEngine
func (c *CachedEngine) GetAverageEarnings(ctx context.Context, horseID int64, date time.Time, limit int) (*float64, error) {
	key := CacheKey{Query: "earnings_avg", HorseID: horseID, Date: date, Limit: limit}
	return c.lookup(key, func() (*float64, error) {
		return c.engine.GetAverageEarnings(ctx, horseID, date, limit)
	})
}

func (c *CachedEngine) lookup(key CacheKey, load func() (*float64, error)) (*float64, error) {
	k := key.String()

	c.mu.RLock()
	cached, found := c.cache.Get(k)
	c.mu.RUnlock()

	if found {
		metrics.RecordCacheLookup(true)
		v := cached.(float64)
		return &v, nil
	}
	metrics.RecordCacheLookup(false)

	value, err := load()
	if err != nil || value == nil {
		return value, err
	}

	c.mu.Lock()
	if c.maxSize > 0 && c.cache.ItemCount() >= c.maxSize {
		c.cache.DeleteExpired()
	}
	if c.maxSize <= 0 || c.cache.ItemCount() < c.maxSize {
		c.cache.Set(k, *value, c.ttl)
	}
	c.mu.Unlock()

	return value, nil
}

// Invalidate removes every cached aggregate of one horse. Call it when
// new results for the horse appear.
func (c *CachedEngine) Invalidate(horseID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.cache.Items() {
		if id, ok := horseOf(k); ok && id == horseID {
			c.cache.Delete(k)
		}
	}
}

// Clear removes every cached aggregate
func (c *CachedEngine) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Flush()
}

var _ repository.AnalyticsEngine = (*CachedEngine)(nil)
