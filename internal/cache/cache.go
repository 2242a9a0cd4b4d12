package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/knapcmp/knapcmp/internal/algorithm"
	"github.com/knapcmp/knapcmp/internal/logger"
)

const (
	// Cache TTL constants
	InitialTTL = 5 * time.Minute
	MaxTTL     = 24 * time.Hour

	// Cache key prefix
	CacheKeyPrefix = "knapcmp:"

	// Stats keys
	StatsHitsKey   = "knapcmp:stats:hits"
	StatsMissesKey = "knapcmp:stats:misses"
)

// Options configures the redis connection.
type Options struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// CachedItem is the stored form of a packed item; Amount -1 means unlimited.
type CachedItem struct {
	Weight int `json:"weight"`
	Value  int `json:"value"`
	Amount int `json:"amount"`
}

// CachedSolution represents a cached solver result
type CachedSolution struct {
	Solver            string        `json:"solver"`
	TotalWeight       int           `json:"total_weight"`
	TotalValue        int           `json:"total_value"`
	SelectedItems     []CachedItem  `json:"selected_items"`
	Iterations        int           `json:"iterations"`
	CalculationTimeNs int64         `json:"calculation_time_ns"`
	CachedAt          time.Time     `json:"cached_at"`
	HitCount          int           `json:"hit_count"`
	CurrentTTL        time.Duration `json:"current_ttl"`
}

// Solution converts the cached entry back into a solver result.
func (c *CachedSolution) Solution() algorithm.Solution {
	items := make([]algorithm.Item, 0, len(c.SelectedItems))
	for _, it := range c.SelectedItems {
		items = append(items, algorithm.Item{
			Weight: it.Weight,
			Value:  it.Value,
			Amount: algorithm.AmountFromInt(it.Amount),
		})
	}
	return algorithm.Solution{
		TotalWeight:   c.TotalWeight,
		TotalValue:    c.TotalValue,
		SelectedItems: items,
		Iterations:    c.Iterations,
	}
}

// CacheStats represents cache statistics
type CacheStats struct {
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
	TotalKeys  int64   `json:"total_keys"`
	MemoryUsed string  `json:"memory_used"`
	Uptime     string  `json:"uptime"`
}

// Cache memoizes solver results in Redis. A disabled Cache is a no-op.
type Cache struct {
	client  *redis.Client
	enabled bool
	ctx     context.Context
}

// NewCache creates a new cache instance. An unreachable server disables it.
func NewCache(opts Options) *Cache {
	if !opts.Enabled {
		logger.Log.Info("Redis cache is disabled")
		return &Cache{enabled: false, ctx: context.Background()}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.Warn("Failed to connect to Redis. Cache disabled.",
			zap.String("address", opts.Addr),
			zap.Error(err),
		)
		_ = client.Close()
		return &Cache{enabled: false, ctx: ctx}
	}

	logger.Log.Info("Redis cache enabled", zap.String("address", opts.Addr))
	return &Cache{
		client:  client,
		enabled: true,
		ctx:     ctx,
	}
}

// IsEnabled returns whether caching is enabled
func (c *Cache) IsEnabled() bool {
	return c.enabled
}

// generateKey hashes the solver name and a canonical rendering of the dataset.
func (c *Cache) generateKey(solver string, ds algorithm.Dataset) string {
	var b strings.Builder
	b.WriteString(solver)
	b.WriteString("|")
	b.WriteString(strconv.Itoa(ds.MaxWeight))
	for _, it := range ds.Items {
		fmt.Fprintf(&b, "|%d,%d,%d", it.Weight, it.Value, it.Amount.Int())
	}

	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%s%x", CacheKeyPrefix, hash[:16])
}

// Get retrieves a cached solution and extends its TTL
func (c *Cache) Get(solver string, ds algorithm.Dataset) (*CachedSolution, bool) {
	if !c.enabled {
		return nil, false
	}

	key := c.generateKey(solver, ds)

	data, err := c.client.Get(c.ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.incrementMisses()
		return nil, false
	} else if err != nil {
		logger.Log.Warn("Cache get error", zap.Error(err))
		c.incrementMisses()
		return nil, false
	}

	var result CachedSolution
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Log.Warn("Cache unmarshal error", zap.Error(err))
		c.incrementMisses()
		return nil, false
	}

	// Cache hit! Update TTL (double it, up to max)
	result.HitCount++
	newTTL := result.CurrentTTL * 2
	if newTTL > MaxTTL {
		newTTL = MaxTTL
	}
	result.CurrentTTL = newTTL

	if err := c.set(key, &result, newTTL); err != nil {
		logger.Log.Warn("Failed to update cache TTL", zap.Error(err))
	}

	c.incrementHits()
	return &result, true
}

// Set stores a solver result in cache
func (c *Cache) Set(solver string, ds algorithm.Dataset, solution algorithm.Solution, elapsed time.Duration) error {
	if !c.enabled {
		return nil
	}

	items := make([]CachedItem, 0, len(solution.SelectedItems))
	for _, it := range solution.SelectedItems {
		items = append(items, CachedItem{Weight: it.Weight, Value: it.Value, Amount: it.Amount.Int()})
	}

	cached := &CachedSolution{
		Solver:            solver,
		TotalWeight:       solution.TotalWeight,
		TotalValue:        solution.TotalValue,
		SelectedItems:     items,
		Iterations:        solution.Iterations,
		CalculationTimeNs: elapsed.Nanoseconds(),
		CachedAt:          time.Now(),
		HitCount:          0,
		CurrentTTL:        InitialTTL,
	}

	return c.set(c.generateKey(solver, ds), cached, InitialTTL)
}

// set is an internal method to store data with a specific TTL
func (c *Cache) set(key string, result *CachedSolution, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(c.ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// GetStats returns cache statistics
func (c *Cache) GetStats() (*CacheStats, error) {
	if !c.enabled {
		return &CacheStats{}, nil
	}

	hits, _ := c.client.Get(c.ctx, StatsHitsKey).Int64()
	misses, _ := c.client.Get(c.ctx, StatsMissesKey).Int64()

	total := hits + misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	keys, err := c.solutionKeys()
	if err != nil {
		logger.Log.Warn("Failed to get cache keys", zap.Error(err))
	}

	info, err := c.client.Info(c.ctx, "memory", "server").Result()
	memoryUsed := "N/A"
	uptime := "N/A"

	if err == nil {
		if v := parseInfoField(info, "used_memory_human"); v != "" {
			memoryUsed = v
		}
		uptimeSecs := parseInfoField(info, "uptime_in_seconds")
		if secs, err := strconv.Atoi(uptimeSecs); err == nil {
			uptime = (time.Duration(secs) * time.Second).String()
		}
	}

	return &CacheStats{
		Hits:       hits,
		Misses:     misses,
		HitRate:    hitRate,
		TotalKeys:  int64(len(keys)),
		MemoryUsed: memoryUsed,
		Uptime:     uptime,
	}, nil
}

// Clear removes all cache entries and resets the statistics
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}

	keys, err := c.solutionKeys()
	if err != nil {
		return fmt.Errorf("failed to get cache keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(c.ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
	}

	return c.client.Del(c.ctx, StatsHitsKey, StatsMissesKey).Err()
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if c.enabled && c.client != nil {
		return c.client.Close()
	}
	return nil
}

// solutionKeys lists cached solution keys, leaving out the stats counters.
func (c *Cache) solutionKeys() ([]string, error) {
	keys, err := c.client.Keys(c.ctx, CacheKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}
	out := keys[:0]
	for _, key := range keys {
		if key == StatsHitsKey || key == StatsMissesKey {
			continue
		}
		out = append(out, key)
	}
	return out, nil
}

func (c *Cache) incrementHits() {
	c.client.Incr(c.ctx, StatsHitsKey)
}

func (c *Cache) incrementMisses() {
	c.client.Incr(c.ctx, StatsMissesKey)
}

// parseInfoField extracts a field value from Redis INFO output
func parseInfoField(info, field string) string {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimRight(line, "\r")
		if value, ok := strings.CutPrefix(line, field+":"); ok {
			return value
		}
	}
	return ""
}
