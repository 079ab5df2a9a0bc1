package articlecache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/wordweave/internal/generator"
	"github.com/example/wordweave/pkg/models"
)

// Store is the durable cache layer consumed by the coordinator.
type Store interface {
	Get(ctx context.Context, key string) (*models.ArticleCacheEntry, bool, error)
	Touch(ctx context.Context, key string, now time.Time) error
	Upsert(ctx context.Context, entry *models.ArticleCacheEntry) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	TrimToCount(ctx context.Context, max int) (int64, error)
	Count(ctx context.Context) (int64, error)
	TotalAccesses(ctx context.Context) (int64, error)
}

// Config bounds the durable layer and throttles opportunistic eviction.
type Config struct {
	// MaxAge expires durable entries not accessed for this long.
	MaxAge time.Duration
	// MaxEntries caps the durable entry count; the oldest-by-last-access
	// entries are trimmed beyond it.
	MaxEntries int
	// SweepEveryNInserts triggers an eviction sweep after this many durable
	// inserts. Zero disables the insert-count trigger.
	SweepEveryNInserts int
}

// Article is a resolved fill-in-the-blank article.
type Article struct {
	Key        string `json:"key"`
	Text       string `json:"text"`
	BlankCount int    `json:"blank_count"`
}

// CacheStats reports both cache layers for the stats endpoint.
type CacheStats struct {
	Volatile VolatileStats `json:"volatile"`
	Durable  DurableStats  `json:"durable"`
}

// DurableStats is a snapshot of the durable layer's bookkeeping.
type DurableStats struct {
	Count         int64 `json:"count"`
	TotalAccesses int64 `json:"total_accesses"`
}

// call tracks one in-flight generation so concurrent requests for the same
// key share a single external call.
type call struct {
	wg   sync.WaitGroup
	text string
}

// Coordinator orchestrates article resolution: volatile probe, durable probe
// with write-through promotion, then generation with fallback masking. It is
// the sole writer of cache entries.
type Coordinator struct {
	store    Store
	volatile *VolatileCache
	external generator.TextGenerator // may be nil when no provider is configured
	fallback generator.TextGenerator
	cfg      Config
	log      *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	inflight map[string]*call

	inserts atomic.Int64
}

// NewCoordinator creates a coordinator. external may be nil, in which case
// every generation uses the fallback.
func NewCoordinator(store Store, volatile *VolatileCache, external, fallback generator.TextGenerator, cfg Config, log *slog.Logger) *Coordinator {
	return &Coordinator{
		store:    store,
		volatile: volatile,
		external: external,
		fallback: fallback,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		inflight: make(map[string]*call),
	}
}

// Resolve returns the article for the given word set, generating and caching
// it on a miss. Generation failures are masked by the fallback generator and
// never surface to the caller; the only error is an empty word set.
func (c *Coordinator) Resolve(ctx context.Context, words []models.Word) (Article, error) {
	ids := make([]int64, len(words))
	for i, w := range words {
		ids[i] = w.ID
	}
	key, err := BuildKey(ids)
	if err != nil {
		return Article{}, err
	}

	// Volatile probe: fastest path, no side effects.
	if text, ok := c.volatile.Get(key); ok {
		metricHits.WithLabelValues("volatile").Inc()
		return Article{Key: key, Text: text, BlankCount: generator.CountBlanks(text)}, nil
	}

	// Durable probe: bump access stats and promote into the volatile layer.
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		// The store being unreachable must not block delivery; fall through
		// to generation and serve a fresh article.
		c.log.Error("durable cache read failed", "key", key, "error", err)
	}
	if ok {
		if err := c.store.Touch(ctx, key, c.now()); err != nil {
			c.log.Error("failed to update cache access stats", "key", key, "error", err)
		}
		c.volatile.Set(key, entry.Text)
		metricHits.WithLabelValues("durable").Inc()
		return Article{Key: key, Text: entry.Text, BlankCount: generator.CountBlanks(entry.Text)}, nil
	}

	metricMisses.Inc()
	text := c.loadOnce(ctx, key, words)
	return Article{Key: key, Text: text, BlankCount: generator.CountBlanks(text)}, nil
}

// loadOnce generates and persists the article for key, deduplicating
// concurrent callers for the same key.
func (c *Coordinator) loadOnce(ctx context.Context, key string, words []models.Word) string {
	c.mu.Lock()
	if inflight, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		inflight.wg.Wait()
		return inflight.text
	}
	cl := &call{}
	cl.wg.Add(1)
	c.inflight[key] = cl
	c.mu.Unlock()

	cl.text = c.generateAndPersist(ctx, key, words)
	cl.wg.Done()

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()

	return cl.text
}

func (c *Coordinator) generateAndPersist(ctx context.Context, key string, words []models.Word) string {
	text := c.generate(ctx, words)

	if got, want := generator.CountBlanks(text), len(words); got != want {
		// Quality warning only: the article is still delivered.
		metricQualityWarnings.Inc()
		c.log.Warn("generated article blank count mismatch",
			"key", key, "blanks", got, "words", want)
	}

	now := c.now()
	entry := &models.ArticleCacheEntry{
		Key:            key,
		Text:           text,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	if err := c.store.Upsert(ctx, entry); err != nil {
		// Persistence failure is not fatal to the request. The volatile layer
		// is not populated either, so it stays a subset of the durable store.
		c.log.Error("failed to persist generated article", "key", key, "error", err)
		return text
	}
	c.volatile.Set(key, text)
	c.maybeSweep(ctx)
	return text
}

func (c *Coordinator) generate(ctx context.Context, words []models.Word) string {
	if c.external != nil {
		text, err := c.external.Generate(ctx, words)
		if err == nil {
			metricGenerations.WithLabelValues("ok").Inc()
			return text
		}
		c.log.Warn("external generation failed, using fallback", "error", err)
	}
	metricGenerations.WithLabelValues("fallback").Inc()
	text, _ := c.fallback.Generate(ctx, words)
	return text
}

// maybeSweep runs the eviction sweep after every N durable inserts.
func (c *Coordinator) maybeSweep(ctx context.Context) {
	n := int64(c.cfg.SweepEveryNInserts)
	if n <= 0 {
		return
	}
	if c.inserts.Add(1)%n != 0 {
		return
	}
	if _, _, err := c.Sweep(ctx); err != nil {
		c.log.Error("opportunistic cache sweep failed", "error", err)
	}
}

// Sweep applies both eviction rules to the durable store: age expiry by last
// access, then capacity trim of the oldest entries. Both rules are idempotent
// and safe to run concurrently with reads.
func (c *Coordinator) Sweep(ctx context.Context) (expired, trimmed int64, err error) {
	if c.cfg.MaxAge > 0 {
		expired, err = c.store.DeleteOlderThan(ctx, c.now().Add(-c.cfg.MaxAge))
		if err != nil {
			return expired, 0, err
		}
		metricEvicted.WithLabelValues("age").Add(float64(expired))
	}
	if c.cfg.MaxEntries > 0 {
		trimmed, err = c.store.TrimToCount(ctx, c.cfg.MaxEntries)
		if err != nil {
			return expired, trimmed, err
		}
		metricEvicted.WithLabelValues("capacity").Add(float64(trimmed))
	}
	if expired > 0 || trimmed > 0 {
		c.log.Info("cache sweep completed", "expired", expired, "trimmed", trimmed)
	}
	return expired, trimmed, nil
}

// Stats reports both cache layers.
func (c *Coordinator) Stats(ctx context.Context) (CacheStats, error) {
	count, err := c.store.Count(ctx)
	if err != nil {
		return CacheStats{}, err
	}
	accesses, err := c.store.TotalAccesses(ctx)
	if err != nil {
		return CacheStats{}, err
	}
	return CacheStats{
		Volatile: c.volatile.Stats(),
		Durable:  DurableStats{Count: count, TotalAccesses: accesses},
	}, nil
}
