package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordweave/pkg/models"
)

// ArticleCacheRepository is the durable layer of the article cache: a table
// keyed by the canonical word-set key with access bookkeeping. It is the
// single source of truth for cache contents.
type ArticleCacheRepository struct {
	db *sqlx.DB
}

// NewArticleCacheRepository creates a new repository instance
func NewArticleCacheRepository(db *sqlx.DB) *ArticleCacheRepository {
	return &ArticleCacheRepository{db: db}
}

// Get returns the entry for key. The boolean reports whether it exists.
func (r *ArticleCacheRepository) Get(ctx context.Context, key string) (*models.ArticleCacheEntry, bool, error) {
	var entry models.ArticleCacheEntry
	err := r.db.GetContext(ctx, &entry,
		r.db.Rebind(`SELECT * FROM article_cache WHERE key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return &entry, true, nil
}

// Touch increments the access counter and refreshes the last-access timestamp.
func (r *ArticleCacheRepository) Touch(ctx context.Context, key string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE article_cache
		SET access_count = access_count + 1, last_accessed_at = ?
		WHERE key = ?
	`), now, key)
	if err != nil {
		return fmt.Errorf("failed to touch cache entry: %w", err)
	}
	return nil
}

// Upsert inserts the entry, or overwrites the text if a concurrent writer got
// there first. Access bookkeeping of an existing row is preserved.
func (r *ArticleCacheRepository) Upsert(ctx context.Context, entry *models.ArticleCacheEntry) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO article_cache (key, text, created_at, last_accessed_at, access_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET text = excluded.text
	`), entry.Key, entry.Text, entry.CreatedAt, entry.LastAccessedAt, entry.AccessCount)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

// DeleteOlderThan removes entries whose last access is before the cutoff and
// returns how many were deleted.
func (r *ArticleCacheRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM article_cache WHERE last_accessed_at < ?`), cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cache entries: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// TrimToCount deletes the oldest-by-last-access entries until at most max
// remain and returns how many were deleted.
func (r *ArticleCacheRepository) TrimToCount(ctx context.Context, max int) (int64, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	excess := count - int64(max)
	if excess <= 0 {
		return 0, nil
	}
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM article_cache WHERE key IN (
			SELECT key FROM article_cache ORDER BY last_accessed_at ASC, key ASC LIMIT ?
		)
	`), excess)
	if err != nil {
		return 0, fmt.Errorf("failed to trim cache: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// Count returns the number of durable entries.
func (r *ArticleCacheRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM article_cache"); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}

// TotalAccesses returns the sum of access counters across all entries.
func (r *ArticleCacheRepository) TotalAccesses(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COALESCE(SUM(access_count), 0) FROM article_cache"); err != nil {
		return 0, fmt.Errorf("failed to sum cache accesses: %w", err)
	}
	return total, nil
}
