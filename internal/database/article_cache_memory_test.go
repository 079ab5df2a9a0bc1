package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordweave/pkg/models"
)

func entry(key string, lastAccess time.Time) *models.ArticleCacheEntry {
	return &models.ArticleCacheEntry{
		Key: key, Text: "text for " + key,
		CreatedAt: lastAccess, LastAccessedAt: lastAccess,
	}
}

func TestInMemoryStoreGetMissing(t *testing.T) {
	store := NewInMemoryArticleStore()

	got, ok, err := store.Get(context.Background(), "1,2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestInMemoryStoreUpsertPreservesAccessStats(t *testing.T) {
	store := NewInMemoryArticleStore()
	now := time.Now()

	require.NoError(t, store.Upsert(context.Background(), entry("1", now)))
	require.NoError(t, store.Touch(context.Background(), "1", now.Add(time.Minute)))
	require.NoError(t, store.Upsert(context.Background(), &models.ArticleCacheEntry{
		Key: "1", Text: "regenerated", CreatedAt: now, LastAccessedAt: now,
	}))

	got, ok, err := store.Get(context.Background(), "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "regenerated", got.Text)
	assert.Equal(t, int64(1), got.AccessCount)
}

func TestInMemoryStoreTouch(t *testing.T) {
	store := NewInMemoryArticleStore()
	start := time.Now()
	require.NoError(t, store.Upsert(context.Background(), entry("1", start)))

	later := start.Add(time.Hour)
	require.NoError(t, store.Touch(context.Background(), "1", later))
	require.NoError(t, store.Touch(context.Background(), "1", later.Add(time.Hour)))

	got, ok, err := store.Get(context.Background(), "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), got.AccessCount)
	assert.True(t, got.LastAccessedAt.After(later))

	total, err := store.TotalAccesses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestInMemoryStoreDeleteOlderThan(t *testing.T) {
	store := NewInMemoryArticleStore()
	now := time.Now()
	require.NoError(t, store.Upsert(context.Background(), entry("old", now.Add(-2*time.Hour))))
	require.NoError(t, store.Upsert(context.Background(), entry("fresh", now)))

	deleted, err := store.DeleteOlderThan(context.Background(), now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, ok, _ := store.Get(context.Background(), "old")
	assert.False(t, ok)
	_, ok, _ = store.Get(context.Background(), "fresh")
	assert.True(t, ok)
}

func TestInMemoryStoreTrimKeepsMostRecent(t *testing.T) {
	store := NewInMemoryArticleStore()
	base := time.Now()
	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("%d", i+1)
		require.NoError(t, store.Upsert(context.Background(), entry(key, base.Add(time.Duration(i)*time.Minute))))
	}

	trimmed, err := store.TrimToCount(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), trimmed)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, ok, _ := store.Get(context.Background(), "4")
	assert.True(t, ok)
	_, ok, _ = store.Get(context.Background(), "5")
	assert.True(t, ok)
}

func TestInMemoryStoreTrimNoOpUnderCapacity(t *testing.T) {
	store := NewInMemoryArticleStore()
	require.NoError(t, store.Upsert(context.Background(), entry("1", time.Now())))

	trimmed, err := store.TrimToCount(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), trimmed)
}
