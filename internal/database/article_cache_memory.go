package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/wordweave/pkg/models"
)

// InMemoryArticleStore is a mutex-guarded map implementation of the durable
// article store contract. It backs tests and tooling that need store semantics
// without a database.
type InMemoryArticleStore struct {
	mu      sync.Mutex
	entries map[string]models.ArticleCacheEntry
}

// NewInMemoryArticleStore creates an empty in-memory store.
func NewInMemoryArticleStore() *InMemoryArticleStore {
	return &InMemoryArticleStore{entries: make(map[string]models.ArticleCacheEntry)}
}

// Get returns the entry for key. The boolean reports whether it exists.
func (s *InMemoryArticleStore) Get(_ context.Context, key string) (*models.ArticleCacheEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	e := entry
	return &e, true, nil
}

// Touch increments the access counter and refreshes the last-access timestamp.
func (s *InMemoryArticleStore) Touch(_ context.Context, key string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil
	}
	entry.AccessCount++
	entry.LastAccessedAt = now
	s.entries[key] = entry
	return nil
}

// Upsert inserts the entry, overwriting only the text of an existing row.
func (s *InMemoryArticleStore) Upsert(_ context.Context, entry *models.ArticleCacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[entry.Key]; ok {
		existing.Text = entry.Text
		s.entries[entry.Key] = existing
		return nil
	}
	s.entries[entry.Key] = *entry
	return nil
}

// DeleteOlderThan removes entries whose last access is before the cutoff.
func (s *InMemoryArticleStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for key, entry := range s.entries {
		if entry.LastAccessedAt.Before(cutoff) {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// TrimToCount deletes the oldest-by-last-access entries until at most max remain.
func (s *InMemoryArticleStore) TrimToCount(_ context.Context, max int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	excess := len(s.entries) - max
	if excess <= 0 {
		return 0, nil
	}
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := s.entries[keys[i]], s.entries[keys[j]]
		if !a.LastAccessedAt.Equal(b.LastAccessedAt) {
			return a.LastAccessedAt.Before(b.LastAccessedAt)
		}
		return keys[i] < keys[j]
	})
	for _, key := range keys[:excess] {
		delete(s.entries, key)
	}
	return int64(excess), nil
}

// Count returns the number of entries.
func (s *InMemoryArticleStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.entries)), nil
}

// TotalAccesses returns the sum of access counters across all entries.
func (s *InMemoryArticleStore) TotalAccesses(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, entry := range s.entries {
		total += entry.AccessCount
	}
	return total, nil
}
