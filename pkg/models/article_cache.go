package models

import "time"

// ArticleCacheEntry is one durable cached article, keyed by the canonical
// word-set key. At most one entry exists per key.
type ArticleCacheEntry struct {
	Key            string    `json:"key" db:"key"`
	Text           string    `json:"text" db:"text"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at" db:"last_accessed_at"`
	AccessCount    int64     `json:"access_count" db:"access_count"`
}
