// Package articlecache resolves generated articles through a two-layer cache:
// a volatile in-process layer in front of a durable store, with generation as
// the final fallback on a full miss.
package articlecache

import (
	"errors"
	"slices"
	"strconv"
	"strings"
)

// ErrEmptyWordSet is returned when an article is requested for no words.
var ErrEmptyWordSet = errors.New("word set is empty")

// ErrUnknownWord is returned when a requested word ID has no matching word.
var ErrUnknownWord = errors.New("unknown word")

// keySeparator joins sorted word IDs. It cannot appear inside a numeric ID.
const keySeparator = ","

// BuildKey derives the canonical cache key for a set of word IDs. Duplicates
// collapse and any permutation of the same set yields the same key.
func BuildKey(wordIDs []int64) (string, error) {
	if len(wordIDs) == 0 {
		return "", ErrEmptyWordSet
	}
	ids := slices.Clone(wordIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, keySeparator), nil
}

// ParseKey recovers the sorted, deduplicated word IDs from a canonical key.
func ParseKey(key string) ([]int64, error) {
	if key == "" {
		return nil, ErrEmptyWordSet
	}
	parts := strings.Split(key, keySeparator)
	ids := make([]int64, len(parts))
	for i, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, errors.New("malformed cache key")
		}
		ids[i] = id
	}
	return ids, nil
}
