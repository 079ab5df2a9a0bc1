package mastery

import (
	"sort"

	"github.com/example/wordweave/pkg/models"
)

// Rank orders quiz candidates by review priority:
// 1. Bucket priority: needs_work before familiar before mastered.
// 2. Least recently reviewed first; never-reviewed words sort before any
//    reviewed word within their bucket.
// 3. Word ID as a stable tie-break.
func Rank(candidates []models.QuizWord) []models.QuizWord {
	ranked := make([]models.QuizWord, len(candidates))
	copy(ranked, candidates)

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Bucket.Rank() != b.Bucket.Rank() {
			return a.Bucket.Rank() < b.Bucket.Rank()
		}
		switch {
		case a.LastReviewedAt == nil && b.LastReviewedAt != nil:
			return true
		case a.LastReviewedAt != nil && b.LastReviewedAt == nil:
			return false
		case a.LastReviewedAt != nil && b.LastReviewedAt != nil &&
			!a.LastReviewedAt.Equal(*b.LastReviewedAt):
			return a.LastReviewedAt.Before(*b.LastReviewedAt)
		}
		return a.WordID < b.WordID
	})

	return ranked
}
