package mastery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/wordweave/pkg/models"
)

func quizWord(id int64, bucket models.Bucket, reviewedAt *time.Time) models.QuizWord {
	return models.QuizWord{WordID: id, Bucket: bucket, LastReviewedAt: reviewedAt}
}

func TestRankBucketPriority(t *testing.T) {
	now := time.Now()
	candidates := []models.QuizWord{
		quizWord(1, models.BucketMastered, &now),
		quizWord(2, models.BucketNeedsWork, &now),
		quizWord(3, models.BucketFamiliar, &now),
	}

	ranked := Rank(candidates)

	assert.Equal(t, int64(2), ranked[0].WordID)
	assert.Equal(t, int64(3), ranked[1].WordID)
	assert.Equal(t, int64(1), ranked[2].WordID)
}

func TestRankNeverReviewedFirstWithinBucket(t *testing.T) {
	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now()
	candidates := []models.QuizWord{
		quizWord(1, models.BucketNeedsWork, &recent),
		quizWord(2, models.BucketNeedsWork, nil),
		quizWord(3, models.BucketNeedsWork, &old),
	}

	ranked := Rank(candidates)

	assert.Equal(t, int64(2), ranked[0].WordID)
	assert.Equal(t, int64(3), ranked[1].WordID)
	assert.Equal(t, int64(1), ranked[2].WordID)
}

func TestRankTieBreaksOnWordID(t *testing.T) {
	reviewed := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	candidates := []models.QuizWord{
		quizWord(9, models.BucketFamiliar, &reviewed),
		quizWord(4, models.BucketFamiliar, &reviewed),
		quizWord(7, models.BucketFamiliar, nil),
		quizWord(2, models.BucketFamiliar, nil),
	}

	ranked := Rank(candidates)

	assert.Equal(t, []int64{2, 7, 4, 9}, []int64{
		ranked[0].WordID, ranked[1].WordID, ranked[2].WordID, ranked[3].WordID,
	})
}

func TestRankDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	candidates := []models.QuizWord{
		quizWord(1, models.BucketMastered, &now),
		quizWord(2, models.BucketNeedsWork, &now),
	}

	Rank(candidates)

	assert.Equal(t, int64(1), candidates[0].WordID)
	assert.Equal(t, int64(2), candidates[1].WordID)
}
