package models

import "time"

// Bucket is a discrete mastery tier assigned to a user's saved word.
// The tiers form an ordered ladder: needs_work -> familiar -> mastered.
type Bucket string

const (
	BucketNeedsWork Bucket = "needs_work"
	BucketFamiliar  Bucket = "familiar"
	BucketMastered  Bucket = "mastered"
)

// Rank returns the bucket's position on the ladder, lowest mastery first.
func (b Bucket) Rank() int {
	switch b {
	case BucketNeedsWork:
		return 0
	case BucketFamiliar:
		return 1
	case BucketMastered:
		return 2
	}
	return 0
}

// Valid reports whether b is one of the known buckets.
func (b Bucket) Valid() bool {
	switch b {
	case BucketNeedsWork, BucketFamiliar, BucketMastered:
		return true
	}
	return false
}

// WordProgress tracks a user's mastery of a specific word.
// Invariant: ReviewCount == CorrectCount + IncorrectCount.
type WordProgress struct {
	ID             int64      `json:"id" db:"id"`
	UserID         int64      `json:"user_id" db:"user_id"`
	WordID         int64      `json:"word_id" db:"word_id"`
	Bucket         Bucket     `json:"bucket" db:"bucket"`
	ReviewCount    int        `json:"review_count" db:"review_count"`
	CorrectCount   int        `json:"correct_count" db:"correct_count"`
	IncorrectCount int        `json:"incorrect_count" db:"incorrect_count"`
	LastReviewedAt *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// QuizWord pairs a saved word with the mastery state used to rank it for a quiz.
type QuizWord struct {
	WordID         int64      `json:"word_id" db:"word_id"`
	Word           string     `json:"word" db:"word"`
	Translation    string     `json:"translation" db:"translation"`
	Definition     string     `json:"definition" db:"definition"`
	Bucket         Bucket     `json:"bucket" db:"bucket"`
	LastReviewedAt *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
}
