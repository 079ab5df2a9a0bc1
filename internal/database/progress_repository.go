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

// ProgressRepository handles database operations for per-user word progress
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetByUserAndWord returns progress for a specific user and word
func (r *ProgressRepository) GetByUserAndWord(ctx context.Context, userID, wordID int64) (*models.WordProgress, error) {
	var progress models.WordProgress
	err := r.db.GetContext(ctx, &progress,
		r.db.Rebind("SELECT * FROM word_progress WHERE user_id = ? AND word_id = ?"),
		userID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("progress for user %d word %d: %w", userID, wordID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word progress: %w", err)
	}
	return &progress, nil
}

// Create inserts a progress record at the needs_work bucket for a newly saved
// word. It is idempotent: saving an already-saved word is a no-op. The boolean
// reports whether a new row was created.
func (r *ProgressRepository) Create(ctx context.Context, userID, wordID int64, now time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO word_progress (user_id, word_id, bucket, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, word_id) DO NOTHING
	`), userID, wordID, models.BucketNeedsWork, now, now)
	if err != nil {
		return false, fmt.Errorf("failed to create word progress: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ApplyResult records one quiz outcome in a single row-level update so that
// counter increments serialize under concurrent writers. The caller supplies
// the new bucket computed by the mastery transition function.
func (r *ProgressRepository) ApplyResult(ctx context.Context, userID, wordID int64, bucket models.Bucket, correct bool, now time.Time) error {
	correctInc, incorrectInc := 0, 1
	if correct {
		correctInc, incorrectInc = 1, 0
	}
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE word_progress SET
			bucket = ?,
			review_count = review_count + 1,
			correct_count = correct_count + ?,
			incorrect_count = incorrect_count + ?,
			last_reviewed_at = ?,
			updated_at = ?
		WHERE user_id = ? AND word_id = ?
	`), bucket, correctInc, incorrectInc, now, now, userID, wordID)
	if err != nil {
		return fmt.Errorf("failed to apply quiz result: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("progress for user %d word %d: %w", userID, wordID, ErrNotFound)
	}
	return nil
}

// GetQuizCandidates returns every saved word for the user together with its
// mastery state. Ranking happens in the mastery package.
func (r *ProgressRepository) GetQuizCandidates(ctx context.Context, userID int64) ([]models.QuizWord, error) {
	var candidates []models.QuizWord
	err := r.db.SelectContext(ctx, &candidates, r.db.Rebind(`
		SELECT w.id AS word_id, w.word, w.translation, w.definition,
		       p.bucket, p.last_reviewed_at
		FROM word_progress p
		JOIN words w ON w.id = p.word_id
		WHERE p.user_id = ?
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz candidates: %w", err)
	}
	return candidates, nil
}
