package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordweave/pkg/models"
)

// AggregateRepository handles database operations for per-day activity counters
type AggregateRepository struct {
	db *sqlx.DB
}

// NewAggregateRepository creates a new repository instance
func NewAggregateRepository(db *sqlx.DB) *AggregateRepository {
	return &AggregateRepository{db: db}
}

// IncrementWordsSaved bumps the words_saved counter for the given day,
// creating the row if this is the first event of the day.
func (r *AggregateRepository) IncrementWordsSaved(ctx context.Context, userID int64, day string) error {
	return r.increment(ctx, userID, day, `
		INSERT INTO daily_aggregates (user_id, day, words_saved)
		VALUES (?, ?, 1)
		ON CONFLICT (user_id, day) DO UPDATE SET words_saved = daily_aggregates.words_saved + 1
	`)
}

// IncrementWordsReviewed bumps the words_reviewed counter for the given day.
func (r *AggregateRepository) IncrementWordsReviewed(ctx context.Context, userID int64, day string) error {
	return r.increment(ctx, userID, day, `
		INSERT INTO daily_aggregates (user_id, day, words_reviewed)
		VALUES (?, ?, 1)
		ON CONFLICT (user_id, day) DO UPDATE SET words_reviewed = daily_aggregates.words_reviewed + 1
	`)
}

// IncrementQuizzesCompleted bumps the quizzes_completed counter for the given day.
func (r *AggregateRepository) IncrementQuizzesCompleted(ctx context.Context, userID int64, day string) error {
	return r.increment(ctx, userID, day, `
		INSERT INTO daily_aggregates (user_id, day, quizzes_completed)
		VALUES (?, ?, 1)
		ON CONFLICT (user_id, day) DO UPDATE SET quizzes_completed = daily_aggregates.quizzes_completed + 1
	`)
}

func (r *AggregateRepository) increment(ctx context.Context, userID int64, day, query string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), userID, day); err != nil {
		return fmt.Errorf("failed to increment daily aggregate: %w", err)
	}
	return nil
}

// GetByUserAndDay returns the aggregate for the given user and day. Days with
// no recorded activity return a zero-valued aggregate rather than an error.
func (r *AggregateRepository) GetByUserAndDay(ctx context.Context, userID int64, day string) (*models.DailyAggregate, error) {
	var agg models.DailyAggregate
	err := r.db.GetContext(ctx, &agg,
		r.db.Rebind("SELECT * FROM daily_aggregates WHERE user_id = ? AND day = ?"),
		userID, day)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.DailyAggregate{UserID: userID, Day: day}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily aggregate: %w", err)
	}
	return &agg, nil
}
