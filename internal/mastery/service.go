package mastery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/wordweave/pkg/models"
)

// ErrInvalidDay is returned when a stats day is not in YYYY-MM-DD form.
var ErrInvalidDay = errors.New("invalid day format")

// ProgressStore persists per-user word progress.
type ProgressStore interface {
	GetByUserAndWord(ctx context.Context, userID, wordID int64) (*models.WordProgress, error)
	Create(ctx context.Context, userID, wordID int64, now time.Time) (bool, error)
	ApplyResult(ctx context.Context, userID, wordID int64, bucket models.Bucket, correct bool, now time.Time) error
	GetQuizCandidates(ctx context.Context, userID int64) ([]models.QuizWord, error)
}

// AggregateStore persists per-day activity counters.
type AggregateStore interface {
	IncrementWordsSaved(ctx context.Context, userID int64, day string) error
	IncrementWordsReviewed(ctx context.Context, userID int64, day string) error
	IncrementQuizzesCompleted(ctx context.Context, userID int64, day string) error
	GetByUserAndDay(ctx context.Context, userID int64, day string) (*models.DailyAggregate, error)
}

// WordStore looks up words by ID.
type WordStore interface {
	GetByID(ctx context.Context, id int64) (*models.Word, error)
}

// DefaultQuizSize is used when a caller requests a quiz without a limit.
const DefaultQuizSize = 10

// Service applies quiz outcomes to progress rows and daily aggregates and
// selects words for upcoming quizzes.
type Service struct {
	progress   ProgressStore
	aggregates AggregateStore
	words      WordStore
	log        *slog.Logger
	now        func() time.Time
}

// NewService creates a mastery service.
func NewService(progress ProgressStore, aggregates AggregateStore, words WordStore, log *slog.Logger) *Service {
	return &Service{
		progress:   progress,
		aggregates: aggregates,
		words:      words,
		log:        log,
		now:        time.Now,
	}
}

// SaveWord adds a word to the user's collection, starting it at needs_work.
// Saving an already-saved word is a no-op; only a first save counts toward
// the day's words_saved.
func (s *Service) SaveWord(ctx context.Context, userID, wordID int64) error {
	if _, err := s.words.GetByID(ctx, wordID); err != nil {
		return err
	}
	now := s.now()
	created, err := s.progress.Create(ctx, userID, wordID, now)
	if err != nil {
		return err
	}
	if created {
		if err := s.aggregates.IncrementWordsSaved(ctx, userID, models.DayOf(now)); err != nil {
			s.log.Error("failed to update daily aggregate", "user_id", userID, "error", err)
		}
	}
	return nil
}

// RecordResult applies one quiz outcome to the user's progress for the word
// and returns the new bucket. A word not in the user's collection is reported
// to the caller and mutates nothing.
func (s *Service) RecordResult(ctx context.Context, userID, wordID int64, isCorrect bool) (models.Bucket, error) {
	progress, err := s.progress.GetByUserAndWord(ctx, userID, wordID)
	if err != nil {
		return "", err
	}

	newBucket := Apply(progress.Bucket, isCorrect)
	now := s.now()
	if err := s.progress.ApplyResult(ctx, userID, wordID, newBucket, isCorrect, now); err != nil {
		return "", err
	}
	if err := s.aggregates.IncrementWordsReviewed(ctx, userID, models.DayOf(now)); err != nil {
		s.log.Error("failed to update daily aggregate", "user_id", userID, "error", err)
	}
	return newBucket, nil
}

// SelectForQuiz returns up to maxWords of the user's saved words, highest
// review priority first.
func (s *Service) SelectForQuiz(ctx context.Context, userID int64, maxWords int) ([]models.QuizWord, error) {
	if maxWords <= 0 {
		maxWords = DefaultQuizSize
	}
	candidates, err := s.progress.GetQuizCandidates(ctx, userID)
	if err != nil {
		return nil, err
	}
	ranked := Rank(candidates)
	if len(ranked) > maxWords {
		ranked = ranked[:maxWords]
	}
	return ranked, nil
}

// CompleteQuiz bumps the day's quizzes_completed counter.
func (s *Service) CompleteQuiz(ctx context.Context, userID int64) error {
	return s.aggregates.IncrementQuizzesCompleted(ctx, userID, models.DayOf(s.now()))
}

// DailyStats returns the user's aggregate for the given day (YYYY-MM-DD).
func (s *Service) DailyStats(ctx context.Context, userID int64, day string) (*models.DailyAggregate, error) {
	if day == "" {
		day = models.DayOf(s.now())
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return nil, fmt.Errorf("day %q: %w", day, ErrInvalidDay)
	}
	return s.aggregates.GetByUserAndDay(ctx, userID, day)
}
