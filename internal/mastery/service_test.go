package mastery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordweave/internal/database"
	"github.com/example/wordweave/pkg/models"
)

type progressKey struct {
	userID, wordID int64
}

type appliedResult struct {
	bucket  models.Bucket
	correct bool
}

type fakeProgressStore struct {
	rows       map[progressKey]*models.WordProgress
	applied    []appliedResult
	candidates []models.QuizWord
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{rows: make(map[progressKey]*models.WordProgress)}
}

func (f *fakeProgressStore) GetByUserAndWord(_ context.Context, userID, wordID int64) (*models.WordProgress, error) {
	row, ok := f.rows[progressKey{userID, wordID}]
	if !ok {
		return nil, fmt.Errorf("progress: %w", database.ErrNotFound)
	}
	return row, nil
}

func (f *fakeProgressStore) Create(_ context.Context, userID, wordID int64, now time.Time) (bool, error) {
	key := progressKey{userID, wordID}
	if _, ok := f.rows[key]; ok {
		return false, nil
	}
	f.rows[key] = &models.WordProgress{
		UserID: userID, WordID: wordID, Bucket: models.BucketNeedsWork,
		CreatedAt: now, UpdatedAt: now,
	}
	return true, nil
}

func (f *fakeProgressStore) ApplyResult(_ context.Context, userID, wordID int64, bucket models.Bucket, correct bool, now time.Time) error {
	row, ok := f.rows[progressKey{userID, wordID}]
	if !ok {
		return fmt.Errorf("progress: %w", database.ErrNotFound)
	}
	row.Bucket = bucket
	row.ReviewCount++
	if correct {
		row.CorrectCount++
	} else {
		row.IncorrectCount++
	}
	row.LastReviewedAt = &now
	row.UpdatedAt = now
	f.applied = append(f.applied, appliedResult{bucket, correct})
	return nil
}

func (f *fakeProgressStore) GetQuizCandidates(context.Context, int64) ([]models.QuizWord, error) {
	return f.candidates, nil
}

type fakeAggregateStore struct {
	saved, reviewed, completed map[string]int
	err                        error
}

func newFakeAggregateStore() *fakeAggregateStore {
	return &fakeAggregateStore{
		saved:     make(map[string]int),
		reviewed:  make(map[string]int),
		completed: make(map[string]int),
	}
}

func aggKey(userID int64, day string) string { return fmt.Sprintf("%d:%s", userID, day) }

func (f *fakeAggregateStore) IncrementWordsSaved(_ context.Context, userID int64, day string) error {
	if f.err != nil {
		return f.err
	}
	f.saved[aggKey(userID, day)]++
	return nil
}

func (f *fakeAggregateStore) IncrementWordsReviewed(_ context.Context, userID int64, day string) error {
	if f.err != nil {
		return f.err
	}
	f.reviewed[aggKey(userID, day)]++
	return nil
}

func (f *fakeAggregateStore) IncrementQuizzesCompleted(_ context.Context, userID int64, day string) error {
	if f.err != nil {
		return f.err
	}
	f.completed[aggKey(userID, day)]++
	return nil
}

func (f *fakeAggregateStore) GetByUserAndDay(_ context.Context, userID int64, day string) (*models.DailyAggregate, error) {
	key := aggKey(userID, day)
	return &models.DailyAggregate{
		UserID: userID, Day: day,
		WordsSaved: f.saved[key], WordsReviewed: f.reviewed[key], QuizzesCompleted: f.completed[key],
	}, nil
}

type fakeWordStore struct {
	words map[int64]*models.Word
}

func (f *fakeWordStore) GetByID(_ context.Context, id int64) (*models.Word, error) {
	word, ok := f.words[id]
	if !ok {
		return nil, fmt.Errorf("word %d: %w", id, database.ErrNotFound)
	}
	return word, nil
}

func newTestService(progress *fakeProgressStore, aggregates *fakeAggregateStore, wordIDs ...int64) *Service {
	words := &fakeWordStore{words: make(map[int64]*models.Word)}
	for _, id := range wordIDs {
		words.words[id] = &models.Word{ID: id, Word: fmt.Sprintf("word%d", id)}
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(progress, aggregates, words, log)
}

func TestSaveWordFirstSave(t *testing.T) {
	progress := newFakeProgressStore()
	aggregates := newFakeAggregateStore()
	s := newTestService(progress, aggregates, 7)

	require.NoError(t, s.SaveWord(context.Background(), 1, 7))

	row, err := progress.GetByUserAndWord(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, models.BucketNeedsWork, row.Bucket)
	assert.Equal(t, 1, aggregates.saved[aggKey(1, models.DayOf(time.Now()))])
}

func TestSaveWordDuplicateIsNoOp(t *testing.T) {
	progress := newFakeProgressStore()
	aggregates := newFakeAggregateStore()
	s := newTestService(progress, aggregates, 7)

	require.NoError(t, s.SaveWord(context.Background(), 1, 7))
	require.NoError(t, s.SaveWord(context.Background(), 1, 7))

	assert.Equal(t, 1, aggregates.saved[aggKey(1, models.DayOf(time.Now()))])
}

func TestSaveWordUnknownWord(t *testing.T) {
	progress := newFakeProgressStore()
	s := newTestService(progress, newFakeAggregateStore())

	err := s.SaveWord(context.Background(), 1, 99)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Empty(t, progress.rows)
}

func TestSaveWordAggregateFailureIsNonFatal(t *testing.T) {
	progress := newFakeProgressStore()
	aggregates := newFakeAggregateStore()
	aggregates.err = errors.New("aggregates down")
	s := newTestService(progress, aggregates, 7)

	assert.NoError(t, s.SaveWord(context.Background(), 1, 7))
	assert.Len(t, progress.rows, 1)
}

func TestRecordResultCorrectClimbs(t *testing.T) {
	progress := newFakeProgressStore()
	aggregates := newFakeAggregateStore()
	s := newTestService(progress, aggregates, 7)
	require.NoError(t, s.SaveWord(context.Background(), 1, 7))

	bucket, err := s.RecordResult(context.Background(), 1, 7, true)
	require.NoError(t, err)
	assert.Equal(t, models.BucketFamiliar, bucket)

	row, err := progress.GetByUserAndWord(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, row.ReviewCount)
	assert.Equal(t, 1, row.CorrectCount)
	assert.Equal(t, 0, row.IncorrectCount)
	assert.NotNil(t, row.LastReviewedAt)
	assert.Equal(t, 1, aggregates.reviewed[aggKey(1, models.DayOf(time.Now()))])
}

func TestRecordResultIncorrectDemotesFully(t *testing.T) {
	progress := newFakeProgressStore()
	s := newTestService(progress, newFakeAggregateStore(), 7)
	require.NoError(t, s.SaveWord(context.Background(), 1, 7))
	progress.rows[progressKey{1, 7}].Bucket = models.BucketMastered

	bucket, err := s.RecordResult(context.Background(), 1, 7, false)
	require.NoError(t, err)
	assert.Equal(t, models.BucketNeedsWork, bucket)
}

func TestRecordResultCountsStayConsistent(t *testing.T) {
	progress := newFakeProgressStore()
	s := newTestService(progress, newFakeAggregateStore(), 7)
	require.NoError(t, s.SaveWord(context.Background(), 1, 7))

	outcomes := []bool{true, true, false, true, false}
	for _, correct := range outcomes {
		_, err := s.RecordResult(context.Background(), 1, 7, correct)
		require.NoError(t, err)
	}

	row, err := progress.GetByUserAndWord(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, len(outcomes), row.ReviewCount)
	assert.Equal(t, row.ReviewCount, row.CorrectCount+row.IncorrectCount)
}

func TestRecordResultUnknownWordMutatesNothing(t *testing.T) {
	progress := newFakeProgressStore()
	aggregates := newFakeAggregateStore()
	s := newTestService(progress, aggregates, 7)

	_, err := s.RecordResult(context.Background(), 1, 7, true)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Empty(t, progress.applied)
	assert.Empty(t, aggregates.reviewed)
}

func TestSelectForQuizLimitsAndRanks(t *testing.T) {
	progress := newFakeProgressStore()
	now := time.Now()
	progress.candidates = []models.QuizWord{
		{WordID: 1, Bucket: models.BucketMastered, LastReviewedAt: &now},
		{WordID: 2, Bucket: models.BucketNeedsWork, LastReviewedAt: &now},
		{WordID: 3, Bucket: models.BucketFamiliar, LastReviewedAt: &now},
		{WordID: 4, Bucket: models.BucketNeedsWork},
	}
	s := newTestService(progress, newFakeAggregateStore())

	words, err := s.SelectForQuiz(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, int64(4), words[0].WordID)
	assert.Equal(t, int64(2), words[1].WordID)
}

func TestSelectForQuizDefaultSize(t *testing.T) {
	progress := newFakeProgressStore()
	for i := int64(1); i <= 15; i++ {
		progress.candidates = append(progress.candidates, models.QuizWord{
			WordID: i, Bucket: models.BucketNeedsWork,
		})
	}
	s := newTestService(progress, newFakeAggregateStore())

	words, err := s.SelectForQuiz(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, words, DefaultQuizSize)
}

func TestCompleteQuiz(t *testing.T) {
	aggregates := newFakeAggregateStore()
	s := newTestService(newFakeProgressStore(), aggregates)

	require.NoError(t, s.CompleteQuiz(context.Background(), 1))
	require.NoError(t, s.CompleteQuiz(context.Background(), 1))

	assert.Equal(t, 2, aggregates.completed[aggKey(1, models.DayOf(time.Now()))])
}

func TestDailyStatsInvalidDay(t *testing.T) {
	s := newTestService(newFakeProgressStore(), newFakeAggregateStore())

	_, err := s.DailyStats(context.Background(), 1, "31-12-2026")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestDailyStatsDefaultsToToday(t *testing.T) {
	aggregates := newFakeAggregateStore()
	s := newTestService(newFakeProgressStore(), aggregates)
	fixed := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	aggregates.saved[aggKey(1, "2026-08-31")] = 3

	stats, err := s.DailyStats(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", stats.Day)
	assert.Equal(t, 3, stats.WordsSaved)
}
