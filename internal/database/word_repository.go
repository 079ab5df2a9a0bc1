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

// WordRepository handles database operations for words
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// GetAll returns all words
func (r *WordRepository) GetAll(ctx context.Context) ([]models.Word, error) {
	var words []models.Word
	err := r.db.SelectContext(ctx, &words, "SELECT * FROM words ORDER BY word")
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	return words, nil
}

// GetByID returns a word by ID
func (r *WordRepository) GetByID(ctx context.Context, id int64) (*models.Word, error) {
	var word models.Word
	err := r.db.GetContext(ctx, &word, r.db.Rebind("SELECT * FROM words WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("word %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word by ID: %w", err)
	}
	return &word, nil
}

// GetByIDs returns the words matching the given IDs, in no particular order.
// IDs with no matching row are silently absent from the result; callers that
// need all-or-nothing semantics compare lengths.
func (r *WordRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Word, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT * FROM words WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	var words []models.Word
	err = r.db.SelectContext(ctx, &words, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get words by IDs: %w", err)
	}
	return words, nil
}

// GetByWord returns a word by its exact text
func (r *WordRepository) GetByWord(ctx context.Context, text string) (*models.Word, error) {
	var word models.Word
	err := r.db.GetContext(ctx, &word, r.db.Rebind("SELECT * FROM words WHERE word = ?"), text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("word %q: %w", text, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word by text: %w", err)
	}
	return &word, nil
}

// Create inserts a new word
func (r *WordRepository) Create(ctx context.Context, word *models.Word) error {
	now := time.Now()
	word.CreatedAt = now
	word.UpdatedAt = now

	if r.db.DriverName() == "postgres" {
		query := `
			INSERT INTO words (word, translation, definition, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		return r.db.QueryRowContext(ctx, query,
			word.Word, word.Translation, word.Definition, word.CreatedAt, word.UpdatedAt,
		).Scan(&word.ID)
	}

	// SQLite path without RETURNING
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO words (word, translation, definition, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, word.Word, word.Translation, word.Definition, word.CreatedAt, word.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create word: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	word.ID = id
	return nil
}

// Update modifies an existing word
func (r *WordRepository) Update(ctx context.Context, word *models.Word) error {
	word.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE words SET word = ?, translation = ?, definition = ?, updated_at = ?
		WHERE id = ?
	`), word.Word, word.Translation, word.Definition, word.UpdatedAt, word.ID)
	if err != nil {
		return fmt.Errorf("failed to update word: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("word %d: %w", word.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a word
func (r *WordRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM words WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("word %d: %w", id, ErrNotFound)
	}
	return nil
}

// Search returns words matching the pattern in either the word or its translation
func (r *WordRepository) Search(ctx context.Context, query string) ([]models.Word, error) {
	pattern := "%" + query + "%"
	var words []models.Word
	err := r.db.SelectContext(ctx, &words, r.db.Rebind(`
		SELECT * FROM words
		WHERE LOWER(word) LIKE LOWER(?) OR LOWER(translation) LIKE LOWER(?)
		ORDER BY word
	`), pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search words: %w", err)
	}
	return words, nil
}
