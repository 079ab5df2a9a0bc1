// Package importer bulk-loads vocabulary words from Excel or CSV files.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/wordweave/internal/database"
	"github.com/example/wordweave/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	WordColumn        string // Column with the word
	TranslationColumn string // Column with the translation
	DefinitionColumn  string // Column with the definition
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:        "A",
		TranslationColumn: "B",
		DefinitionColumn:  "C",
		SheetName:         "Sheet1",
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	Created        int      `json:"created"`
	Updated        int      `json:"updated"`
	Errors         []string `json:"errors"`
}

// Importer upserts words from spreadsheet files into the word repository.
type Importer struct {
	words *database.WordRepository
}

// New creates a new importer instance
func New(words *database.WordRepository) *Importer {
	return &Importer{words: words}
}

// ImportWords imports words from an Excel or CSV file, upserting by word text.
func (im *Importer) ImportWords(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return im.importFromCSV(ctx, config)
	}
	return im.importFromExcel(ctx, config)
}

// importFromExcel imports words from an Excel file
func (im *Importer) importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		var word, translation, definition string
		if colIdx := columnToIndex(config.WordColumn); colIdx < len(row) {
			word = row[colIdx]
		}
		if colIdx := columnToIndex(config.TranslationColumn); colIdx < len(row) {
			translation = row[colIdx]
		}
		if colIdx := columnToIndex(config.DefinitionColumn); colIdx < len(row) {
			definition = row[colIdx]
		}

		if err := im.upsertWord(ctx, word, translation, definition, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}
	return result, nil
}

// importFromCSV imports words from a CSV file with word,translation,definition columns
func (im *Importer) importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	result := &ImportResult{Errors: make([]string, 0)}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++

		var word, translation, definition string
		if len(row) > 0 {
			word = row[0]
		}
		if len(row) > 1 {
			translation = row[1]
		}
		if len(row) > 2 {
			definition = row[2]
		}

		if err := im.upsertWord(ctx, word, translation, definition, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}
	return result, nil
}

// upsertWord creates the word or updates an existing one with the same text.
func (im *Importer) upsertWord(ctx context.Context, word, translation, definition string, result *ImportResult) error {
	word = strings.TrimSpace(word)
	translation = strings.TrimSpace(translation)
	definition = strings.TrimSpace(definition)

	if word == "" {
		return fmt.Errorf("word cannot be empty")
	}
	if translation == "" {
		return fmt.Errorf("translation cannot be empty")
	}

	existing, err := im.words.GetByWord(ctx, word)
	switch {
	case err == nil:
		existing.Translation = translation
		existing.Definition = definition
		if err := im.words.Update(ctx, existing); err != nil {
			return fmt.Errorf("failed to update word: %w", err)
		}
		result.Updated++
	case errors.Is(err, database.ErrNotFound):
		newWord := &models.Word{Word: word, Translation: translation, Definition: definition}
		if err := im.words.Create(ctx, newWord); err != nil {
			return fmt.Errorf("failed to create word: %w", err)
		}
		result.Created++
	default:
		return err
	}
	return nil
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
