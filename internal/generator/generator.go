// Package generator produces short fill-in-the-blank articles from a set of
// vocabulary words, either through an external generative provider or through
// a deterministic local fallback.
package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/wordweave/pkg/models"
)

// BlankMarker is the placeholder token indicating where a vocabulary word
// belongs. A well-formed article contains exactly one marker per word.
const BlankMarker = "____"

// TextGenerator produces an article for the given word set.
type TextGenerator interface {
	Generate(ctx context.Context, words []models.Word) (string, error)
}

// CountBlanks returns the number of blank markers in text.
func CountBlanks(text string) int {
	return strings.Count(text, BlankMarker)
}

// BuildPrompt constructs the generation prompt. It enumerates each word with
// its definition and requires exactly one blank marker per word.
func BuildPrompt(words []models.Word) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short, simple article (3-5 sentences) for a language learner that naturally uses each of the following %d words exactly once:\n\n", len(words))
	for i, w := range words {
		meaning := w.Definition
		if meaning == "" {
			meaning = w.Translation
		}
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, w.Word, meaning)
	}
	fmt.Fprintf(&b, "\nThen replace every occurrence of each listed word with the blank marker %q, so the article contains exactly %d blanks. Return only the article text, no explanations.", BlankMarker, len(words))
	return b.String()
}
