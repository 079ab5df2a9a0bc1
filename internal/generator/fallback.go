package generator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/example/wordweave/pkg/models"
)

// FallbackGenerator synthesizes a deterministic, cost-free article locally.
// It is used when the external provider is unavailable or fails, and always
// produces exactly one blank marker per word.
type FallbackGenerator struct{}

// NewFallback creates a new fallback generator.
func NewFallback() *FallbackGenerator {
	return &FallbackGenerator{}
}

// Generate never fails and is deterministic for a given word set.
func (g *FallbackGenerator) Generate(_ context.Context, words []models.Word) (string, error) {
	sorted := make([]models.Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Word < sorted[j].Word })

	var b strings.Builder
	fmt.Fprintf(&b, "Time for a quick practice round with %d words.\n", len(sorted))
	for i, w := range sorted {
		meaning := w.Definition
		if meaning == "" {
			meaning = w.Translation
		}
		fmt.Fprintf(&b, "%d. The missing word means %q. Fill in the gap: \"I remembered %s right away.\"\n",
			i+1, meaning, BlankMarker)
	}
	return strings.TrimSpace(b.String()), nil
}
