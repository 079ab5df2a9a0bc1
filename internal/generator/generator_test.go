package generator

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordweave/pkg/models"
)

func TestCountBlanks(t *testing.T) {
	assert.Equal(t, 0, CountBlanks("no blanks here"))
	assert.Equal(t, 2, CountBlanks("one ____ and another ____."))
	assert.Equal(t, 1, CountBlanks(BlankMarker))
}

func TestBuildPromptListsEveryWord(t *testing.T) {
	words := []models.Word{
		{ID: 1, Word: "serendipity", Definition: "a happy accident"},
		{ID: 2, Word: "apfel", Translation: "apple"},
	}

	prompt := BuildPrompt(words)

	assert.Contains(t, prompt, "serendipity")
	assert.Contains(t, prompt, "a happy accident")
	// Translation stands in when the definition is missing.
	assert.Contains(t, prompt, "apple")
	assert.Contains(t, prompt, strconv.Itoa(len(words)))
	assert.Contains(t, prompt, BlankMarker)
}

func TestFallbackOneBlankPerWord(t *testing.T) {
	words := []models.Word{
		{ID: 1, Word: "gamma", Translation: "g"},
		{ID: 2, Word: "alpha", Translation: "a"},
		{ID: 3, Word: "beta", Translation: "b"},
	}

	text, err := NewFallback().Generate(context.Background(), words)
	require.NoError(t, err)
	assert.Equal(t, len(words), CountBlanks(text))
}

func TestFallbackDeterministicAcrossPermutations(t *testing.T) {
	a := []models.Word{{ID: 1, Word: "gamma"}, {ID: 2, Word: "alpha"}}
	b := []models.Word{{ID: 2, Word: "alpha"}, {ID: 1, Word: "gamma"}}

	textA, err := NewFallback().Generate(context.Background(), a)
	require.NoError(t, err)
	textB, err := NewFallback().Generate(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, textA, textB)
}

func TestFallbackDoesNotLeakWordText(t *testing.T) {
	words := []models.Word{{ID: 1, Word: "xylophone", Translation: "instrument"}}

	text, err := NewFallback().Generate(context.Background(), words)
	require.NoError(t, err)
	assert.False(t, strings.Contains(text, "xylophone"))
}
