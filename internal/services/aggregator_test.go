package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineSources(t *testing.T) {
	corpus, err := CombineSources([]LabeledText{
		{Label: "CV Document", Text: "Go engineer with seven years of experience."},
		{Label: "LinkedIn Profile", Text: "Title: Jane Doe"},
	})

	require.NoError(t, err)
	assert.Equal(t,
		"CV Document:\nGo engineer with seven years of experience.\n\n---\n\nLinkedIn Profile:\nTitle: Jane Doe",
		corpus)
}

func TestCombineSourcesSkipsEmptyEntries(t *testing.T) {
	corpus, err := CombineSources([]LabeledText{
		{Label: "CV Document", Text: "   \n\t "},
		{Label: "LinkedIn Profile", Text: "usable text"},
	})

	require.NoError(t, err)
	assert.Equal(t, "LinkedIn Profile:\nusable text", corpus)
}

func TestCombineSourcesFailsWithNoUsableText(t *testing.T) {
	cases := map[string][]LabeledText{
		"nil":        nil,
		"empty":      {},
		"whitespace": {{Label: "CV Document", Text: "  "}},
	}

	for name, sources := range cases {
		t.Run(name, func(t *testing.T) {
			corpus, err := CombineSources(sources)

			var validationErr *ValidationError
			require.Error(t, err)
			assert.True(t, errors.As(err, &validationErr))
			assert.Empty(t, corpus)
		})
	}
}
