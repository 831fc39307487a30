package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCandidatesOverride(t *testing.T) {
	candidates := resolveCandidates("openai/gpt-5", " openai/gpt-4o-mini , openai/gpt-4o ,,")

	assert.Equal(t, []string{"openai/gpt-4o-mini", "openai/gpt-4o"}, candidates)
}

func TestResolveCandidatesDefaults(t *testing.T) {
	candidates := resolveCandidates("openai/gpt-5", "")

	assert.Equal(t, []string{"openai/gpt-5", "openai/gpt-4o-mini", "openai/gpt-4o"}, candidates)
}
