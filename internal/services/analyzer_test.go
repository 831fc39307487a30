package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRunner struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubRunner) Complete(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestAnalyzeSuccess(t *testing.T) {
	stub := &stubRunner{response: "```json\n" + validAnalysisJSON + "\n```"}
	analyzer := NewAnalyzerService(stub, zap.NewNop(), false)

	result, err := analyzer.Analyze(context.Background(), "CV Document:\nGo engineer", "Senior Go role")

	require.NoError(t, err)
	assert.Equal(t, 78, result.MatchPercentage)
	assert.Len(t, result.Strengths, 4)
	assert.Len(t, result.Weaknesses, 5)
	assert.True(t, strings.Contains(stub.lastPrompt, "Senior Go role"))
	assert.True(t, strings.Contains(stub.lastPrompt, "Go engineer"))
}

func TestAnalyzeSurfacesModelFailure(t *testing.T) {
	stub := &stubRunner{err: errors.New("rate limit exceeded")}
	analyzer := NewAnalyzerService(stub, zap.NewNop(), false)

	result, err := analyzer.Analyze(context.Background(), "corpus", "job")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestAnalyzeSurfacesFormatError(t *testing.T) {
	stub := &stubRunner{response: "not json at all"}
	analyzer := NewAnalyzerService(stub, zap.NewNop(), false)

	_, err := analyzer.Analyze(context.Background(), "corpus", "job")

	var formatErr *ResponseFormatError
	require.Error(t, err)
	assert.True(t, errors.As(err, &formatErr))
}

func TestAnalyzeHeuristicFallback(t *testing.T) {
	stub := &stubRunner{err: errors.New("endpoint unreachable")}
	analyzer := NewAnalyzerService(stub, zap.NewNop(), true)

	result, err := analyzer.Analyze(context.Background(),
		"Go engineer with kubernetes and postgres experience",
		"Looking for a Go engineer with kubernetes experience")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.GreaterOrEqual(t, result.MatchPercentage, 0)
	assert.LessOrEqual(t, result.MatchPercentage, 100)
	assert.Len(t, result.Strengths, 4)
	assert.Len(t, result.Weaknesses, 5)
	assert.NotEmpty(t, result.Summary)
}

func TestHeuristicFallbackDoesNotMaskFormatErrors(t *testing.T) {
	// The fallback covers model-path failures only; a malformed reply
	// from a reachable model is still a contract violation.
	stub := &stubRunner{response: "not json at all"}
	analyzer := NewAnalyzerService(stub, zap.NewNop(), true)

	_, err := analyzer.Analyze(context.Background(), "corpus", "job")

	var formatErr *ResponseFormatError
	require.Error(t, err)
	assert.True(t, errors.As(err, &formatErr))
}

func TestHeuristicMatchPercentageCapped(t *testing.T) {
	stub := &stubRunner{err: errors.New("down")}
	analyzer := NewAnalyzerService(stub, zap.NewNop(), true).(*analyzerService)

	words := make([]string, 80)
	for i := range words {
		words[i] = strings.Repeat("w", i+1)
	}
	shared := strings.Join(words, " ")

	result := analyzer.heuristicAnalysis(shared, shared)

	assert.Equal(t, 100, result.MatchPercentage)
}
