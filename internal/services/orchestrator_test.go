package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubCompleter scripts per-model outcomes and records the attempt order.
type stubCompleter struct {
	responses map[string]string
	failures  map[string]error
	calls     []string
}

func (s *stubCompleter) Complete(_ context.Context, model, _, _ string) (string, error) {
	s.calls = append(s.calls, model)
	if err, ok := s.failures[model]; ok {
		return "", err
	}
	return s.responses[model], nil
}

func unavailable(model string) error {
	return fmt.Errorf("unavailable_model: %s is not served by this endpoint", model)
}

func TestCascadeFallsBackOnUnavailableModels(t *testing.T) {
	stub := &stubCompleter{
		responses: map[string]string{"model-c": `{"done": true}`},
		failures: map[string]error{
			"model-a": unavailable("model-a"),
			"model-b": errors.New("Unknown model requested"),
		},
	}
	orchestrator := NewOrchestrator(stub, []string{"model-a", "model-b", "model-c"}, zap.NewNop())

	content, err := orchestrator.Complete(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, `{"done": true}`, content)
	assert.Equal(t, []string{"model-a", "model-b", "model-c"}, stub.calls)
	assert.Equal(t, "model-c", orchestrator.LastSuccessfulModel())
}

func TestCascadeAllCandidatesUnavailable(t *testing.T) {
	stub := &stubCompleter{
		failures: map[string]error{
			"model-a": unavailable("model-a"),
			"model-b": unavailable("model-b"),
			"model-c": unavailable("model-c"),
		},
	}
	orchestrator := NewOrchestrator(stub, []string{"model-a", "model-b", "model-c"}, zap.NewNop())

	content, err := orchestrator.Complete(context.Background(), "prompt")

	require.Error(t, err)
	assert.Empty(t, content)
	for _, model := range []string{"model-a", "model-b", "model-c"} {
		assert.Contains(t, err.Error(), model)
	}

	var unavailableErr *ModelUnavailableError
	assert.True(t, errors.As(err, &unavailableErr))
	assert.Equal(t, "model-c", unavailableErr.Model)
	assert.Empty(t, orchestrator.LastSuccessfulModel())
}

func TestCascadeHardFailureAborts(t *testing.T) {
	stub := &stubCompleter{
		failures: map[string]error{
			"model-a": errors.New("rate limit exceeded"),
		},
		responses: map[string]string{"model-b": "never reached"},
	}
	orchestrator := NewOrchestrator(stub, []string{"model-a", "model-b"}, zap.NewNop())

	_, err := orchestrator.Complete(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model-a")
	assert.Contains(t, err.Error(), "rate limit exceeded")
	assert.Equal(t, []string{"model-a"}, stub.calls, "remaining candidates must not be tried after a hard failure")
}

func TestCascadeEmptyResponseIsHardFailure(t *testing.T) {
	stub := &stubCompleter{
		responses: map[string]string{"model-a": "  ", "model-b": "usable"},
	}
	orchestrator := NewOrchestrator(stub, []string{"model-a", "model-b"}, zap.NewNop())

	_, err := orchestrator.Complete(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
	assert.Equal(t, []string{"model-a"}, stub.calls)
	assert.Empty(t, orchestrator.LastSuccessfulModel())
}

func TestCascadePromotesLastSuccessfulModel(t *testing.T) {
	stub := &stubCompleter{
		responses: map[string]string{"model-b": "ok"},
		failures:  map[string]error{"model-a": unavailable("model-a")},
	}
	orchestrator := NewOrchestrator(stub, []string{"model-a", "model-b"}, zap.NewNop())

	_, err := orchestrator.Complete(context.Background(), "prompt")
	require.NoError(t, err)

	_, err = orchestrator.Complete(context.Background(), "prompt")
	require.NoError(t, err)

	// Second request starts from the hint instead of retrying model-a.
	assert.Equal(t, []string{"model-a", "model-b", "model-b"}, stub.calls)
}

func TestCascadeNoCandidates(t *testing.T) {
	orchestrator := NewOrchestrator(&stubCompleter{}, nil, zap.NewNop())

	_, err := orchestrator.Complete(context.Background(), "prompt")

	require.Error(t, err)
}

func TestIsModelUnavailable(t *testing.T) {
	assert.True(t, isModelUnavailable(errors.New("Unavailable Model: foo")))
	assert.True(t, isModelUnavailable(errors.New("status 400: unavailable_model")))
	assert.True(t, isModelUnavailable(errors.New("unknown model 'bar'")))
	assert.False(t, isModelUnavailable(errors.New("context deadline exceeded")))
	assert.False(t, isModelUnavailable(errors.New("401 unauthorized")))
}
