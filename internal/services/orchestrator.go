package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// ChatCompleter issues one chat-style completion call against a model
// endpoint: a system message, a user message, and a model identifier.
type ChatCompleter interface {
	Complete(ctx context.Context, model, system, user string) (string, error)
}

const analysisSystemMessage = "You are an expert HR analyst. Provide responses in valid JSON format only."

// Substrings that mark a model identifier as unavailable at the
// endpoint. Anything else is a hard failure.
var unavailableMarkers = []string{"unavailable model", "unavailable_model", "unknown model"}

func isModelUnavailable(err error) bool {
	text := strings.ToLower(err.Error())
	for _, marker := range unavailableMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// Orchestrator submits a prompt to an ordered list of candidate model
// identifiers. Candidates are tried strictly in order; an unavailable
// model advances the cascade, any other failure aborts it.
//
// The last identifier that succeeded is kept as an advisory hint: it
// is promoted to the front of the attempt order for future requests.
// The hint is racy across concurrent requests and that is fine; a
// stale value only reorders attempts, it never changes results.
type Orchestrator struct {
	client     ChatCompleter
	candidates []string
	logger     *zap.Logger
	lastGood   atomic.Value // string
}

func NewOrchestrator(client ChatCompleter, candidates []string, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		client:     client,
		candidates: candidates,
		logger:     logger,
	}
}

// LastSuccessfulModel returns the most recent identifier that produced
// a response, or "" if none has yet.
func (o *Orchestrator) LastSuccessfulModel() string {
	if v, ok := o.lastGood.Load().(string); ok {
		return v
	}
	return ""
}

func (o *Orchestrator) attemptOrder() []string {
	hint := o.LastSuccessfulModel()
	if hint == "" {
		return o.candidates
	}

	order := make([]string, 0, len(o.candidates))
	for _, model := range o.candidates {
		if model == hint {
			order = append([]string{model}, order...)
			continue
		}
		order = append(order, model)
	}
	return order
}

// Complete runs the candidate cascade for the given prompt and returns
// the first successful model reply.
func (o *Orchestrator) Complete(ctx context.Context, prompt string) (string, error) {
	if len(o.candidates) == 0 {
		return "", fmt.Errorf("no candidate models configured")
	}

	var lastSoft error
	attempted := make([]string, 0, len(o.candidates))

	for _, model := range o.attemptOrder() {
		attempted = append(attempted, model)

		content, err := o.client.Complete(ctx, model, analysisSystemMessage, prompt)
		if err != nil {
			if isModelUnavailable(err) {
				o.logger.Warn("model unavailable, trying next candidate",
					zap.String("model", model),
					zap.Error(err),
				)
				lastSoft = &ModelUnavailableError{Model: model, Err: err}
				continue
			}
			return "", fmt.Errorf("model call failed for %s: %w", model, err)
		}

		if strings.TrimSpace(content) == "" {
			return "", fmt.Errorf("empty response from model %s", model)
		}

		o.lastGood.Store(model)
		o.logger.Debug("model call succeeded",
			zap.String("model", model),
			zap.Int("response_length", len(content)),
		)
		return content, nil
	}

	return "", fmt.Errorf("none of the candidate models are available (tried: %s): %w",
		strings.Join(attempted, ", "), lastSoft)
}
