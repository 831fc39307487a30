package services

import "fmt"

// ValidationError reports structurally invalid caller input: missing
// sources, unsupported file extensions, or an empty aggregated corpus.
// It is surfaced to the caller verbatim and never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ExtractionError reports a document payload that could not be decoded.
type ExtractionError struct {
	Format DocumentFormat
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s text: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ModelUnavailableError marks a soft failure in the candidate cascade:
// the model identifier was rejected by the endpoint, so the next
// candidate should be tried.
type ModelUnavailableError struct {
	Model string
	Err   error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model %s unavailable: %v", e.Model, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Err
}

// ResponseFormatError reports a model reply that failed schema or
// range validation. It indicates an upstream contract violation, not
// a caller mistake.
type ResponseFormatError struct {
	Message string
	Err     error
}

func (e *ResponseFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}
