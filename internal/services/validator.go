package services

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"cvmatch/cv-matcher/internal/models"
)

const (
	expectedStrengths  = 4
	expectedWeaknesses = 5
)

// ResponseValidator parses the model's free-form reply into a typed
// AnalysisResult. The reply is treated as adversarial input: required
// keys, nested keys, types, and ranges are all checked before the
// result is constructed.
type ResponseValidator struct {
	logger *zap.Logger
}

func NewResponseValidator(logger *zap.Logger) *ResponseValidator {
	return &ResponseValidator{logger: logger}
}

func (v *ResponseValidator) Parse(raw string) (*models.AnalysisResult, error) {
	response := stripCodeFence(raw)

	decoder := json.NewDecoder(strings.NewReader(response))
	decoder.UseNumber()

	var data map[string]any
	if err := decoder.Decode(&data); err != nil {
		return nil, &ResponseFormatError{Message: "invalid JSON response from model", Err: err}
	}

	for _, field := range []string{"match_percentage", "strengths", "weaknesses", "summary"} {
		if _, ok := data[field]; !ok {
			return nil, &ResponseFormatError{Message: "missing required field: " + field}
		}
	}

	matchPercentage, err := parseMatchPercentage(data["match_percentage"])
	if err != nil {
		return nil, err
	}

	strengths, err := parseStrengths(data["strengths"])
	if err != nil {
		return nil, err
	}

	weaknesses, err := parseWeaknesses(data["weaknesses"])
	if err != nil {
		return nil, err
	}

	summary, ok := data["summary"].(string)
	if !ok {
		return nil, &ResponseFormatError{Message: "summary must be a string"}
	}

	// Cardinality drift is tolerated; the model occasionally ignores
	// the exact counts and the result is still usable.
	if len(strengths) != expectedStrengths {
		v.logger.Warn("unexpected strengths count",
			zap.Int("expected", expectedStrengths),
			zap.Int("got", len(strengths)),
		)
	}
	if len(weaknesses) != expectedWeaknesses {
		v.logger.Warn("unexpected weaknesses count",
			zap.Int("expected", expectedWeaknesses),
			zap.Int("got", len(weaknesses)),
		)
	}

	return &models.AnalysisResult{
		MatchPercentage: matchPercentage,
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		Summary:         summary,
	}, nil
}

// stripCodeFence removes a leading ```json (or bare ```) marker and a
// trailing ``` marker if the model wrapped its reply in a fence.
func stripCodeFence(raw string) string {
	response := strings.TrimSpace(raw)
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	return strings.TrimSpace(response)
}

func parseMatchPercentage(value any) (int, error) {
	number, ok := value.(json.Number)
	if !ok {
		return 0, &ResponseFormatError{Message: "match_percentage must be an integer between 0 and 100"}
	}

	percentage, err := number.Int64()
	if err != nil {
		return 0, &ResponseFormatError{Message: "match_percentage must be an integer between 0 and 100", Err: err}
	}
	if percentage < 0 || percentage > 100 {
		return 0, &ResponseFormatError{Message: "match_percentage must be an integer between 0 and 100"}
	}

	return int(percentage), nil
}

func parseStrengths(value any) ([]models.Strength, error) {
	entries, ok := value.([]any)
	if !ok {
		return nil, &ResponseFormatError{Message: "strengths must be a list"}
	}

	strengths := make([]models.Strength, 0, len(entries))
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, &ResponseFormatError{Message: "strength entries must be objects"}
		}

		title, ok := fields["title"].(string)
		if !ok {
			return nil, &ResponseFormatError{Message: "strength missing title"}
		}
		description, ok := fields["description"].(string)
		if !ok {
			return nil, &ResponseFormatError{Message: "strength missing description"}
		}

		strengths = append(strengths, models.Strength{
			Title:       title,
			Description: description,
		})
	}

	return strengths, nil
}

func parseWeaknesses(value any) ([]models.Weakness, error) {
	entries, ok := value.([]any)
	if !ok {
		return nil, &ResponseFormatError{Message: "weaknesses must be a list"}
	}

	weaknesses := make([]models.Weakness, 0, len(entries))
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, &ResponseFormatError{Message: "weakness entries must be objects"}
		}

		title, ok := fields["title"].(string)
		if !ok {
			return nil, &ResponseFormatError{Message: "weakness missing title"}
		}
		description, ok := fields["description"].(string)
		if !ok {
			return nil, &ResponseFormatError{Message: "weakness missing description"}
		}
		suggestion, ok := fields["suggestion"].(string)
		if !ok {
			return nil, &ResponseFormatError{Message: "weakness missing suggestion"}
		}

		weaknesses = append(weaknesses, models.Weakness{
			Title:       title,
			Description: description,
			Suggestion:  suggestion,
		})
	}

	return weaknesses, nil
}
