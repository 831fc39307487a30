package services

import (
	"fmt"
	"strings"
)

// LabeledText is one cleaned extraction output tagged with the source
// it came from ("CV Document", "LinkedIn Profile").
type LabeledText struct {
	Label string
	Text  string
}

const sourceSeparator = "\n\n---\n\n"

// CombineSources merges the labeled sources into the analysis corpus.
// Entries that are empty after trimming are skipped; if nothing
// usable remains, the pipeline must stop before invoking the model.
func CombineSources(sources []LabeledText) (string, error) {
	parts := make([]string, 0, len(sources))
	for _, src := range sources {
		if strings.TrimSpace(src.Text) == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:\n%s", src.Label, src.Text))
	}

	if len(parts) == 0 {
		return "", NewValidationError("could not extract text from the provided inputs")
	}

	return strings.Join(parts, sourceSeparator), nil
}
