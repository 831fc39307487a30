package models

// Strength is one aspect of the candidate that matches the job well.
type Strength struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Weakness is one gap between the candidate and the job, with an
// actionable suggestion for closing it.
type Weakness struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// AnalysisResult is the terminal artifact of an analysis request.
// MatchPercentage is always within [0, 100].
type AnalysisResult struct {
	MatchPercentage int        `json:"match_percentage"`
	Strengths       []Strength `json:"strengths"`
	Weaknesses      []Weakness `json:"weaknesses"`
	Summary         string     `json:"summary"`
}
