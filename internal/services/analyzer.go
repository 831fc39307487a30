package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cvmatch/cv-matcher/internal/models"
)

type promptRunner interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type AnalyzerService interface {
	Analyze(ctx context.Context, corpus, jobDescription string) (*models.AnalysisResult, error)
}

type analyzerService struct {
	promptBuilder     *PromptBuilder
	runner            promptRunner
	validator         *ResponseValidator
	heuristicFallback bool
	logger            *zap.Logger
}

// NewAnalyzerService wires prompt building, the model cascade, and
// response validation into the analysis step of the pipeline. With
// heuristicFallback enabled, a failed model path degrades to
// keyword-overlap scoring instead of surfacing the error.
func NewAnalyzerService(runner promptRunner, logger *zap.Logger, heuristicFallback bool) AnalyzerService {
	return &analyzerService{
		promptBuilder:     NewPromptBuilder(),
		runner:            runner,
		validator:         NewResponseValidator(logger),
		heuristicFallback: heuristicFallback,
		logger:            logger,
	}
}

func (a *analyzerService) Analyze(ctx context.Context, corpus, jobDescription string) (*models.AnalysisResult, error) {
	prompt := a.promptBuilder.BuildAnalysisPrompt(corpus, jobDescription)
	a.logger.Debug("analysis prompt built", zap.Int("prompt_length", len(prompt)))

	raw, err := a.runner.Complete(ctx, prompt)
	if err != nil {
		if a.heuristicFallback {
			a.logger.Warn("model analysis failed, degrading to keyword-overlap fallback", zap.Error(err))
			return a.heuristicAnalysis(corpus, jobDescription), nil
		}
		return nil, fmt.Errorf("cv analysis failed: %w", err)
	}

	result, err := a.validator.Parse(raw)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// heuristicAnalysis scores the candidate by plain word overlap between
// corpus and job description. It produces a usable but shallow result
// when the model path is unavailable.
func (a *analyzerService) heuristicAnalysis(corpus, jobDescription string) *models.AnalysisResult {
	corpusWords := wordSet(corpus)
	jobWords := wordSet(jobDescription)

	common := 0
	for word := range jobWords {
		if _, ok := corpusWords[word]; ok {
			common++
		}
	}

	matchPercentage := common * 2
	if matchPercentage > 100 {
		matchPercentage = 100
	}

	return &models.AnalysisResult{
		MatchPercentage: matchPercentage,
		Strengths: []models.Strength{
			{Title: "Basic Match Found", Description: "Some keywords match between the candidate text and job description"},
			{Title: "Document Processed", Description: "Candidate text was successfully processed and analyzed"},
			{Title: "Format Compatible", Description: "The provided sources are supported by the system"},
			{Title: "Content Available", Description: "The candidate text contains readable content"},
		},
		Weaknesses: []models.Weakness{
			{Title: "Detailed Analysis Unavailable", Description: "Full AI analysis could not be completed", Suggestion: "Try again later or check your connection"},
			{Title: "Limited Matching", Description: "Only basic keyword matching was performed", Suggestion: "Ensure your CV contains relevant keywords"},
			{Title: "No Skill Analysis", Description: "Technical skills could not be properly analyzed", Suggestion: "List your technical skills clearly"},
			{Title: "No Experience Evaluation", Description: "Work experience could not be evaluated", Suggestion: "Include detailed work history"},
			{Title: "No Education Assessment", Description: "Educational background was not assessed", Suggestion: "Include education and certifications"},
		},
		Summary: "Basic analysis completed with limited functionality. Full AI analysis was not available.",
	}
}

func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}
