package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt renders the candidate corpus and the job
// description into the analysis instruction prompt. Pure function: no
// side effects, no state.
func (pb *PromptBuilder) BuildAnalysisPrompt(corpus, jobDescription string) string {
	return fmt.Sprintf(`You are an expert HR analyst specializing in CV evaluation. Analyze the following CV against the job description and provide a detailed assessment.

JOB DESCRIPTION:
%s

CV CONTENT:
%s

Please analyze the CV and provide a response in the following JSON format:

{
    "match_percentage": <integer between 0-100>,
    "strengths": [
        {
            "title": "<strength title>",
            "description": "<detailed explanation of why this is a strength>"
        }
    ],
    "weaknesses": [
        {
            "title": "<weakness title>",
            "description": "<explanation of the weakness>",
            "suggestion": "<specific actionable suggestion for improvement>"
        }
    ],
    "summary": "<overall assessment summary in 2-3 sentences>"
}

ANALYSIS CRITERIA:
1. Technical skills alignment (35%% weight)
2. Experience level and relevance (25%% weight)
3. Education and certifications (20%% weight)
4. Soft skills and cultural fit (15%% weight)
5. Additional qualifications and achievements (5%% weight)

REQUIREMENTS:
- Provide exactly 4 strengths
- Provide exactly 5 weaknesses
- Match percentage should be realistic and justified
- Strengths should highlight the best matching aspects
- Weaknesses should focus on gaps that matter most for this role
- Suggestions should be specific and actionable
- Consider both explicit matches and transferable skills
- Account for experience level expectations vs. actual experience

Return ONLY the JSON response, no additional text.`,
		jobDescription, corpus)
}
