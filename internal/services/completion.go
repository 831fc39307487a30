package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/genai"
)

// openAIClient talks to any chat-completions endpoint (GitHub Models,
// OpenAI, or compatible) with a bearer credential.
type openAIClient struct {
	llm *openai.LLM
}

func NewOpenAIClient(endpoint, token, defaultModel string) (ChatCompleter, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("model API key is required")
	}

	llm, err := openai.New(
		openai.WithBaseURL(endpoint),
		openai.WithToken(token),
		openai.WithModel(defaultModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	return &openAIClient{llm: llm}, nil
}

func (c *openAIClient) Complete(ctx context.Context, model, system, user string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}

	resp, err := c.llm.GenerateContent(ctx, content, llms.WithModel(model))
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from model endpoint")
	}

	return resp.Choices[0].Content, nil
}

// geminiClient is the alternate backend for deployments using the
// Gemini API instead of a chat-completions endpoint.
type geminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (ChatCompleter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("model API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiClient{client: client}, nil
}

func (g *geminiClient) Complete(ctx context.Context, model, system, user string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(user), config)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated")
	}

	return resp.Text(), nil
}
