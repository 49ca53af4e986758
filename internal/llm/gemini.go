package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-1.5-pro-latest"

// GeminiGenerator generates text with Google's Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate sends prompt as a single user turn.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (Generation, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return Generation{}, fmt.Errorf("gemini generate: %w", err)
	}
	return generationFromResponse(resp), nil
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string {
	return g.model
}

// generationFromResponse treats a prompt-level block, a safety stop, and a
// response without text parts the same way: as blocked.
func generationFromResponse(resp *genai.GenerateContentResponse) Generation {
	if resp == nil {
		return Generation{Blocked: true, BlockReason: "empty response"}
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return Generation{Blocked: true, BlockReason: string(resp.PromptFeedback.BlockReason)}
	}
	if len(resp.Candidates) == 0 {
		return Generation{Blocked: true, BlockReason: "no candidates"}
	}

	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		reason := string(cand.FinishReason)
		if reason == "" {
			reason = "no parts"
		}
		return Generation{Blocked: true, BlockReason: reason}
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		reason := string(cand.FinishReason)
		if reason == "" {
			reason = "empty text"
		}
		return Generation{Blocked: true, BlockReason: reason}
	}
	return Generation{Text: text}
}
