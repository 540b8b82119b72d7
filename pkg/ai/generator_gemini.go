package ai

import (
	"context"
	"strings"
)

// GeminiGenerator binds a GeminiClient to one model so callers only deal
// with prompts.
type GeminiGenerator struct {
	client *GeminiClient
	model  string
}

const defaultGeminiModel = "gemini-2.0-flash"

// NewGeminiGenerator builds a Gemini-backed TextGenerator. An empty model
// falls back to the default.
func NewGeminiGenerator(client *GeminiClient, model string) *GeminiGenerator {
	if strings.TrimSpace(model) == "" {
		model = defaultGeminiModel
	}
	return &GeminiGenerator{client: client, model: model}
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return g.client.GenerateText(ctx, g.model, systemPrompt, userPrompt)
}
