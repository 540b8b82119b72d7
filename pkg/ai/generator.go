package ai

import "context"

// TextGenerator produces text from a system preamble and a user prompt.
// Both supported providers (Gemini, OpenAI-compatible) implement this.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
