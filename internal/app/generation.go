package app

import (
	"context"
	"log/slog"
	"strings"
)

// degradedResponseText stands in for the model output whenever the
// generation service fails. It contains no JSON array, so the parser
// yields nothing and the deterministic fallback takes over; a generation
// outage can never fail the roadmap pipeline on its own.
const degradedResponseText = "I'm sorry, I'm having trouble processing your request right now. Please try again later."

// Completion is the outcome of a text-generation call. Degraded marks the
// apology placeholder substituted on failure, so callers and tests can
// tell genuine model output from the fail-soft path.
type Completion struct {
	Text     string
	Degraded bool
}

// complete calls the generation collaborator and absorbs every failure
// mode into a degraded completion.
func (a *App) complete(ctx context.Context, systemPrompt, userPrompt string) Completion {
	text, err := a.generator.GenerateText(ctx, systemPrompt, userPrompt)
	if err != nil {
		slog.Warn("generation service failed", "err", err)
		return Completion{Text: degradedResponseText, Degraded: true}
	}
	if strings.TrimSpace(text) == "" {
		slog.Warn("generation service returned empty text")
		return Completion{Text: degradedResponseText, Degraded: true}
	}
	return Completion{Text: text}
}
