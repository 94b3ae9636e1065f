package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/wedsum/internal/llm"
)

const maxResponseTokens = 1024

// Summary is the model's answer for one transcript excerpt.
type Summary struct {
	Text    string        `json:"text"`
	Latency time.Duration `json:"-"`
}

type Extractor struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Prompt renders the single-turn request for a transcript excerpt.
func Prompt(excerpt string) string {
	return fmt.Sprintf(extractionUserPrompt, excerpt)
}

// Extract asks the model for the confirmed wedding details in excerpt.
// The response is returned as-is.
func (e *Extractor) Extract(ctx context.Context, model llm.Completer, excerpt string) (*Summary, error) {
	messages := []llm.Message{
		{Role: "user", Content: Prompt(excerpt)},
	}

	e.logger.Info("extracting wedding details", "excerpt_len", len(excerpt))

	start := time.Now()
	raw, err := model.Complete(ctx, systemPrompt, messages, maxResponseTokens)
	if err != nil {
		return nil, fmt.Errorf("llm extraction: %w", err)
	}
	latency := time.Since(start)

	e.logger.Info("extraction complete",
		"response_len", len(raw),
		"latency_ms", latency.Milliseconds(),
	)

	return &Summary{Text: raw, Latency: latency}, nil
}
