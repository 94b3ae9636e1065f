// Package llm talks to hosted chat-completion APIs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Supported providers.
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
)

const defaultTimeout = 120 * time.Second

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = errors.New("empty response content")

// Message is one turn of a conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer sends a single non-streaming completion request.
type Completer interface {
	Complete(ctx context.Context, system string, messages []Message, maxTokens int) (string, error)
}

// New builds the client for the named provider.
func New(provider, apiKey, model string) (Completer, error) {
	switch provider {
	case ProviderGroq:
		return NewGroq(apiKey, model), nil
	case ProviderAnthropic:
		return NewAnthropic(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}
