package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const groqURL = "https://api.groq.com/openai/v1/chat/completions"

// DefaultTemperature keeps fact extraction close to deterministic.
const DefaultTemperature = 0.1

// Groq calls Groq's OpenAI-compatible chat completions endpoint.
type Groq struct {
	apiKey      string
	model       string
	url         string
	temperature float64
	client      *http.Client
}

func NewGroq(apiKey, model string) *Groq {
	return &Groq{
		apiKey:      apiKey,
		model:       model,
		url:         groqURL,
		temperature: DefaultTemperature,
		client:      newHTTPClient(),
	}
}

// SetTestTransport points the client at a test server.
func (c *Groq) SetTestTransport(url string) {
	c.url = url
}

type groqRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type groqError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation, with system as a leading system turn,
// and returns the first choice's content.
func (c *Groq) Complete(ctx context.Context, system string, messages []Message, maxTokens int) (string, error) {
	msgs := make([]Message, 0, len(messages)+1)
	if system != "" {
		msgs = append(msgs, Message{Role: "system", Content: system})
	}
	msgs = append(msgs, messages...)

	body, err := json.Marshal(groqRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp groqError
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("api error %d: %s: %s", resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp groqResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	return apiResp.Choices[0].Message.Content, nil
}
