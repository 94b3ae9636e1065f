package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

// Share describes a finished analysis posted to the planning channel.
type Share struct {
	AnalysisID   string
	Filename     string
	MessageCount int
	Summary      string
}

type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// PostSummary posts the model's summary to the configured channel and
// returns the message timestamp.
func (p *Poster) PostSummary(ctx context.Context, share Share) (string, error) {
	text := formatSummaryMessage(share)

	body, err := json.Marshal(map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
			{
				"type": "context",
				"elements": []map[string]any{
					{
						"type": "mrkdwn",
						"text": fmt.Sprintf("analysis `%s`", share.AnalysisID),
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return "", fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return "", fmt.Errorf("slack error: %s", slackResp.Error)
	}

	p.logger.Info("posted summary to slack", "ts", slackResp.TS, "analysis_id", share.AnalysisID)
	return slackResp.TS, nil
}

func formatSummaryMessage(share Share) string {
	var sb strings.Builder

	name := share.Filename
	if name == "" {
		name = "chat export"
	}
	fmt.Fprintf(&sb, "*Wedding summary* from _%s_ (%d messages)\n\n", name, share.MessageCount)

	summary := strings.TrimSpace(share.Summary)
	if summary == "" {
		sb.WriteString("_The model returned no details for this chat._")
		return sb.String()
	}
	sb.WriteString(summary)
	return sb.String()
}
