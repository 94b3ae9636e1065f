package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectAnalysisCompleted carries one event per finished upload.
const SubjectAnalysisCompleted = "wedsum.analysis.completed"

// AnalysisEvent describes a pipeline run without any transcript content.
type AnalysisEvent struct {
	AnalysisID   string `json:"analysis_id"`
	Operation    string `json:"operation"`
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
	Source       string `json:"source,omitempty"`
	UploadBytes  int64  `json:"upload_bytes"`
	MessageCount int    `json:"message_count"`
	ExcerptChars int    `json:"excerpt_chars"`
	Provider     string `json:"provider,omitempty"`
	DurationMS   int64  `json:"duration_ms"`
	Timestamp    string `json:"timestamp"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("wedsum"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

// PublishAnalysis emits evt on SubjectAnalysisCompleted.
func (c *Client) PublishAnalysis(evt AnalysisEvent) error {
	return c.Publish(SubjectAnalysisCompleted, evt)
}

func (c *Client) Close() {
	if err := c.conn.Drain(); err != nil {
		c.logger.Warn("nats drain failed", "error", err)
		c.conn.Close()
	}
}
