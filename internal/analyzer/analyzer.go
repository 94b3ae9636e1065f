// Package analyzer runs one upload through unwrapping, parsing, excerpt
// selection and the model call.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"runtime/debug"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/wedsum/internal/archive"
	"github.com/MikeSquared-Agency/wedsum/internal/chat"
	"github.com/MikeSquared-Agency/wedsum/internal/extractor"
	"github.com/MikeSquared-Agency/wedsum/internal/hermes"
	"github.com/MikeSquared-Agency/wedsum/internal/llm"
	"github.com/MikeSquared-Agency/wedsum/internal/metrics"
	"github.com/MikeSquared-Agency/wedsum/internal/slack"
)

// Parse modes.
const (
	ModeFull      = "full"
	ModeStreaming = "streaming"
)

const (
	opParse   = "parse"
	opAnalyze = "analyze"

	sourceText    = "txt"
	sourceArchive = "zip"
)

// Status is the outcome tag of a pipeline run.
type Status string

const (
	StatusParsed     Status = "parsed"
	StatusSummarized Status = "summarized"
	StatusFailed     Status = "failed"
)

// Request is one user upload.
type Request struct {
	Filename string
	Size     int64
	Body     io.ReaderAt
	// APIKey overrides the server-side key when set.
	APIKey string
}

// Outcome is the result of a pipeline run. Exactly one of Summary (or
// Messages for Parse) and Reason is meaningful, depending on Status.
type Outcome struct {
	ID           uuid.UUID      `json:"id"`
	Status       Status         `json:"status"`
	Reason       Reason         `json:"reason,omitempty"`
	Diagnostic   string         `json:"diagnostic,omitempty"`
	Source       string         `json:"source,omitempty"`
	Entry        string         `json:"entry,omitempty"`
	Encoding     string         `json:"encoding,omitempty"`
	MessageCount int            `json:"message_count"`
	Messages     []chat.Message `json:"messages,omitempty"`
	ExcerptChars int            `json:"excerpt_chars,omitempty"`
	Summary      string         `json:"summary,omitempty"`
	Provider     string         `json:"provider,omitempty"`
	Model        string         `json:"model,omitempty"`

	Err error `json:"-"`
}

// Failed reports whether the run ended with a diagnostic.
func (o *Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// Options configures the pipeline.
type Options struct {
	Provider           string
	Model              string
	APIKey             string
	Mode               string
	MaxUploadBytes     int64
	ExcerptChars       int
	MinTranscriptChars int
	ReleaseMemory      bool
}

// ClientFactory builds a model client for one request.
type ClientFactory func(provider, apiKey, model string) (llm.Completer, error)

// EventPublisher receives one event per finished run.
type EventPublisher interface {
	PublishAnalysis(evt hermes.AnalysisEvent) error
}

// SummaryPoster shares finished summaries.
type SummaryPoster interface {
	PostSummary(ctx context.Context, share slack.Share) (string, error)
}

type Analyzer struct {
	opts      Options
	extractor *extractor.Extractor
	newClient ClientFactory
	metrics   *metrics.Metrics
	events    EventPublisher
	poster    SummaryPoster
	logger    *slog.Logger
}

func New(opts Options, ext *extractor.Extractor, logger *slog.Logger) *Analyzer {
	if opts.Mode == "" {
		opts.Mode = ModeFull
	}
	return &Analyzer{
		opts:      opts,
		extractor: ext,
		newClient: llm.New,
		logger:    logger,
	}
}

func (a *Analyzer) WithClientFactory(f ClientFactory) *Analyzer {
	a.newClient = f
	return a
}

func (a *Analyzer) WithMetrics(m *metrics.Metrics) *Analyzer {
	a.metrics = m
	return a
}

func (a *Analyzer) WithEvents(p EventPublisher) *Analyzer {
	a.events = p
	return a
}

func (a *Analyzer) WithPoster(p SummaryPoster) *Analyzer {
	a.poster = p
	return a
}

// Provider returns the configured model provider.
func (a *Analyzer) Provider() string {
	return a.opts.Provider
}

// MaxUploadBytes returns the upload ceiling.
func (a *Analyzer) MaxUploadBytes() int64 {
	return a.opts.MaxUploadBytes
}

// Parse extracts the messages of an upload without calling the model.
func (a *Analyzer) Parse(ctx context.Context, req Request) *Outcome {
	start := time.Now()
	out := &Outcome{ID: uuid.New()}

	t, reason, err := a.load(out, req, true)
	if err != nil {
		return a.finish(ctx, opParse, req, out.fail(reason, err), start)
	}

	out.Status = StatusParsed
	out.Messages = t.messages
	return a.finish(ctx, opParse, req, out, start)
}

// Analyze runs the full pipeline and returns the model's summary verbatim.
func (a *Analyzer) Analyze(ctx context.Context, req Request) *Outcome {
	start := time.Now()
	out := &Outcome{ID: uuid.New(), Provider: a.opts.Provider, Model: a.opts.Model}

	if req.Size > a.opts.MaxUploadBytes {
		return a.finish(ctx, opAnalyze, req, out.fail(ReasonTooLarge, errTooLarge(req.Size, a.opts.MaxUploadBytes)), start)
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = a.opts.APIKey
	}
	if apiKey == "" {
		return a.finish(ctx, opAnalyze, req, out.fail(ReasonMissingAPIKey, errors.New("no api key supplied")), start)
	}

	t, reason, err := a.load(out, req, a.opts.Mode == ModeFull)
	if err != nil {
		return a.finish(ctx, opAnalyze, req, out.fail(reason, err), start)
	}

	excerpt := chat.Excerpt(t.text, a.opts.ExcerptChars)
	out.ExcerptChars = utf8.RuneCountInString(excerpt)

	client, err := a.newClient(a.opts.Provider, apiKey, a.opts.Model)
	if err != nil {
		return a.finish(ctx, opAnalyze, req, out.fail(ReasonModelFailed, err), start)
	}

	modelStart := time.Now()
	summary, err := a.extractor.Extract(ctx, client, excerpt)
	a.metrics.ObserveModel(a.opts.Provider, err, time.Since(modelStart))
	if err != nil {
		return a.finish(ctx, opAnalyze, req, out.fail(ReasonModelFailed, err), start)
	}

	out.Status = StatusSummarized
	out.Summary = summary.Text

	if a.poster != nil {
		share := slack.Share{
			AnalysisID:   out.ID.String(),
			Filename:     req.Filename,
			MessageCount: out.MessageCount,
			Summary:      summary.Text,
		}
		if _, err := a.poster.PostSummary(ctx, share); err != nil {
			a.logger.Warn("failed to share summary", "analysis_id", out.ID, "error", err)
		}
	}

	return a.finish(ctx, opAnalyze, req, out, start)
}

type loaded struct {
	messages []chat.Message
	text     string
}

// load applies the size gate, unwraps archives and parses the transcript.
// keepMessages selects the full parse; otherwise the streaming flat parse
// is used and only the flattened text is kept.
func (a *Analyzer) load(out *Outcome, req Request, keepMessages bool) (*loaded, Reason, error) {
	if req.Size > a.opts.MaxUploadBytes {
		return nil, ReasonTooLarge, errTooLarge(req.Size, a.opts.MaxUploadBytes)
	}
	if req.Body == nil {
		return nil, ReasonUnreadable, errors.New("request has no body")
	}

	switch {
	case archive.IsArchive(req.Filename):
		out.Source = sourceArchive
	case isTextFile(req.Filename):
		out.Source = sourceText
	default:
		return nil, ReasonUnsupportedType, fmt.Errorf("unsupported file %q", req.Filename)
	}
	a.metrics.ObserveUpload(req.Size)

	var src io.Reader = io.NewSectionReader(req.Body, 0, req.Size)
	if out.Source == sourceArchive {
		rc, entry, err := archive.OpenTranscript(req.Body, req.Size)
		if err != nil {
			if errors.Is(err, archive.ErrNoTranscript) {
				return nil, ReasonNoTranscript, err
			}
			return nil, ReasonCorruptArchive, err
		}
		defer rc.Close()
		out.Entry = entry
		src = rc
	}

	parseStart := time.Now()
	var (
		result loaded
		stats  chat.Stats
	)
	if keepMessages {
		t, err := chat.Parse(src)
		if err != nil {
			return nil, ReasonUnreadable, err
		}
		result.messages = t.Messages
		result.text = t.Flatten()
		stats = t.Stats
		out.MessageCount = len(t.Messages)
		a.metrics.ObserveParse(ModeFull, out.MessageCount, time.Since(parseStart))
	} else {
		flat, err := chat.Flatten(src)
		if err != nil {
			return nil, ReasonUnreadable, err
		}
		result.text = flat.Text
		stats = flat.Stats
		out.MessageCount = flat.Messages
		a.metrics.ObserveParse(ModeStreaming, out.MessageCount, time.Since(parseStart))
		if a.opts.ReleaseMemory {
			debug.FreeOSMemory()
		}
	}
	out.Encoding = stats.Encoding

	a.logger.Info("transcript parsed",
		"analysis_id", out.ID,
		"source", out.Source,
		"messages", out.MessageCount,
		"lines", stats.Lines,
		"continuations", stats.Continuations,
		"orphans", stats.Orphans,
		"discarded", stats.Discarded,
		"encoding", stats.Encoding,
	)

	if out.MessageCount == 0 || utf8.RuneCountInString(result.text) < a.opts.MinTranscriptChars {
		return nil, ReasonNoMessages, fmt.Errorf("extracted %d messages", out.MessageCount)
	}
	return &result, "", nil
}

func (o *Outcome) fail(reason Reason, err error) *Outcome {
	o.Status = StatusFailed
	o.Reason = reason
	o.Diagnostic = Diagnostic(reason)
	o.Err = err
	o.Summary = ""
	o.Messages = nil
	return o
}

func (a *Analyzer) finish(_ context.Context, op string, req Request, out *Outcome, start time.Time) *Outcome {
	elapsed := time.Since(start)
	a.metrics.ObserveOutcome(op, string(out.Status), string(out.Reason))

	if out.Failed() {
		a.logger.Warn("analysis failed",
			"analysis_id", out.ID,
			"operation", op,
			"reason", out.Reason,
			"error", out.Err,
		)
	} else {
		a.logger.Info("analysis complete",
			"analysis_id", out.ID,
			"operation", op,
			"status", out.Status,
			"messages", out.MessageCount,
			"excerpt_chars", out.ExcerptChars,
			"duration_ms", elapsed.Milliseconds(),
		)
	}

	if a.events != nil {
		evt := hermes.AnalysisEvent{
			AnalysisID:   out.ID.String(),
			Operation:    op,
			Status:       string(out.Status),
			Reason:       string(out.Reason),
			Source:       out.Source,
			UploadBytes:  req.Size,
			MessageCount: out.MessageCount,
			ExcerptChars: out.ExcerptChars,
			Provider:     out.Provider,
			DurationMS:   elapsed.Milliseconds(),
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
		}
		if err := a.events.PublishAnalysis(evt); err != nil {
			a.logger.Warn("failed to publish analysis event", "analysis_id", out.ID, "error", err)
		}
	}

	return out
}

func isTextFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == archive.TranscriptExt || name == ""
}

func errTooLarge(size, limit int64) error {
	return fmt.Errorf("upload of %d bytes exceeds limit of %d bytes", size, limit)
}
