package slack

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFormatSummaryMessage(t *testing.T) {
	msg := formatSummaryMessage(Share{
		AnalysisID:   "a1",
		Filename:     "WhatsApp Chat with Ana.zip",
		MessageCount: 312,
		Summary:      "📅 **Wedding date:** 14 June 2025\n👥 **Guests:** 120\n",
	})

	checks := []string{
		"WhatsApp Chat with Ana.zip",
		"312 messages",
		"14 June 2025",
		"👥 **Guests:** 120",
	}
	for _, check := range checks {
		if !strings.Contains(msg, check) {
			t.Errorf("expected message to contain %q", check)
		}
	}
}

func TestFormatSummaryMessage_Empty(t *testing.T) {
	msg := formatSummaryMessage(Share{Summary: "  "})

	if !strings.Contains(msg, "chat export") {
		t.Error("expected fallback file name")
	}
	if !strings.Contains(msg, "returned no details") {
		t.Error("expected empty-summary notice")
	}
}

func TestPostSummary_Success(t *testing.T) {
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer xoxb-test" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotPayload)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "ts": "1234.5678"})
	}))
	defer server.Close()

	p := NewPoster("xoxb-test", "C123", slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.apiURL = server.URL

	ts, err := p.PostSummary(context.Background(), Share{AnalysisID: "a1", Summary: "👥 **Guests:** 80"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts != "1234.5678" {
		t.Errorf("expected ts 1234.5678, got %q", ts)
	}
	if gotPayload["channel"] != "C123" {
		t.Errorf("expected channel C123, got %v", gotPayload["channel"])
	}
	if !strings.Contains(gotPayload["text"].(string), "Guests:** 80") {
		t.Errorf("expected summary in text, got %v", gotPayload["text"])
	}
}

func TestPostSummary_SlackError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "channel_not_found"})
	}))
	defer server.Close()

	p := NewPoster("xoxb-test", "C404", slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.apiURL = server.URL

	_, err := p.PostSummary(context.Background(), Share{AnalysisID: "a1", Summary: "x"})
	if err == nil {
		t.Fatal("expected error for slack error response")
	}
	if !strings.Contains(err.Error(), "channel_not_found") {
		t.Errorf("expected slack error code in error, got %v", err)
	}
}
