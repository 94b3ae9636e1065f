// Package chat parses exported WhatsApp chat transcripts into ordered
// sender/message records.
package chat

import (
	"errors"
	"time"
)

// ErrUnreadable is returned when the transcript source cannot be read or
// scanned to completion.
var ErrUnreadable = errors.New("transcript unreadable")

// Encoding names reported in parse statistics.
const (
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin-1"
	EncodingUTF8Replace = "utf-8-replace"
)

// Message is a single authored message from a transcript.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Text      string    `json:"message"`
}

// Line renders the message the way it is forwarded to the model.
func (m Message) Line() string {
	return m.Sender + ": " + m.Text
}

// Stats counts how the lines of a transcript were classified.
type Stats struct {
	Lines         int    `json:"lines"`          // non-blank lines scanned
	Continuations int    `json:"continuations"`  // lines merged into the previous message
	Orphans       int    `json:"orphans"`        // continuation lines with no message to attach to
	Discarded     int    `json:"discarded"`      // message lines rejected for timestamp or sender
	Encoding      string `json:"encoding"`
}

// Transcript is the result of a full parse.
type Transcript struct {
	Messages []Message `json:"messages"`
	Stats
}

// FlatResult is the result of a lightweight parse: one "sender: message"
// line per record, timestamps dropped.
type FlatResult struct {
	Text     string `json:"text"`
	Messages int    `json:"message_count"`
	Stats
}
