package chat

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	initialLineBuffer = 1024 * 1024
	maxLineBuffer     = 10 * 1024 * 1024
)

// Matches a message line in either export style:
//
//	[25/12/24, 14:30:05] Alice: text
//	25-12-2024 14:30 Alice: text
var messageLineRegex = regexp.MustCompile(`^\[?(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}),?\s*(\d{1,2}:\d{2}(?::\d{2})?)\]?\s*([^:]+):\s(.+)$`)

// Parse reads a whole transcript and returns its messages in order.
// Input that is not valid UTF-8 is decoded as Latin-1, which accepts any
// byte sequence.
func Parse(r io.Reader) (*Transcript, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrUnreadable, err)
	}

	encoding := EncodingUTF8
	if !utf8.Valid(raw) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: latin-1 decode: %v", ErrUnreadable, err)
		}
		raw = decoded
		encoding = EncodingLatin1
	}

	t := &Transcript{Messages: make([]Message, 0)}
	s := lineScanner{emit: func(m Message) error {
		t.Messages = append(t.Messages, m)
		return nil
	}}
	if err := s.scan(bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	t.Stats = s.stats
	t.Encoding = encoding
	return t, nil
}

// Flatten renders the transcript as "sender: message" lines joined by
// newlines.
func (t *Transcript) Flatten() string {
	var sb strings.Builder
	for i, m := range t.Messages {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.Line())
	}
	return sb.String()
}

// lineScanner classifies transcript lines and hands each finished message
// to emit. Only the message still open for continuation lines is held.
type lineScanner struct {
	emit    func(Message) error
	pending *Message
	stats   Stats
}

func (s *lineScanner) scan(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineBuffer)
	for scanner.Scan() {
		if err := s.feed(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: scan: %v", ErrUnreadable, err)
	}
	return s.flush()
}

func (s *lineScanner) feed(raw string) error {
	line := strings.TrimSpace(raw)
	if line == "" {
		return nil
	}
	s.stats.Lines++

	matches := messageLineRegex.FindStringSubmatch(line)
	if matches == nil {
		if s.pending == nil {
			s.stats.Orphans++
			return nil
		}
		s.pending.Text += " " + line
		s.stats.Continuations++
		return nil
	}

	ts, err := ParseTimestamp(matches[1], matches[2])
	if err != nil {
		s.stats.Discarded++
		return nil
	}
	sender := strings.TrimSpace(matches[3])
	if sender == "" {
		s.stats.Discarded++
		return nil
	}

	if err := s.flush(); err != nil {
		return err
	}
	s.pending = &Message{
		Timestamp: ts,
		Sender:    sender,
		Text:      NormalizeMedia(matches[4]),
	}
	return nil
}

func (s *lineScanner) flush() error {
	if s.pending == nil {
		return nil
	}
	m := *s.pending
	s.pending = nil
	return s.emit(m)
}
