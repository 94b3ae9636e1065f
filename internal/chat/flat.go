package chat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FlatStats describes a streaming parse written by ParseFlat.
type FlatStats struct {
	Messages int `json:"message_count"`
	Stats
}

// ParseFlat streams a transcript from r and writes one "sender: message"
// line per record to w. Invalid UTF-8 is replaced rather than rejected, and
// only the record still open for continuation lines is kept in memory.
// The caller keeps ownership of r; ParseFlat never closes it.
func ParseFlat(r io.Reader, w io.Writer) (*FlatStats, error) {
	out := bufio.NewWriter(w)
	fs := &FlatStats{}

	s := lineScanner{emit: func(m Message) error {
		if fs.Messages > 0 {
			if err := out.WriteByte('\n'); err != nil {
				return err
			}
		}
		if _, err := out.WriteString(m.Line()); err != nil {
			return err
		}
		fs.Messages++
		return nil
	}}

	decoded := transform.NewReader(r, unicode.UTF8.NewDecoder())
	if err := s.scan(decoded); err != nil {
		return nil, err
	}
	if err := out.Flush(); err != nil {
		return nil, fmt.Errorf("flush flat transcript: %w", err)
	}

	fs.Stats = s.stats
	fs.Encoding = EncodingUTF8Replace
	return fs, nil
}

// Flatten is ParseFlat into memory.
func Flatten(r io.Reader) (*FlatResult, error) {
	var sb strings.Builder
	fs, err := ParseFlat(r, &sb)
	if err != nil {
		return nil, err
	}
	return &FlatResult{
		Text:     sb.String(),
		Messages: fs.Messages,
		Stats:    fs.Stats,
	}, nil
}
