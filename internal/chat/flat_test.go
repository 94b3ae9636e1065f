package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_MatchesFullParse(t *testing.T) {
	input := `Messages and calls are end-to-end encrypted.
[01/02/23, 09:15:00] Alice: Hello
world
[31/31/23, 10:00] Nobody: dropped
[01/02/23, 09:16] Bob: video omitted
[01/02/23, 09:17] Alice: See you at the church
`
	full, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	flat, err := Flatten(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, full.Flatten(), flat.Text)
	assert.Equal(t, len(full.Messages), flat.Messages)
	assert.Equal(t, 1, flat.Orphans)
	assert.Equal(t, 1, flat.Discarded)
	assert.Equal(t, 1, flat.Continuations)
	assert.Equal(t, EncodingUTF8Replace, flat.Encoding)
}

func TestFlatten_ReplacesInvalidUTF8(t *testing.T) {
	input := "[01/02/23, 09:15] Alice: bad \xff byte"

	flat, err := Flatten(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "Alice: bad � byte", flat.Text)
	assert.Equal(t, 1, flat.Messages)
}

func TestFlatten_Empty(t *testing.T) {
	flat, err := Flatten(strings.NewReader("\n\n"))
	require.NoError(t, err)

	assert.Equal(t, "", flat.Text)
	assert.Equal(t, 0, flat.Messages)
}

func TestParseFlat_WritesToWriter(t *testing.T) {
	var sb strings.Builder
	stats, err := ParseFlat(strings.NewReader("[01/02/23, 09:15] Alice: a\n[01/02/23, 09:16] Bob: b"), &sb)
	require.NoError(t, err)

	assert.Equal(t, "Alice: a\nBob: b", sb.String())
	assert.Equal(t, 2, stats.Messages)
}
