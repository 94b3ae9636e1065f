// Package archive locates the chat transcript inside an exported zip.
package archive

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
)

// TranscriptExt is the extension of the chat text inside an export.
const TranscriptExt = ".txt"

var (
	// ErrNoTranscript means the archive holds no usable transcript entry.
	ErrNoTranscript = errors.New("archive contains no transcript")

	// ErrCorruptArchive means the archive could not be read as a zip.
	ErrCorruptArchive = errors.New("corrupt archive")
)

// IsArchive reports whether the uploaded file name denotes a zip archive.
func IsArchive(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".zip")
}

// OpenTranscript opens the first transcript entry of the zip held in ra.
// Only that entry is used; exports never hold more than one chat.
// The returned name is the entry's path inside the archive.
func OpenTranscript(ra io.ReaderAt, size int64) (io.ReadCloser, string, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	for _, f := range zr.File {
		if !isTranscriptEntry(f) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("%w: open %s: %v", ErrCorruptArchive, f.Name, err)
		}
		return rc, f.Name, nil
	}

	return nil, "", ErrNoTranscript
}

// isTranscriptEntry skips directories, macOS resource forks and hidden files.
func isTranscriptEntry(f *zip.File) bool {
	if f.FileInfo().IsDir() {
		return false
	}
	name := f.Name
	if !strings.HasSuffix(name, TranscriptExt) {
		return false
	}
	if strings.HasPrefix(name, "__") {
		return false
	}
	base := path.Base(name)
	return !strings.HasPrefix(base, "__") && !strings.HasPrefix(base, ".")
}
