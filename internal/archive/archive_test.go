package archive

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
)

type entry struct {
	name string
	body string
}

func buildZip(t *testing.T, entries ...entry) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("create %s: %v", e.name, err)
		}
		if _, err := w.Write([]byte(e.body)); err != nil {
			t.Fatalf("write %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestOpenTranscript_FirstTextEntry(t *testing.T) {
	zr := buildZip(t,
		entry{"00000012-PHOTO.jpg", "binary"},
		entry{"WhatsApp Chat with Ana.txt", "[01/02/23, 09:15] Ana: hola"},
		entry{"second.txt", "ignored"},
	)

	rc, name, err := OpenTranscript(zr, zr.Size())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	if name != "WhatsApp Chat with Ana.txt" {
		t.Errorf("expected first transcript entry, got %q", name)
	}
	body, _ := io.ReadAll(rc)
	if string(body) != "[01/02/23, 09:15] Ana: hola" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestOpenTranscript_SkipsReservedEntries(t *testing.T) {
	zr := buildZip(t,
		entry{"__MACOSX/._chat.txt", "resource fork"},
		entry{"export/.hidden.txt", "hidden"},
		entry{"export/__notes.txt", "reserved"},
		entry{"export/_chat.txt", "[01/02/23, 09:15] Ana: hola"},
	)

	rc, name, err := OpenTranscript(zr, zr.Size())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	if name != "export/_chat.txt" {
		t.Errorf("expected export/_chat.txt, got %q", name)
	}
}

func TestOpenTranscript_NoTranscript(t *testing.T) {
	zr := buildZip(t, entry{"photo.jpg", "binary"}, entry{"notes.md", "text"})

	_, _, err := OpenTranscript(zr, zr.Size())
	if !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript, got %v", err)
	}
}

func TestOpenTranscript_Corrupt(t *testing.T) {
	data := bytes.NewReader([]byte("this is not a zip file at all"))

	_, _, err := OpenTranscript(data, data.Size())
	if !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("expected ErrCorruptArchive, got %v", err)
	}
}

func TestIsArchive(t *testing.T) {
	cases := map[string]bool{
		"chat.zip":  true,
		"CHAT.ZIP":  true,
		"chat.txt":  false,
		"zip.txt":   false,
		"chat.zip ": false,
	}
	for name, want := range cases {
		if got := IsArchive(name); got != want {
			t.Errorf("IsArchive(%q) = %v, want %v", name, got, want)
		}
	}
}
