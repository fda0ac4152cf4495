package apkg

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func zipBuffer(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	return buf.Bytes()
}

func TestOpenArchive_NotAZip(t *testing.T) {
	_, err := OpenArchive([]byte("definitely not a zip file"))
	if !errors.Is(err, ErrNotAZip) {
		t.Fatalf("expected ErrNotAZip, got %v", err)
	}
}

func TestOpenArchive_EntryLookup(t *testing.T) {
	buf := zipBuffer(t, map[string][]byte{
		"media": []byte(`{}`),
		"0":     []byte("blob"),
	})

	archive, err := OpenArchive(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !archive.Has("media") || !archive.Has("0") {
		t.Errorf("expected both entries to be present, names: %v", archive.Names())
	}
	if archive.Has("missing") {
		t.Errorf("did not expect entry 'missing'")
	}

	data, err := archive.ReadAll("0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "blob" {
		t.Errorf("expected 'blob', got %q", data)
	}

	if _, err := archive.ReadAll("missing"); err == nil {
		t.Errorf("expected error for missing entry")
	}
}
