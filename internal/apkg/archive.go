package apkg

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrNotAZip is returned when the uploaded buffer is not a valid zip
// container.
var ErrNotAZip = errors.New("apkg: not a zip archive")

// Archive wraps an in-memory APKG buffer and exposes its entries by name.
// Entries are decompressed lazily, one at a time, so large media blobs do
// not have to be held decompressed all at once.
type Archive struct {
	entries map[string]*zip.File
}

// OpenArchive parses the zip directory of buf. It fails with ErrNotAZip if
// buf is not a zip container. No entry data is read yet.
func OpenArchive(buf []byte) (*Archive, error) {
	reader, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAZip, err)
	}

	entries := make(map[string]*zip.File, len(reader.File))
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		entries[file.Name] = file
	}

	return &Archive{entries: entries}, nil
}

// Has reports whether a file entry with the given name exists.
func (a *Archive) Has(name string) bool {
	_, ok := a.entries[name]
	return ok
}

// Names returns the names of all file entries in the archive.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.entries))
	for name := range a.entries {
		names = append(names, name)
	}
	return names
}

// Open returns a reader over the decompressed bytes of one entry. The
// caller must close it before opening another large entry.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	file, ok := a.entries[name]
	if !ok {
		return nil, fmt.Errorf("apkg: no archive entry %q", name)
	}
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("apkg: open entry %q: %w", name, err)
	}
	return rc, nil
}

// ReadAll decompresses one entry fully into memory.
func (a *Archive) ReadAll(name string) ([]byte, error) {
	rc, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("apkg: read entry %q: %w", name, err)
	}
	return data, nil
}
