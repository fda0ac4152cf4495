// Package storage keeps imported media attachments on local disk and
// maps them to stable URLs served by the HTTP layer.
package storage

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
)

// MediaStore writes attachment blobs into a flat directory using
// content-addressed filenames, so re-importing the same archive never
// duplicates bytes.
type MediaStore struct {
	dir string
}

func NewMediaStore(dir string) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &MediaStore{dir: dir}, nil
}

// Store persists one attachment and returns its stable URL path. The
// write is atomic: temp file in the same directory, then rename.
func (s *MediaStore) Store(filename string, data []byte) (url string, err error) {
	stored := s.storedFilename(filename, data)
	path := filepath.Join(s.dir, stored)

	if _, err := os.Stat(path); err == nil {
		return "/media/" + stored, nil
	}

	tmpFile, err := os.CreateTemp(s.dir, "media_tmp_")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return "", fmt.Errorf("write media blob: %w", err)
	}
	tmpFile.Close()

	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("publish media blob: %w", err)
	}
	return "/media/" + stored, nil
}

// Dir returns the directory blobs are stored in, for the static route.
func (s *MediaStore) Dir() string {
	return s.dir
}

// storedFilename prefixes the original name with a short content hash to
// keep distinct files with colliding names apart.
func (s *MediaStore) storedFilename(filename string, data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x_%s", hash[:8], filepath.Base(filename))
}
