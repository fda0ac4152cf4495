package apkg

import (
	"encoding/json"
	"io"
	"log"
)

// mediaManifestEntry is the archive entry holding the media manifest: a
// JSON object mapping small numeric keys (serialized as strings) to the
// original attachment filenames.
const mediaManifestEntry = "media"

// MediaResolver maps original attachment filenames back to archive
// entries and extracts their bytes on demand.
type MediaResolver struct {
	archive *Archive
	// index maps archive entry key -> original filename
	index map[string]string
	// byName maps original filename -> archive entry key
	byName map[string]string
}

// NewMediaResolver decodes the media manifest and binds its keys to
// archive entries. A missing or undecodable manifest degrades to an empty
// index; the import continues without media.
func NewMediaResolver(archive *Archive) *MediaResolver {
	resolver := &MediaResolver{
		archive: archive,
		index:   map[string]string{},
		byName:  map[string]string{},
	}

	if !archive.Has(mediaManifestEntry) {
		return resolver
	}

	data, err := archive.ReadAll(mediaManifestEntry)
	if err != nil {
		log.Printf("apkg: failed to read media manifest, continuing without media: %v", err)
		return resolver
	}

	var manifest map[string]string
	if err := json.Unmarshal(data, &manifest); err != nil {
		log.Printf("apkg: failed to decode media manifest, continuing without media: %v", err)
		return resolver
	}

	for key, filename := range manifest {
		if filename == "" || !archive.Has(key) {
			continue
		}
		resolver.index[key] = filename
		resolver.byName[filename] = key
	}
	return resolver
}

// Index returns the manifest mapping of archive keys to filenames.
func (r *MediaResolver) Index() map[string]string {
	return r.index
}

// Count returns how many manifest entries resolved to archive entries.
func (r *MediaResolver) Count() int {
	return len(r.index)
}

// Resolve returns the raw bytes for an original filename, or ok=false if
// the filename is unknown or its entry fails to extract. Extraction
// failures are skipped with a warning, never fatal: a card referencing an
// unresolved filename simply loses that attachment.
func (r *MediaResolver) Resolve(filename string) ([]byte, bool) {
	key, ok := r.byName[filename]
	if !ok {
		return nil, false
	}
	data, err := r.archive.ReadAll(key)
	if err != nil {
		log.Printf("apkg: failed to extract media entry %s (%s): %v", key, filename, err)
		return nil, false
	}
	return data, true
}

// Open returns a lazy reader for an original filename, for callers that
// stream attachments instead of buffering them.
func (r *MediaResolver) Open(filename string) (io.ReadCloser, bool) {
	key, ok := r.byName[filename]
	if !ok {
		return nil, false
	}
	rc, err := r.archive.Open(key)
	if err != nil {
		log.Printf("apkg: failed to open media entry %s (%s): %v", key, filename, err)
		return nil, false
	}
	return rc, true
}
