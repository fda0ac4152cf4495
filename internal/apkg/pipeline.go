// Package apkg decodes Anki APKG exports (a zip archive embedding a
// SQLite collection database and a media manifest) into memodeck's
// flashcard model.
//
// The pipeline is strictly per-invocation: open the archive, parse the
// collection, transform the notes, derive stats, close. It holds no state
// across invocations, so separate imports may run concurrently in
// separate Pipeline instances without coordination.
//
// Failure policy: an invalid archive, a missing collection database or an
// unrecognized schema abort the import with a typed error. Everything
// else degrades: undecodable catalogs shrink to empty sets, broken media
// entries are dropped, broken notes are skipped and counted. The caller
// sees fewer cards plus stats explaining the gap, never a hard failure
// for partial corruption.
package apkg

import (
	"context"
	"fmt"
)

// Pipeline owns one import run over a single in-memory APKG buffer.
type Pipeline struct {
	archive *Archive
	db      *collectionDB
	media   *MediaResolver
}

// Open validates the buffer as a zip archive and prepares the embedded
// collection database. Fatal conditions surface here: ErrNotAZip,
// ErrNoDatabase.
func Open(buf []byte) (*Pipeline, error) {
	archive, err := OpenArchive(buf)
	if err != nil {
		return nil, err
	}

	db, err := openCollectionDB(archive)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		archive: archive,
		db:      db,
		media:   NewMediaResolver(archive),
	}, nil
}

// Close releases the temp spill of the embedded database.
func (p *Pipeline) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Media exposes the resolver so the persistence collaborator can extract
// attachment bytes for the filenames referenced by emitted cards.
func (p *Pipeline) Media() *MediaResolver {
	return p.media
}

// Parse classifies the embedded database's schema generation and extracts
// the canonical record sets. ErrUnrecognizedSchema is fatal; a legacy
// catalog that fails to decode degrades to empty model and deck sets.
func (p *Pipeline) Parse() (*ParsedCollection, error) {
	adapter, err := detectAdapter(p.db)
	if err != nil {
		return nil, err
	}

	models, err := adapter.Models()
	if err != nil {
		return nil, fmt.Errorf("extract models: %w", err)
	}

	decks, err := adapter.Decks()
	if err != nil {
		return nil, fmt.Errorf("extract decks: %w", err)
	}

	notes, err := readNotes(p.db.db)
	if err != nil {
		return nil, fmt.Errorf("extract notes: %w", err)
	}

	cards, err := readCards(p.db.db)
	if err != nil {
		return nil, fmt.Errorf("extract cards: %w", err)
	}

	return &ParsedCollection{
		Label:      selectLabel(decks),
		Notes:      notes,
		Cards:      cards,
		Models:     models,
		Decks:      decks,
		MediaIndex: p.media.Index(),
	}, nil
}

// Result bundles everything one full import run produces.
type Result struct {
	Collection *ParsedCollection
	Cards      []NormalizedFlashcard
	Stats      ImportStats
}

// Import runs the whole pipeline over buf: parse, transform with the
// given progress callback, aggregate stats. The returned Result is
// deterministic for byte-identical input.
func Import(ctx context.Context, buf []byte, onProgress ProgressFunc) (*Result, error) {
	pipeline, err := Open(buf)
	if err != nil {
		return nil, err
	}
	defer pipeline.Close()
	return pipeline.run(ctx, onProgress)
}

// ImportWithMedia is Import for callers that also need attachment bytes;
// it leaves the pipeline open and hands ownership of Close to the caller.
func ImportWithMedia(ctx context.Context, buf []byte, onProgress ProgressFunc) (*Result, *Pipeline, error) {
	pipeline, err := Open(buf)
	if err != nil {
		return nil, nil, err
	}
	result, err := pipeline.run(ctx, onProgress)
	if err != nil {
		pipeline.Close()
		return nil, nil, err
	}
	return result, pipeline, nil
}

func (p *Pipeline) run(ctx context.Context, onProgress ProgressFunc) (*Result, error) {
	collection, err := p.Parse()
	if err != nil {
		return nil, err
	}

	transformer := NewTransformer(collection)
	cards, err := transformer.Run(ctx, onProgress)
	if err != nil {
		return nil, err
	}

	return &Result{
		Collection: collection,
		Cards:      cards,
		Stats:      BuildStats(collection, transformer),
	}, nil
}
