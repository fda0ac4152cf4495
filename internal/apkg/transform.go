package apkg

import (
	"context"
	"log"
	"sort"
)

// progressChunk bounds how much work one Step of the default Run loop
// does between progress callbacks.
const progressChunk = 200

// ProgressFunc receives the transformer's position at a bounded cadence
// so a host UI or event loop can stay responsive.
type ProgressFunc func(done, total int, stage string)

// Transformer turns raw notes into normalized flashcards one note at a
// time. Work is chunked behind an explicit step/resume protocol: the host
// calls Step until it reports completion, or lets Run drive the loop with
// cooperative cancellation. A Transformer is single-use and never shared.
type Transformer struct {
	collection *ParsedCollection

	pos     int
	cards   []NormalizedFlashcard
	skipped int
	cloze   int
	regular int
}

// NewTransformer prepares a transformer over a parsed collection.
func NewTransformer(collection *ParsedCollection) *Transformer {
	return &Transformer{collection: collection}
}

// Total returns the number of raw notes to process.
func (t *Transformer) Total() int {
	return len(t.collection.Notes)
}

// Done returns the number of raw notes processed so far.
func (t *Transformer) Done() int {
	return t.pos
}

// Cards returns the flashcards emitted so far. After Step has reported
// completion this is the full result.
func (t *Transformer) Cards() []NormalizedFlashcard {
	return t.cards
}

// Counts returns diagnostics gathered while stepping: notes that emitted
// cloze cards, notes that emitted a single regular card, and notes
// skipped because of a missing model or a processing failure.
func (t *Transformer) Counts() (clozeNotes, regularNotes, skippedNotes int) {
	return t.cloze, t.regular, t.skipped
}

// Step processes up to n notes and returns true when all notes have been
// consumed. Each call does bounded work; the host decides when to resume.
func (t *Transformer) Step(n int) bool {
	limit := t.pos + n
	if limit > len(t.collection.Notes) {
		limit = len(t.collection.Notes)
	}
	for ; t.pos < limit; t.pos++ {
		t.transformNote(t.collection.Notes[t.pos])
	}
	return t.pos >= len(t.collection.Notes)
}

// Run drives Step in fixed chunks until completion, invoking onProgress
// after every chunk. Cancellation is cooperative: ctx is checked between
// chunks only, never mid-note.
func (t *Transformer) Run(ctx context.Context, onProgress ProgressFunc) ([]NormalizedFlashcard, error) {
	total := t.Total()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		done := t.Step(progressChunk)
		if onProgress != nil {
			onProgress(t.pos, total, "transforming notes")
		}
		if done {
			return t.cards, nil
		}
	}
}

// transformNote processes a single raw note. A failure inside the
// per-note logic is caught, logged with the note id and counted as a
// skip; it never aborts the batch.
func (t *Transformer) transformNote(note RawNote) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("apkg: skipping note %d after processing failure: %v", note.ID, r)
			t.skipped++
		}
	}()

	model, ok := t.collection.Models[note.ModelID]
	if !ok {
		// The single largest source of silently dropped notes; count it
		// so the preview stats can explain the discrepancy.
		t.skipped++
		return
	}

	fields := mapFields(model, note.FieldValues)
	front := fields.front()
	back := fields.back()
	extra := SanitizeText(fields.extra())
	media := t.collectMediaRefs(note)

	base := NormalizedFlashcard{
		Extra:           extra,
		Tags:            note.Tags,
		ReferencedMedia: media,
		SourceNoteID:    note.ID,
		Label:           t.collection.Label,
	}

	if hasCloze(front) {
		for _, index := range clozeIndices(front) {
			card := base
			card.Front = SanitizeText(blankCloze(front))
			card.Back = SanitizeText(revealCloze(front))
			card.ClozeIndex = index
			card.IsCloze = true
			t.cards = append(t.cards, card)
		}
		t.cloze++
		return
	}

	card := base
	card.Front = SanitizeText(front)
	card.Back = SanitizeText(back)
	t.cards = append(t.cards, card)
	t.regular++
}

// collectMediaRefs unions the attachment references across all raw field
// values of one note. Every card emitted from the note carries the full
// union.
func (t *Transformer) collectMediaRefs(note RawNote) []string {
	seen := make(map[string]struct{})
	for _, value := range note.FieldValues {
		for _, ref := range extractMediaRefs(value) {
			seen[ref] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	refs := make([]string, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
