package apkg

import (
	"fmt"
	"testing"
)

func TestBuildStats_Empty(t *testing.T) {
	stats := BuildStats(nil, nil)
	if stats.NoteCount != 0 || stats.CardCount != 0 || stats.MediaCount != 0 {
		t.Errorf("expected zero counts, got %+v", stats)
	}
	if stats.Label != FallbackLabel {
		t.Errorf("expected fallback label, got %q", stats.Label)
	}
}

func TestBuildStats_Counts(t *testing.T) {
	collection := &ParsedCollection{
		Label: "Geography",
		Notes: []RawNote{
			{ID: 1, ModelID: 1, Tags: []string{"europe", "capitals"}, FieldValues: []string{"f", "b"}},
			{ID: 2, ModelID: 1, Tags: []string{"capitals"}, FieldValues: []string{"{{c1::x}}", ""}},
			{ID: 3, ModelID: 99, FieldValues: []string{"orphan", ""}},
		},
		Cards:      []RawCard{{ID: 1, NoteID: 1}, {ID: 2, NoteID: 2}},
		Models:     map[int64]NoteType{1: basicModel("Front", "Back")},
		MediaIndex: map[string]string{"0": "a.jpg"},
	}

	transformer := NewTransformer(collection)
	if done := transformer.Step(100); !done {
		t.Fatalf("expected transformer to finish in one step")
	}

	stats := BuildStats(collection, transformer)
	if stats.Label != "Geography" {
		t.Errorf("expected label 'Geography', got %q", stats.Label)
	}
	if stats.NoteCount != 2 {
		t.Errorf("expected 2 resolved notes, got %d", stats.NoteCount)
	}
	if stats.SkippedNoteCount != 1 {
		t.Errorf("expected 1 skipped note, got %d", stats.SkippedNoteCount)
	}
	if stats.ClozeNoteCount != 1 || stats.RegularNoteCount != 1 {
		t.Errorf("expected 1 cloze + 1 regular note, got %d + %d", stats.ClozeNoteCount, stats.RegularNoteCount)
	}
	if stats.CardCount != 2 {
		t.Errorf("expected 2 cards, got %d", stats.CardCount)
	}
	if stats.MediaCount != 1 {
		t.Errorf("expected 1 media entry, got %d", stats.MediaCount)
	}
	if stats.UniqueTagCount != 2 {
		t.Errorf("expected 2 unique tags, got %d", stats.UniqueTagCount)
	}
	if len(stats.TagSample) != 2 {
		t.Errorf("expected 2 sampled tags, got %v", stats.TagSample)
	}
}

func TestBuildStats_TagSampleCapped(t *testing.T) {
	collection := &ParsedCollection{Label: "Big"}
	for i := 0; i < tagSampleCap+25; i++ {
		collection.Notes = append(collection.Notes, RawNote{
			ID:   int64(i + 1),
			Tags: []string{fmt.Sprintf("tag-%03d", i)},
		})
	}

	stats := BuildStats(collection, nil)
	if stats.UniqueTagCount != tagSampleCap+25 {
		t.Errorf("expected %d unique tags, got %d", tagSampleCap+25, stats.UniqueTagCount)
	}
	if len(stats.TagSample) != tagSampleCap {
		t.Errorf("expected sample capped at %d, got %d", tagSampleCap, len(stats.TagSample))
	}
}
