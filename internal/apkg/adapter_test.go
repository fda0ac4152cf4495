package apkg

import "testing"

func deckSet(names ...string) map[int64]Deck {
	decks := make(map[int64]Deck, len(names))
	for i, name := range names {
		id := int64(i + 1)
		decks[id] = Deck{ID: id, Name: name}
	}
	return decks
}

func TestSelectLabel_LongestNonDefault(t *testing.T) {
	decks := deckSet("Default", "Bio", "Biology::Chapter 12 - Genetics")
	if got := selectLabel(decks); got != "Biology::Chapter 12 - Genetics" {
		t.Errorf("expected nested deck name, got %q", got)
	}
}

func TestSelectLabel_OnlyDefault(t *testing.T) {
	decks := deckSet("Default")
	if got := selectLabel(decks); got != FallbackLabel {
		t.Errorf("expected fallback label, got %q", got)
	}
}

func TestSelectLabel_Empty(t *testing.T) {
	if got := selectLabel(map[int64]Deck{}); got != FallbackLabel {
		t.Errorf("expected fallback label, got %q", got)
	}
}

func TestSelectLabel_TieBreaksAlphabetically(t *testing.T) {
	decks := deckSet("Zebra Deck", "Alpha Deck")
	if got := selectLabel(decks); got != "Alpha Deck" {
		t.Errorf("expected alphabetical tie-break, got %q", got)
	}
}

func TestNormalizeDeckName(t *testing.T) {
	if got := normalizeDeckName("Parent\x1fChild"); got != "Parent::Child" {
		t.Errorf("expected 'Parent::Child', got %q", got)
	}
}
