package apkg

import (
	"sort"
	"strings"
)

// FallbackLabel is used when the export has no deck name worth showing.
const FallbackLabel = "Imported Deck"

// defaultDeckName is the literal name of the deck every export carries;
// it is never a useful label.
const defaultDeckName = "Default"

// collectionAdapter extracts the canonical record sets from one schema
// generation of the embedded database. Both implementations return the
// same shapes so nothing downstream branches on the generation.
type collectionAdapter interface {
	Models() (map[int64]NoteType, error)
	Decks() (map[int64]Deck, error)
}

// selectLabel picks the import's display label from the deck set: the
// longest name that is not the literal default deck. The assumption is
// that more specific (nested) decks have longer names; this is a
// heuristic, not a guarantee. Ties break alphabetically so the result is
// deterministic.
func selectLabel(decks map[int64]Deck) string {
	candidates := make([]string, 0, len(decks))
	for _, deck := range decks {
		name := strings.TrimSpace(deck.Name)
		if name == "" || name == defaultDeckName {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) == 0 {
		return FallbackLabel
	}

	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i]) != len(candidates[j]) {
			return len(candidates[i]) > len(candidates[j])
		}
		return candidates[i] < candidates[j]
	})
	return candidates[0]
}

// normalizeDeckName maps the 0x1f nesting separator some exporter
// versions use in deck names to the :: convention the legacy blobs use,
// so both schema generations yield identical labels.
func normalizeDeckName(name string) string {
	return strings.ReplaceAll(name, "\x1f", "::")
}
