package apkg

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// The notes table joins positional field values into one string with the
// ASCII unit separator.
const fieldSeparator = "\x1f"

func sortFieldsByOrdinal(fields []NoteField) {
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Ordinal < fields[j].Ordinal
	})
}

// readNotes extracts the raw note rows. The notes table has identical
// column semantics in both schema generations.
func readNotes(db *sql.DB) ([]RawNote, error) {
	rows, err := db.Query(`SELECT id, guid, mid, mod, tags, flds, sfld FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []RawNote
	for rows.Next() {
		var note RawNote
		var tags, flds string
		var sortField sql.NullString
		if err := rows.Scan(&note.ID, &note.GUID, &note.ModelID, &note.ModifiedAt, &tags, &flds, &sortField); err != nil {
			return nil, fmt.Errorf("scan note row: %w", err)
		}
		note.Tags = splitTags(tags)
		note.FieldValues = strings.Split(flds, fieldSeparator)
		note.SortField = sortField.String
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate note rows: %w", err)
	}
	return notes, nil
}

// readCards extracts the raw card rows; like notes, the cards table is
// stable across schema generations.
func readCards(db *sql.DB) ([]RawCard, error) {
	rows, err := db.Query(`SELECT id, nid, did, ord, ivl, factor, lapses FROM cards`)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []RawCard
	for rows.Next() {
		var card RawCard
		if err := rows.Scan(&card.ID, &card.NoteID, &card.DeckID, &card.Ordinal, &card.Interval, &card.EaseFactor, &card.Lapses); err != nil {
			return nil, fmt.Errorf("scan card row: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate card rows: %w", err)
	}
	return cards, nil
}

// splitTags turns the space-separated tag column into a deduplicated,
// sorted list.
func splitTags(raw string) []string {
	seen := make(map[string]struct{})
	for _, tag := range strings.Fields(raw) {
		seen[tag] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
