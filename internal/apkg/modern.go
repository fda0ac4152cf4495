package apkg

import (
	"database/sql"
	"fmt"
)

// modernAdapter reads the newer schema generation, where note types and
// their fields live in normalized tables and need no JSON decoding.
type modernAdapter struct {
	db *sql.DB
}

func (a *modernAdapter) Models() (map[int64]NoteType, error) {
	rows, err := a.db.Query(`SELECT id, name FROM notetypes`)
	if err != nil {
		return nil, fmt.Errorf("query notetypes: %w", err)
	}
	defer rows.Close()

	models := make(map[int64]NoteType)
	for rows.Next() {
		var nt NoteType
		if err := rows.Scan(&nt.ID, &nt.Name); err != nil {
			return nil, fmt.Errorf("scan notetype row: %w", err)
		}
		models[nt.ID] = nt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notetype rows: %w", err)
	}

	for id, nt := range models {
		fields, err := a.fieldsFor(id)
		if err != nil {
			return nil, err
		}
		nt.Fields = fields
		models[id] = nt
	}
	return models, nil
}

func (a *modernAdapter) fieldsFor(noteTypeID int64) ([]NoteField, error) {
	rows, err := a.db.Query(
		`SELECT name, ord FROM fields WHERE ntid = ? ORDER BY ord`, noteTypeID,
	)
	if err != nil {
		return nil, fmt.Errorf("query fields for notetype %d: %w", noteTypeID, err)
	}
	defer rows.Close()

	var fields []NoteField
	for rows.Next() {
		var f NoteField
		if err := rows.Scan(&f.Name, &f.Ordinal); err != nil {
			return nil, fmt.Errorf("scan field row: %w", err)
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate field rows: %w", err)
	}
	return fields, nil
}

func (a *modernAdapter) Decks() (map[int64]Deck, error) {
	rows, err := a.db.Query(`SELECT id, name FROM decks`)
	if err != nil {
		return nil, fmt.Errorf("query decks: %w", err)
	}
	defer rows.Close()

	decks := make(map[int64]Deck)
	for rows.Next() {
		var d Deck
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("scan deck row: %w", err)
		}
		d.Name = normalizeDeckName(d.Name)
		decks[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deck rows: %w", err)
	}
	return decks, nil
}
