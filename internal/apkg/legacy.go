package apkg

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
)

// legacyAdapter reads the older schema generation, where the whole model
// and deck catalog lives in one collection row as serialized JSON blobs.
type legacyAdapter struct {
	db *sql.DB
}

// legacyModel is the JSON shape of one model inside the col.models blob.
// Keys of the enclosing object are model ids serialized as strings.
type legacyModel struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Fields []struct {
		Name    string `json:"name"`
		Ordinal int    `json:"ord"`
	} `json:"flds"`
}

type legacyDeck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// readBlob fetches one serialized column off the single collection row.
func (a *legacyAdapter) readBlob(column string) (string, error) {
	var blob string
	// Column name comes from a fixed internal list, never user input.
	query := fmt.Sprintf(`SELECT %s FROM col LIMIT 1`, column)
	if err := a.db.QueryRow(query).Scan(&blob); err != nil {
		return "", fmt.Errorf("read col.%s: %w", column, err)
	}
	return blob, nil
}

// Models decodes the col.models JSON blob. A decode failure is degraded,
// not fatal: the import continues with an empty model set and notes that
// reference the missing models are skipped later.
func (a *legacyAdapter) Models() (map[int64]NoteType, error) {
	blob, err := a.readBlob("models")
	if err != nil {
		return nil, err
	}

	var raw map[string]legacyModel
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		log.Printf("apkg: failed to decode legacy model blob, continuing with no models: %v", err)
		return map[int64]NoteType{}, nil
	}

	models := make(map[int64]NoteType, len(raw))
	for key, m := range raw {
		id := m.ID
		if id == 0 {
			// Some exporters omit the id field; the map key carries it.
			id, _ = strconv.ParseInt(key, 10, 64)
		}
		if id == 0 {
			continue
		}

		nt := NoteType{ID: id, Name: m.Name}
		for _, f := range m.Fields {
			nt.Fields = append(nt.Fields, NoteField{Name: f.Name, Ordinal: f.Ordinal})
		}
		sortFieldsByOrdinal(nt.Fields)
		models[id] = nt
	}
	return models, nil
}

// Decks decodes the col.decks JSON blob with the same degraded failure
// policy as Models.
func (a *legacyAdapter) Decks() (map[int64]Deck, error) {
	blob, err := a.readBlob("decks")
	if err != nil {
		return nil, err
	}

	var raw map[string]legacyDeck
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		log.Printf("apkg: failed to decode legacy deck blob, continuing with no decks: %v", err)
		return map[int64]Deck{}, nil
	}

	decks := make(map[int64]Deck, len(raw))
	for key, d := range raw {
		id := d.ID
		if id == 0 {
			id, _ = strconv.ParseInt(key, 10, 64)
		}
		if id == 0 {
			continue
		}
		decks[id] = Deck{ID: id, Name: normalizeDeckName(d.Name)}
	}
	return decks, nil
}
