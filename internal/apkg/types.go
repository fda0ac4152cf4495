package apkg

// NoteField is one named, ordered field of a note type.
type NoteField struct {
	Name    string
	Ordinal int
}

// NoteType describes the schema of a note: its named, ordered fields.
// One NoteType is shared by many notes and is immutable once loaded.
type NoteType struct {
	ID     int64
	Name   string
	Fields []NoteField
}

// FieldNames returns the field names in ordinal order.
func (nt NoteType) FieldNames() []string {
	names := make([]string, len(nt.Fields))
	for i, f := range nt.Fields {
		names[i] = f.Name
	}
	return names
}

// Deck is a named card collection inside the export. Decks are only used
// to derive a human-readable label for the whole import.
type Deck struct {
	ID   int64
	Name string
}

// RawNote is one row of the notes table, before any model resolution.
// FieldValues are positional; they get names only when zipped with the
// note type's field list.
type RawNote struct {
	ID          int64
	GUID        string
	ModelID     int64
	ModifiedAt  int64
	Tags        []string
	FieldValues []string
	SortField   string
}

// RawCard is one scheduling-state row of the cards table. The pipeline
// only counts these; scheduling fields are carried but not reinterpreted.
type RawCard struct {
	ID         int64
	NoteID     int64
	DeckID     int64
	Ordinal    int
	Interval   int64
	EaseFactor int64
	Lapses     int64
}

// ParsedCollection is the aggregate output of archive parsing: everything
// the transformer needs, owned exclusively by one pipeline invocation.
type ParsedCollection struct {
	Label      string
	Notes      []RawNote
	Cards      []RawCard
	Models     map[int64]NoteType
	Decks      map[int64]Deck
	MediaIndex map[string]string
}

// NormalizedFlashcard is the transformer's output unit. One RawNote yields
// exactly one card unless its front field contains cloze markup, in which
// case it yields one card per distinct cloze index, ascending.
type NormalizedFlashcard struct {
	Front           string
	Back            string
	Extra           string
	Tags            []string
	ReferencedMedia []string
	ClozeIndex      int // 0 when the card is not a cloze card
	IsCloze         bool
	SourceNoteID    int64
	Label           string
}

// ImportStats is the read-only summary shown on the preview step.
type ImportStats struct {
	Label            string   `json:"label"`
	NoteCount        int      `json:"note_count"`
	CardCount        int      `json:"card_count"`
	MediaCount       int      `json:"media_count"`
	UniqueTagCount   int      `json:"unique_tag_count"`
	TagSample        []string `json:"tag_sample"`
	ClozeNoteCount   int      `json:"cloze_note_count"`
	RegularNoteCount int      `json:"regular_note_count"`
	SkippedNoteCount int      `json:"skipped_note_count"`
}
