package apkg

import "strings"

// Candidate field names tried in priority order when mapping a note's
// positional values to card faces. Matching is done against lower-cased
// field names; the first candidate present and non-empty wins. When no
// candidate matches, the mapper falls back to field position.
var (
	frontFieldCandidates = []string{
		"text",
		"cloze",
		"front",
		"question",
		"expression",
		"word",
		"term",
	}

	backFieldCandidates = []string{
		"back",
		"answer",
		"definition",
		"meaning",
		"translation",
		"response",
	}

	// Supplementary fields are concatenated, in this order, into the
	// card's extra text.
	extraFieldCandidates = []string{
		"extra",
		"notes",
		"note",
		"comments",
		"mnemonic",
		"example",
	}
)

// extraDivider separates concatenated supplementary fields.
const extraDivider = "\n---\n"

// mappedFields is the result of joining a note's positional values with
// its note type's field names.
type mappedFields struct {
	byName    map[string]string
	positions []string
}

// mapFields zips the note type's ordered field names (lower-cased) with
// the note's values by position. Length mismatches are tolerated: missing
// positions read as empty, extra positions are ignored.
func mapFields(model NoteType, values []string) mappedFields {
	byName := make(map[string]string, len(model.Fields))
	for i, field := range model.Fields {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		byName[strings.ToLower(strings.TrimSpace(field.Name))] = value
	}
	return mappedFields{byName: byName, positions: values}
}

// position returns the positional value at i, or empty.
func (m mappedFields) position(i int) string {
	if i < len(m.positions) {
		return m.positions[i]
	}
	return ""
}

// pick returns the first candidate field that exists with a non-empty
// value, falling back to the given position.
func (m mappedFields) pick(candidates []string, fallbackPos int) string {
	for _, name := range candidates {
		if value, ok := m.byName[name]; ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return m.position(fallbackPos)
}

// front resolves the card's front value: candidate names first, then
// positional field 0.
func (m mappedFields) front() string {
	return m.pick(frontFieldCandidates, 0)
}

// back resolves the card's back value: candidate names first, then
// positional field 1.
func (m mappedFields) back() string {
	return m.pick(backFieldCandidates, 1)
}

// extra concatenates all supplementary fields that are present, in
// candidate-list order.
func (m mappedFields) extra() string {
	var parts []string
	for _, name := range extraFieldCandidates {
		if value, ok := m.byName[name]; ok && strings.TrimSpace(value) != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, extraDivider)
}
