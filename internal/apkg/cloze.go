package apkg

import (
	"regexp"
	"sort"
	"strconv"
)

// Cloze spans look like {{c1::answer}} or {{c2::answer::hint}}.
// Submatches: 1 = index, 2 = answer, 3 = optional hint.
var clozePattern = regexp.MustCompile(`\{\{c(\d+)::(.*?)(?:::(.*?))?\}\}`)

// blankMarker replaces a cloze span with no hint on the front face.
const blankMarker = "[...]"

// clozeIndices returns the distinct cloze indices present in text,
// ascending. The set is local to one note; nothing persists across notes.
func clozeIndices(text string) []int {
	matches := clozePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[int]struct{})
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		seen[n] = struct{}{}
	}

	indices := make([]int, 0, len(seen))
	for n := range seen {
		indices = append(indices, n)
	}
	sort.Ints(indices)
	return indices
}

// hasCloze reports whether text contains any cloze markup.
func hasCloze(text string) bool {
	return clozePattern.MatchString(text)
}

// blankCloze renders the front face: every cloze span, regardless of its
// index, becomes a blanked placeholder. Spans with a hint render the hint
// in parentheses, the rest render a fixed ellipsis marker. The source
// format does not visually single out the index under test, and neither
// do we.
func blankCloze(text string) string {
	return clozePattern.ReplaceAllStringFunc(text, func(span string) string {
		m := clozePattern.FindStringSubmatch(span)
		if len(m) == 4 && m[3] != "" {
			return "(" + m[3] + ")"
		}
		return blankMarker
	})
}

// revealCloze renders the back face: every cloze span is replaced by its
// answer text.
func revealCloze(text string) string {
	return clozePattern.ReplaceAllString(text, "$2")
}
