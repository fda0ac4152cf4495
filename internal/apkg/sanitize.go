package apkg

import (
	"html"
	"regexp"
	"strings"
)

// The sanitizer is a lossy projection from semi-structured card markup to
// readable plain text, not a document parser. Recognized tags map to a
// text effect; everything else is stripped. Malformed or nested markup
// degrades to over-stripping rather than erroring.

// tagEffect is one recognized tag -> replacement mapping, applied before
// the catch-all tag remover.
type tagEffect struct {
	pattern *regexp.Regexp
	replace string
}

var tagEffects = []tagEffect{
	// Line structure first: breaks and block closes become newlines.
	{regexp.MustCompile(`(?i)<br\s*/?>`), "\n"},
	{regexp.MustCompile(`(?i)</p>`), "\n"},
	{regexp.MustCompile(`(?i)</div>`), "\n"},
	// List items get a literal bullet prefix.
	{regexp.MustCompile(`(?i)<li[^>]*>`), "\n• "},
	{regexp.MustCompile(`(?i)</li>`), ""},
	// Inline emphasis collapses to lightweight delimiters.
	{regexp.MustCompile(`(?i)</?(?:b|strong)>`), "**"},
	{regexp.MustCompile(`(?i)</?(?:i|em)>`), "*"},
	{regexp.MustCompile(`(?i)</?u>`), "_"},
}

var (
	anyTagPattern      = regexp.MustCompile(`<[^>]*>`)
	excessNewlines     = regexp.MustCompile(`\n{3,}`)
	trailingLineSpace  = regexp.MustCompile(`[ \t]+\n`)
)

// SanitizeText projects card markup to plain text: recognized tags apply
// their text effect, remaining tags are stripped, entities are decoded
// and runs of three or more newlines collapse to exactly two.
func SanitizeText(input string) string {
	text := input
	for _, effect := range tagEffects {
		text = effect.pattern.ReplaceAllString(text, effect.replace)
	}
	text = anyTagPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = trailingLineSpace.ReplaceAllString(text, "\n")
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Media references are collected from the raw field markup before
// sanitization strips the tags.
var imgSrcPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<img[^>]+src="([^"]+)"`),
	regexp.MustCompile(`(?i)<img[^>]+src='([^']+)'`),
}

// extractMediaRefs returns the referenced attachment filenames in one raw
// field value, in order of appearance.
func extractMediaRefs(raw string) []string {
	var refs []string
	for _, pattern := range imgSrcPatterns {
		for _, m := range pattern.FindAllStringSubmatch(raw, -1) {
			refs = append(refs, m[1])
		}
	}
	return refs
}
