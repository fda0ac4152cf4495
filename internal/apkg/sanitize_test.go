package apkg

import "testing"

func TestSanitizeText_PlainTextIsNoOp(t *testing.T) {
	input := "Just plain text"
	if got := SanitizeText(input); got != input {
		t.Errorf("expected %q, got %q", input, got)
	}
}

func TestSanitizeText_LineBreaks(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"br", "one<br>two", "one\ntwo"},
		{"br self-closing", "one<br/>two", "one\ntwo"},
		{"br with space", "one<br />two", "one\ntwo"},
		{"paragraph close", "<p>one</p><p>two</p>", "one\ntwo"},
		{"div close", "<div>one</div><div>two</div>", "one\ntwo"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeText(tc.input); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSanitizeText_ListItems(t *testing.T) {
	input := "<ul><li>first</li><li>second</li></ul>"
	want := "• first\n• second"
	if got := SanitizeText(input); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSanitizeText_Emphasis(t *testing.T) {
	input := "<b>bold</b> and <i>italic</i> and <u>underlined</u>"
	want := "**bold** and *italic* and _underlined_"
	if got := SanitizeText(input); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	input = "<strong>bold</strong> and <em>italic</em>"
	want = "**bold** and *italic*"
	if got := SanitizeText(input); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSanitizeText_StripsUnknownTags(t *testing.T) {
	input := `<span style="color: red">colored</span> <img src="pic.jpg"> text`
	want := "colored  text"
	if got := SanitizeText(input); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSanitizeText_DecodesEntities(t *testing.T) {
	input := "Tom &amp; Jerry &lt;3 caf&eacute;"
	got := SanitizeText(input)
	want := "Tom & Jerry <3 café"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSanitizeText_CollapsesNewlineRuns(t *testing.T) {
	input := "one<br><br><br><br>two"
	want := "one\n\ntwo"
	if got := SanitizeText(input); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSanitizeText_MalformedMarkupDegrades(t *testing.T) {
	// An unclosed tag swallows up to the next '>', over-stripping rather
	// than erroring.
	input := "before <span unterminated after"
	got := SanitizeText(input)
	if got == "" {
		t.Errorf("expected non-empty output, got empty")
	}
}

func TestExtractMediaRefs(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"double quotes", `see <img src="anatomy.jpg"> here`, []string{"anatomy.jpg"}},
		{"single quotes", `see <img src='x.png'> here`, []string{"x.png"}},
		{"with attributes", `<img class="big" src="pic.gif" alt="">`, []string{"pic.gif"}},
		{"none", "no images here", nil},
		{"multiple", `<img src="a.jpg"><img src="b.jpg">`, []string{"a.jpg", "b.jpg"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extractMediaRefs(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d refs, got %d (%v)", len(tc.want), len(got), got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("ref %d: expected %q, got %q", i, tc.want[i], got[i])
				}
			}
		})
	}
}
