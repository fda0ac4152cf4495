package apkg

import "testing"

const clozeSample = "The capital of France is {{c1::Paris}} and of Germany is {{c2::Berlin::hint}}"

func TestClozeIndices(t *testing.T) {
	indices := clozeIndices(clozeSample)
	if len(indices) != 2 {
		t.Fatalf("expected 2 indices, got %d (%v)", len(indices), indices)
	}
	if indices[0] != 1 || indices[1] != 2 {
		t.Errorf("expected [1 2], got %v", indices)
	}
}

func TestClozeIndices_DeduplicatedAndSorted(t *testing.T) {
	text := "{{c3::a}} {{c1::b}} {{c3::c}} {{c1::d}}"
	indices := clozeIndices(text)
	if len(indices) != 2 {
		t.Fatalf("expected 2 indices, got %d (%v)", len(indices), indices)
	}
	if indices[0] != 1 || indices[1] != 3 {
		t.Errorf("expected [1 3], got %v", indices)
	}
}

func TestClozeIndices_NoMarkup(t *testing.T) {
	if indices := clozeIndices("no cloze here"); indices != nil {
		t.Errorf("expected nil, got %v", indices)
	}
	if hasCloze("no cloze here") {
		t.Errorf("expected hasCloze to be false")
	}
}

func TestBlankCloze(t *testing.T) {
	got := blankCloze(clozeSample)
	want := "The capital of France is [...] and of Germany is (hint)"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRevealCloze(t *testing.T) {
	got := revealCloze(clozeSample)
	want := "The capital of France is Paris and of Germany is Berlin"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRevealCloze_DropsHint(t *testing.T) {
	got := revealCloze("{{c1::mitochondria::organelle}}")
	if got != "mitochondria" {
		t.Errorf("expected %q, got %q", "mitochondria", got)
	}
}

func TestBlankCloze_AllIndicesBlanked(t *testing.T) {
	// The front face does not distinguish the index under test; every
	// span is blanked regardless of its number.
	got := blankCloze("{{c1::a}} {{c2::b}} {{c3::c}}")
	want := "[...] [...] [...]"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
