package matching

import (
	"reflect"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	vocab, err := NewVocabulary([]string{"pasta", "scallion", "tomato", "garlic", "spring onion"})
	if err != nil {
		t.Fatalf("NewVocabulary: %v", err)
	}
	eng, err := NewEngine(vocab, nil, Options{Lemmatizer: LemmatizerSuffix})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return eng
}

func TestNewEngineErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(nil, nil, Options{}); err == nil {
		t.Error("expected error without vocabulary")
	}
	vocab, _ := NewVocabulary([]string{"egg"})
	if _, err := NewEngine(vocab, nil, Options{Lemmatizer: "wordnet"}); err == nil {
		t.Error("expected error for unknown lemmatizer")
	}
}

func TestEngineCanonical(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	got := eng.Canonical([]string{"Spring Onions", "scallion", "Tomatoes"})
	want := []string{"green onion", "tomato"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Canonical = %q, want %q", got, want)
	}
}

func TestEngineHints(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	recipe := []string{"Pasta", "Spring Onions", "Garlic", "Tomatoes", "pasta"}

	matched, missing := eng.Hints([]string{"scallion", "pasta"}, recipe, 5)
	if !reflect.DeepEqual(matched, []string{"pasta", "spring onion"}) {
		t.Errorf("matched = %q", matched)
	}
	if !reflect.DeepEqual(missing, []string{"garlic", "tomato"}) {
		t.Errorf("missing = %q", missing)
	}

	_, missing = eng.Hints([]string{"scallion", "pasta"}, recipe, 1)
	if !reflect.DeepEqual(missing, []string{"garlic"}) {
		t.Errorf("missing with k=1 = %q", missing)
	}
}

func TestEngineWeightsUseCanonicalKeys(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	w, err := eng.Weights(map[string]float64{"Spring Onions": 2})
	if err != nil {
		t.Fatalf("Weights: %v", err)
	}
	if !reflect.DeepEqual(w, WeightTable{"green onion": 2}) {
		t.Errorf("weights = %v", w)
	}

	user := eng.Canonical([]string{"scallion", "pasta"})
	recipe := eng.Canonical([]string{"spring onion", "pasta", "garlic"})
	// overlap 3, recall 1, precision 1.5
	if got := Score(user, recipe, w); got != 4.2 {
		t.Errorf("Score = %v, want 4.2", got)
	}
}
