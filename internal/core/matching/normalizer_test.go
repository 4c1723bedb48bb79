package matching

import (
	"reflect"
	"testing"
)

func TestSingularize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"berries", "berry"},
		{"ies", "i"},
		{"potatoes", "potato"},
		{"es", "e"},
		{"onions", "onion"},
		{"s", "s"},
		{"rice", "rice"},
		{"glass", "glas"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Singularize(tt.in); got != tt.want {
			t.Errorf("Singularize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeSuffix(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(NewSuffixLemmatizer())

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "dedup lowercase singular",
			in:   []string{" Tomatoes", "tomato", "", "   ", "Berries", "EGGS", "green onions"},
			want: []string{"berry", "egg", "green onion", "tomato"},
		},
		{
			name: "accents folded",
			in:   []string{"Jalapeños"},
			want: []string{"jalapeno"},
		},
		{
			name: "empty input",
			in:   nil,
			want: []string{},
		},
		{
			name: "internal whitespace collapsed",
			in:   []string{"  spring    onions "},
			want: []string{"spring onion"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := n.Normalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeOrderedKeepsRecipeOrder(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	got := n.Ordered([]string{"Tomatoes", "Basil", "tomato", "Garlic"})
	want := []string{"tomato", "basil", "garlic"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ordered = %q, want %q", got, want)
	}
}

func TestLinguisticLemmatizer(t *testing.T) {
	t.Parallel()

	vocab, err := NewVocabulary([]string{"tomato", "berry", "cherry tomatoes", "egg", "jalapeno"})
	if err != nil {
		t.Fatalf("NewVocabulary: %v", err)
	}
	tables, err := DefaultTables()
	if err != nil {
		t.Fatalf("DefaultTables: %v", err)
	}
	lem, err := NewLinguisticLemmatizer(vocab, tables)
	if err != nil {
		t.Fatalf("NewLinguisticLemmatizer: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"tomatoes", "tomato"},
		{"tomato", "tomato"},
		{"berries", "berry"},
		{"eggs", "egg"},
		{"saffron", "saffron"},
		// 不在詞彙表或表格中的複數
		{"carrots", "carrot"},
		{"lentils", "lentil"},
		// 表格中的詞
		{"anchovies", "anchovy"},
		{"scallions", "scallion"},
		{"thighs", "thigh"},
	}
	for _, tt := range tests {
		if got := lem.Lemmatize(tt.in); got != tt.want {
			t.Errorf("Lemmatize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	n := NewNormalizer(lem)
	got := n.Normalize([]string{"Cherry Tomatoes", "Eggs", "eggs", "Sardines", "Jalapeños"})
	want := []string{"cherry tomato", "egg", "jalapeno", "sardine"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestSelectLemmatizer(t *testing.T) {
	t.Parallel()

	vocab, _ := NewVocabulary([]string{"tomato"})

	tests := []struct {
		mode    string
		vocab   *Vocabulary
		want    string
		wantErr bool
	}{
		{mode: "suffix", vocab: vocab, want: LemmatizerSuffix},
		{mode: "linguistic", vocab: vocab, want: LemmatizerLinguistic},
		{mode: "auto", vocab: vocab, want: LemmatizerLinguistic},
		{mode: "", vocab: nil, want: LemmatizerLinguistic},
		{mode: "wordnet", vocab: vocab, wantErr: true},
	}
	for _, tt := range tests {
		lem, err := SelectLemmatizer(tt.mode, tt.vocab, nil)
		if tt.wantErr {
			if err == nil {
				t.Errorf("SelectLemmatizer(%q) expected error", tt.mode)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SelectLemmatizer(%q): %v", tt.mode, err)
		}
		if lem.Name() != tt.want {
			t.Errorf("SelectLemmatizer(%q) = %s, want %s", tt.mode, lem.Name(), tt.want)
		}
	}
}
