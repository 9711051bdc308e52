package business

import (
	"reflect"
	"testing"
)

func TestNGrams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		want  Frequencies
	}{
		{
			name:  "bigrams with repeats",
			input: "i am coding therefore i am",
			n:     2,
			want:  Frequencies{"i am": 2, "am coding": 1, "coding therefore": 1, "therefore i": 1},
		},
		{
			name:  "bag of words",
			input: "buffalo buffalo in new york",
			n:     1,
			want:  Frequencies{"buffalo": 2, "in": 1, "new": 1, "york": 1},
		},
		{
			name:  "trigrams over runs of whitespace",
			input: "a  b\tc\n d",
			n:     3,
			want:  Frequencies{"a b c": 1, "b c d": 1},
		},
		{"information separators split tokens", "a\x1cb\x1fc", 1, Frequencies{"a": 1, "b": 1, "c": 1}},
		{"fewer tokens than n", "one two", 3, Frequencies{}},
		{"whitespace only", "   \t ", 1, Frequencies{}},
		{"empty", "", 2, Frequencies{}},
		{"non-positive n", "a b c", 0, Frequencies{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NGrams(tt.input, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NGrams(%q, %d) = %v, want %v", tt.input, tt.n, got, tt.want)
			}
		})
	}
}

func TestNGramsTotalMatchesWindowCount(t *testing.T) {
	input := "the quick brown fox jumps over the lazy dog the quick"
	tokens := len(Tokenize(input))

	for n := 1; n <= tokens+2; n++ {
		want := max(0, tokens-n+1)
		if got := NGrams(input, n).Total(); got != want {
			t.Errorf("NGrams(_, %d).Total() = %d, want %d", n, got, want)
		}
	}
}

func TestBagOfWords(t *testing.T) {
	got := BagOfWords("to be or not to be")
	want := Frequencies{"to": 2, "be": 2, "or": 1, "not": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BagOfWords() = %v, want %v", got, want)
	}
}
