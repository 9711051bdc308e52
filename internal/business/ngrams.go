package business

import "strings"

// Frequencies maps a token or an n-gram to the number of times it occurs.
// Keys of n-grams are the tokens of the window joined by a single space.
type Frequencies map[string]int

// Total returns the number of occurrences across all keys
func (f Frequencies) Total() int {
	total := 0
	for _, count := range f {
		total += count
	}
	return total
}

// Tokenize splits s on runs of whitespace.
func Tokenize(s string) []string {
	return strings.FieldsFunc(s, isSpace)
}

// NGrams counts the windows of n consecutive tokens in s.
//
// i.e. "i am coding therefore i am", 2 -> {"i am": 2, "am coding": 1, "coding therefore": 1, "therefore i": 1}
//
// A string with fewer than n tokens yields an empty mapping.
func NGrams(s string, n int) Frequencies {
	freq := make(Frequencies)
	if n < 1 {
		return freq
	}

	tokens := Tokenize(s)
	for i := 0; i+n <= len(tokens); i++ {
		freq[strings.Join(tokens[i:i+n], " ")]++
	}
	return freq
}

// BagOfWords counts single tokens of s.
func BagOfWords(s string) Frequencies {
	return NGrams(s, 1)
}
