// Package textnorm reduces extracted plain text to a canonical term sequence
// for similarity scoring: lowercased, stopword-free, stemmed tokens.
package textnorm

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

const minTokenLength = 2

// Normalize tokenizes the text on non-alphanumeric boundaries, lowercases,
// drops stopwords and tokens shorter than two characters, and stems the rest
// so morphological variants collapse to one term. Empty input yields an empty
// sequence, never an error.
func Normalize(text string) []string {
	if text == "" {
		return nil
	}

	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < minTokenLength {
			continue
		}
		if _, ok := stopwords[field]; ok {
			continue
		}
		tokens = append(tokens, stem(field))
	}

	return tokens
}

// stem applies the English Snowball stemmer, falling back to the raw token
// when the stemmer rejects it (digits, non-English runes).
func stem(token string) string {
	stemmed, err := snowball.Stem(token, "english", false)
	if err != nil || stemmed == "" {
		return token
	}
	return stemmed
}
