package keywords

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinRunes is the shortest token kept
const MinRunes = 2

// Tokenize folds text and splits it on every rune that is not a letter or digit
func Tokenize(text string) []string {
	return strings.FieldsFunc(Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func numeric(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Keep reports whether tok survives the length, stopword and numeric filters
func Keep(tok string, sw Stopwords) bool {
	return utf8.RuneCountInString(tok) >= MinRunes && !sw.Contains(tok) && !numeric(tok)
}

// Term is a ranked keyword
type Term struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Rank counts kept tokens across texts and returns the top limit by frequency;
// equal counts keep first occurrence order. limit <= 0 returns every term
func Rank(texts []string, sw Stopwords, limit int) []Term {
	idx := map[string]int{}
	terms := []Term{}
	for _, text := range texts {
		for _, tok := range Tokenize(text) {
			if !Keep(tok, sw) {
				continue
			}
			if i, ok := idx[tok]; ok {
				terms[i].Count++
				continue
			}
			idx[tok] = len(terms)
			terms = append(terms, Term{Word: tok, Count: 1})
		}
	}
	slices.SortStableFunc(terms, func(a, b Term) int { return cmp.Compare(b.Count, a.Count) })
	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}
