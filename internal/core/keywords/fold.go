// Package keywords tokenizes catalog text and ranks the most frequent terms
package keywords

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// transformer chains are stateful, so each goroutine takes its own from the pool
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
			norm.NFC,
		)
	},
}

// Fold applies compatibility decomposition, case folding, mark removal and width folding to s,
// then recomposes so Hangul syllables survive
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}
