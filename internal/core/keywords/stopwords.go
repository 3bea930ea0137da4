package keywords

import (
	"maps"
	"slices"
	"strings"
)

// builtin lists, folded on load
var builtin = map[string][]string{
	"en": {
		"a", "about", "after", "all", "also", "an", "and", "any", "are", "as", "at", "be", "been",
		"but", "by", "can", "do", "for", "from", "get", "has", "have", "how", "if", "in", "into",
		"is", "it", "its", "just", "more", "my", "new", "no", "not", "now", "of", "on", "one",
		"or", "our", "out", "so", "than", "that", "the", "their", "them", "then", "there", "this",
		"to", "up", "us", "was", "we", "what", "when", "which", "who", "why", "will", "with",
		"you", "your", "video", "videos", "channel", "subscribe", "http", "https", "www", "com",
	},
	"ko": {
		"그리고", "그러나", "하지만", "그래서", "또한", "이", "그", "저", "것", "수", "등", "및",
		"에서", "으로", "에게", "하는", "있는", "있다", "없다", "합니다", "입니다", "했다", "하면",
		"우리", "저희", "오늘", "정말", "진짜", "너무", "영상", "구독", "좋아요", "채널", "댓글",
	},
}

// Stopwords is an immutable per language stopword set built once at startup
type Stopwords struct {
	byLang map[string]map[string]struct{}
}

// NoStopwords filters nothing
func NoStopwords() Stopwords { return Stopwords{} }

// DefaultStopwords holds the built in en and ko lists
func DefaultStopwords() Stopwords { return NewStopwords(builtin) }

// NewStopwords builds a set from lang to words lists
func NewStopwords(lists map[string][]string) Stopwords {
	s := Stopwords{byLang: map[string]map[string]struct{}{}}
	for lang, words := range lists {
		s.add(lang, words...)
	}
	return s
}

func (s *Stopwords) add(lang string, words ...string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	set, ok := s.byLang[lang]
	if !ok {
		set = map[string]struct{}{}
		s.byLang[lang] = set
	}
	for _, w := range words {
		if w = Fold(strings.TrimSpace(w)); w != "" {
			set[w] = struct{}{}
		}
	}
}

// With returns a copy extended by entries of the form lang:word; entries without a lang go to "any"
func (s Stopwords) With(entries ...string) Stopwords {
	out := Stopwords{byLang: make(map[string]map[string]struct{}, len(s.byLang)+1)}
	for lang, set := range s.byLang {
		out.byLang[lang] = maps.Clone(set)
	}
	for _, e := range entries {
		lang, word, ok := strings.Cut(e, ":")
		if !ok {
			lang, word = "any", e
		}
		out.add(lang, word)
	}
	return out
}

// Contains reports whether token, already folded, is a stopword in any language
func (s Stopwords) Contains(token string) bool {
	for _, set := range s.byLang {
		if _, ok := set[token]; ok {
			return true
		}
	}
	return false
}

// Languages lists the languages with at least one word
func (s Stopwords) Languages() []string {
	out := make([]string, 0, len(s.byLang))
	for lang, set := range s.byLang {
		if len(set) > 0 {
			out = append(out, lang)
		}
	}
	slices.Sort(out)
	return out
}
