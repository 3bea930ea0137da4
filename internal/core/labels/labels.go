// Package labels is the single codec between classifier label strings and their enums
package labels

import (
	"strings"

	perr "tubepulse/internal/platform/errors"
)

// table is one bidirectional enum lookup; index 0 is always unknown
type table struct {
	names []string
	index map[string]uint8
}

func newTable(names ...string) table {
	t := table{names: append([]string{"unknown"}, names...), index: map[string]uint8{}}
	for i, n := range t.names {
		t.index[fold(n)] = uint8(i)
	}
	return t
}

// fold drops case and the separators classifiers disagree on
func fold(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '.':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

func (t table) decode(s string) uint8 { return t.index[fold(s)] }

func (t table) name(v uint8) string {
	if int(v) >= len(t.names) {
		return t.names[0]
	}
	return t.names[v]
}

// Sentiment is a comment sentiment label
type Sentiment uint8

// Sentiment values
const (
	SentimentUnknown Sentiment = iota
	SentimentPositive
	SentimentNeutral
	SentimentNegative
)

var sentiments = newTable("positive", "neutral", "negative")

// ParseSentiment decodes s; unrecognized input is SentimentUnknown
func ParseSentiment(s string) Sentiment { return Sentiment(sentiments.decode(s)) }

// String returns the canonical persisted form
func (s Sentiment) String() string { return sentiments.name(uint8(s)) }

// MarshalText implements encoding.TextMarshaler
func (s Sentiment) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Sentiment) UnmarshalText(b []byte) error {
	*s = ParseSentiment(string(b))
	return nil
}

// SpeechAct is what a comment does, as tagged by the classifier
type SpeechAct uint8

// SpeechAct values
const (
	SpeechActUnknown SpeechAct = iota
	SpeechActQuestion
	SpeechActRequest
	SpeechActPraise
	SpeechActComplaint
	SpeechActSuggestion
	SpeechActStatement
)

var speechActs = newTable("question", "request", "praise", "complaint", "suggestion", "statement")

// ParseSpeechAct decodes s; unrecognized input is SpeechActUnknown
func ParseSpeechAct(s string) SpeechAct { return SpeechAct(speechActs.decode(s)) }

// String returns the canonical persisted form
func (a SpeechAct) String() string { return speechActs.name(uint8(a)) }

// MarshalText implements encoding.TextMarshaler
func (a SpeechAct) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (a *SpeechAct) UnmarshalText(b []byte) error {
	*a = ParseSpeechAct(string(b))
	return nil
}

// Kind selects which label a distribution groups by
type Kind string

// Kinds
const (
	KindSentiment Kind = "sentiment"
	KindSpeechAct Kind = "speech_act"
)

// ParseKind accepts sentiment or speech_act in any case or separator style
func ParseKind(s string) (Kind, error) {
	switch fold(s) {
	case fold(string(KindSentiment)):
		return KindSentiment, nil
	case fold(string(KindSpeechAct)):
		return KindSpeechAct, nil
	}
	return "", perr.WithField(perr.InvalidArgf("unknown label kind %q", s), "kind")
}

// Canonical decodes raw under kind and returns its persisted form
func (k Kind) Canonical(raw string) string {
	if k == KindSpeechAct {
		return ParseSpeechAct(raw).String()
	}
	return ParseSentiment(raw).String()
}
