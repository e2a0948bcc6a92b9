package ingest

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball/english"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/lexicon"
)

// Stemming selects how words are reduced before counting.
type Stemming int

const (
	StemNone   Stemming = iota
	StemPorter          // Snowball (Porter2) English stemmer
	StemLemma           // dictionary lemmatization
)

func (s Stemming) String() string {
	switch s {
	case StemPorter:
		return "stem"
	case StemLemma:
		return "lemma"
	default:
		return "none"
	}
}

// ParseStemming accepts "", "none", "stem" and "lemma".
func ParseStemming(s string) (Stemming, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return StemNone, nil
	case "stem", "porter":
		return StemPorter, nil
	case "lemma", "lemmatize":
		return StemLemma, nil
	}
	return StemNone, fmt.Errorf("%w: unknown stemming mode %q", internalerr.ErrInvalidConfig, s)
}

// StemmingFromFlags maps independent stem/lemma switches onto a mode.
// Both at once is a configuration error.
func StemmingFromFlags(stem, lemma bool) (Stemming, error) {
	switch {
	case stem && lemma:
		return StemNone, fmt.Errorf("%w: stemming and lemmatization are mutually exclusive", internalerr.ErrInvalidConfig)
	case stem:
		return StemPorter, nil
	case lemma:
		return StemLemma, nil
	}
	return StemNone, nil
}

// Normalizer reduces words according to a Stemming mode.
type Normalizer struct {
	mode Stemming
	lex  *lexicon.Lexicon
}

// NewNormalizer returns a normalizer. StemLemma requires a lexicon.
func NewNormalizer(mode Stemming, lex *lexicon.Lexicon) (*Normalizer, error) {
	if mode == StemLemma && lex == nil {
		return nil, fmt.Errorf("%w: lemmatization requires a lexicon", internalerr.ErrInvalidConfig)
	}
	return &Normalizer{mode: mode, lex: lex}, nil
}

// Mode returns the configured stemming mode.
func (n *Normalizer) Mode() Stemming {
	return n.mode
}

// Normalize folds and reduces a single word.
func (n *Normalizer) Normalize(word string) string {
	return n.Reduce(Fold(word))
}

// Reduce stems or lemmatizes a word the tokenizer already folded.
func (n *Normalizer) Reduce(word string) string {
	if word == "" {
		return ""
	}
	switch n.mode {
	case StemPorter:
		return english.Stem(word, true)
	case StemLemma:
		return n.lex.Lemma(word)
	}
	return word
}

// NormalizeAll normalizes words in place and returns the slice.
func (n *Normalizer) NormalizeAll(words []string) []string {
	if n.mode == StemNone {
		for i, w := range words {
			words[i] = Fold(w)
		}
		return words
	}
	for i, w := range words {
		words[i] = n.Normalize(w)
	}
	return words
}
