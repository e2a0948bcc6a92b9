package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// TokenizerOptions configures a Tokenizer. The zero value keeps every word,
// which is what the statistics analyzers want.
type TokenizerOptions struct {
	// StopLanguage selects a built-in stopword list ("en", "de", ...).
	StopLanguage string
	// Stopwords are extra words to drop.
	Stopwords []string
	// MinLength drops words shorter than this many runes.
	MinLength int
}

// Tokenizer splits text into lowercased, NFC-normalized words.
type Tokenizer struct {
	stop      *StopList
	minLength int
}

// NewTokenizer creates a tokenizer with the given options.
func NewTokenizer(opts TokenizerOptions) (*Tokenizer, error) {
	stop, err := NewStopList(opts.StopLanguage, opts.Stopwords)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{stop: stop, minLength: opts.MinLength}, nil
}

// DefaultTokenizer keeps every word.
func DefaultTokenizer() *Tokenizer {
	return &Tokenizer{stop: &StopList{words: map[string]struct{}{}}}
}

// Tokenize splits text on anything that is not a letter, digit, or an
// apostrophe/hyphen inside a word.
func (t *Tokenizer) Tokenize(text string) []string {
	text = Fold(text)

	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := t.processToken(current.String()); word != "" {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r) || isJoiner(r) {
			current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// Fold applies the tokenizer's case folding: NFC composition followed by
// Unicode lowercasing.
func Fold(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

func isJoiner(r rune) bool {
	return r == '-' || r == '\'' || r == '’'
}

// processToken trims joiners at the word edges and applies the length and
// stopword filters.
func (t *Tokenizer) processToken(token string) string {
	word := strings.TrimFunc(token, isJoiner)
	if word == "" {
		return ""
	}
	if t.minLength > 0 && len([]rune(word)) < t.minLength {
		return ""
	}
	if t.IsStopword(word) {
		return ""
	}
	return word
}

// IsStopword reports whether word is filtered by this tokenizer.
func (t *Tokenizer) IsStopword(word string) bool {
	return t.stop.IsStopword(word)
}

// AddStopword adds a word to the stopword list
func (t *Tokenizer) AddStopword(word string) {
	t.stop.Add(word)
}
