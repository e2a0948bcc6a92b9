package ingest

import (
	"fmt"
	"strings"

	"github.com/orsinium-labs/stopwords"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
)

// StopList is a set of stop words: an optional bundled list for a
// language plus explicit extra words. A nil *StopList contains nothing.
type StopList struct {
	words   map[string]struct{}
	builtin func(string) bool
}

// NewStopList combines the bundled list for lang (empty for none) with
// words.
func NewStopList(lang string, words []string) (*StopList, error) {
	s := &StopList{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.Add(w)
	}
	if lang != "" {
		contains, err := builtinStopwords(lang)
		if err != nil {
			return nil, err
		}
		s.builtin = contains
	}
	return s, nil
}

// builtinStopwords looks up a bundled list. MustGet panics on unknown
// languages; that is turned into a configuration error.
func builtinStopwords(lang string) (contains func(string) bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			contains = nil
			err = fmt.Errorf("%w: no stopword list for language %q", internalerr.ErrInvalidConfig, lang)
		}
	}()
	sw := stopwords.MustGet(lang)
	return sw.Contains, nil
}

// IsStopword reports whether word is on the list.
func (s *StopList) IsStopword(word string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.words[word]; ok {
		return true
	}
	return s.builtin != nil && s.builtin(word)
}

// Add puts a word on the list.
func (s *StopList) Add(word string) {
	if w := Fold(strings.TrimSpace(word)); w != "" {
		s.words[w] = struct{}{}
	}
}

// Len returns the number of explicit words, not counting the bundled list.
func (s *StopList) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}
