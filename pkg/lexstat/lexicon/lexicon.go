package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon is a dictionary lemmatizer: it maps inflected surface forms to
// their lemma ("was" -> "be", "mice" -> "mouse").
//
// The mapping is bidirectional: a lemma can be expanded to every known
// form, and any form can be reduced to its lemma. Words that are not in the
// dictionary lemmatize to themselves.
type Lexicon struct {
	// lemma -> all forms (including the lemma itself, always first)
	forms map[string][]string

	// form -> lemma
	reverseIndex map[string]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		forms:        make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// LoadFromYAML loads lemma groups from a YAML file.
//
// Expected format:
//
//	lemmas:
//	  - lemma: be
//	    forms: [am, is, are, was, were, been, being]
//	  - lemma: mouse
//	    forms: [mice]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	return lex, nil
}

// Parse builds a lexicon from YAML bytes in the LoadFromYAML format.
func Parse(data []byte) (*Lexicon, error) {
	var doc struct {
		Lemmas []struct {
			Lemma string   `yaml:"lemma"`
			Forms []string `yaml:"forms"`
		} `yaml:"lemmas"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	lex := New()
	for _, entry := range doc.Lemmas {
		if strings.TrimSpace(entry.Lemma) == "" {
			continue
		}
		lex.AddLemma(entry.Lemma, entry.Forms)
	}
	return lex, nil
}

// AddLemma registers forms for a lemma. Re-adding a lemma replaces its
// previous forms.
func (l *Lexicon) AddLemma(lemma string, forms []string) {
	lemma = strings.ToLower(strings.TrimSpace(lemma))

	if old, exists := l.forms[lemma]; exists {
		for _, f := range old {
			if l.reverseIndex[f] == lemma {
				delete(l.reverseIndex, f)
			}
		}
	}

	normalized := make([]string, 0, len(forms)+1)
	seen := map[string]bool{lemma: true}
	normalized = append(normalized, lemma)
	for _, f := range forms {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		normalized = append(normalized, f)
		seen[f] = true
	}

	l.forms[lemma] = normalized
	for _, f := range normalized {
		l.reverseIndex[f] = lemma
	}
}

// Lemma returns the lemma of word, or word itself (lowercased) when the
// dictionary has no entry for it.
func (l *Lexicon) Lemma(word string) string {
	word = strings.ToLower(word)
	if lemma, ok := l.reverseIndex[word]; ok {
		return lemma
	}
	return word
}

// LemmatizeAll maps Lemma over words, returning a new slice.
func (l *Lexicon) LemmatizeAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = l.Lemma(w)
	}
	return out
}

// Forms returns every known form sharing word's lemma, lemma first.
// Unknown words return a slice holding only the word.
func (l *Lexicon) Forms(word string) []string {
	word = strings.ToLower(word)
	if forms, ok := l.forms[l.Lemma(word)]; ok {
		return forms
	}
	return []string{word}
}

// Has reports whether word is a known lemma or form.
func (l *Lexicon) Has(word string) bool {
	_, ok := l.reverseIndex[strings.ToLower(word)]
	return ok
}

// Stats returns the number of lemma groups and forms.
func (l *Lexicon) Stats() Stats {
	total := 0
	for _, forms := range l.forms {
		total += len(forms)
	}
	return Stats{Lemmas: len(l.forms), Forms: total}
}

// Stats holds lexicon size information.
type Stats struct {
	Lemmas int // number of lemma groups
	Forms  int // total forms across groups, lemmas included
}
