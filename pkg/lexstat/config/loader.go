package config

import (
	"fmt"

	"github.com/cognicore/lexstat/pkg/lexstat/association"
	"github.com/cognicore/lexstat/pkg/lexstat/ingest"
	"github.com/cognicore/lexstat/pkg/lexstat/lexicon"
	"github.com/cognicore/lexstat/pkg/lexstat/wordlist"
)

// Loader loads the files a Config points at and constructs components
type Loader struct {
	Config *Config
}

// Components holds everything the analyzers need from configuration.
type Components struct {
	Stemming ingest.Stemming
	Lexicon  *lexicon.Lexicon // nil unless a lexicon path is set
	StopList *ingest.StopList
	Scorer   association.Scorer
}

// WordList returns word list options for the configured normalization.
// Stop words stay in the token stream; analyzers filter them from results.
func (c *Components) WordList(ngram int) wordlist.Options {
	return wordlist.Options{
		NgramSize: ngram,
		Stemming:  c.Stemming,
		Lexicon:   c.Lexicon,
	}
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	comp := &Components{}

	mode, err := ingest.ParseStemming(cfg.Analysis.Stemming)
	if err != nil {
		return nil, err
	}
	comp.Stemming = mode

	// Load lexicon
	if cfg.Lexicon.Path != "" {
		lex, err := lexicon.LoadFromYAML(cfg.Lexicon.Path)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	}

	// Load stoplist
	var terms []string
	if cfg.Stoplist.Path != "" {
		sl, err := LoadStoplist(cfg.Stoplist.Path)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		terms = sl.Terms
	}
	comp.StopList, err = ingest.NewStopList(cfg.Stoplist.Language, terms)
	if err != nil {
		return nil, fmt.Errorf("load stoplist: %w", err)
	}

	comp.Scorer, err = association.ByName(cfg.Analysis.Scorer)
	if err != nil {
		return nil, err
	}

	return comp, nil
}
