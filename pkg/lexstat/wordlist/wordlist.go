// Package wordlist turns documents into the token streams every analyzer
// consumes: lowercased words, optionally stemmed or lemmatized, optionally
// grouped into space-joined n-grams.
package wordlist

import (
	"fmt"
	"iter"
	"strings"

	"github.com/cognicore/lexstat/pkg/lexstat/ingest"
	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/lexicon"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
)

// Separator joins the words of an n-gram.
const Separator = " "

// Options configures a WordList.
type Options struct {
	NgramSize int // 0 or 1 means single words
	Stemming  ingest.Stemming
	Lexicon   *lexicon.Lexicon  // required for ingest.StemLemma
	Tokenizer *ingest.Tokenizer // nil keeps every word
}

// WordList builds token streams for documents.
type WordList struct {
	ngram int
	tok   *ingest.Tokenizer
	norm  *ingest.Normalizer
}

// New validates opts and returns a WordList.
func New(opts Options) (*WordList, error) {
	if opts.NgramSize < 0 {
		return nil, fmt.Errorf("%w: ngram size %d", internalerr.ErrInvalidConfig, opts.NgramSize)
	}
	ngram := opts.NgramSize
	if ngram == 0 {
		ngram = 1
	}

	norm, err := ingest.NewNormalizer(opts.Stemming, opts.Lexicon)
	if err != nil {
		return nil, err
	}

	tok := opts.Tokenizer
	if tok == nil {
		tok = ingest.DefaultTokenizer()
	}
	return &WordList{ngram: ngram, tok: tok, norm: norm}, nil
}

// MustNew is New for options known to be valid.
func MustNew(opts Options) *WordList {
	wl, err := New(opts)
	if err != nil {
		panic(err)
	}
	return wl
}

// NgramSize returns the configured n-gram size (1 for single words).
func (w *WordList) NgramSize() int {
	return w.ngram
}

// Normalize turns a query word into the token the list would produce for
// it in running text: tokenized, folded and stemmed. A query spanning
// several tokens is joined with Separator. Input without any word
// characters yields "".
func (w *WordList) Normalize(word string) string {
	tokens := w.tok.Tokenize(word)
	for i, t := range tokens {
		tokens[i] = w.norm.Reduce(t)
	}
	return strings.Join(tokens, Separator)
}

// Words returns a lazy, single-pass sequence of the document's tokens.
// Each call re-tokenizes the document.
func (w *WordList) Words(d store.Doc) iter.Seq[string] {
	return func(yield func(string) bool) {
		words := w.tok.Tokenize(d.Text)
		if w.ngram == 1 {
			for _, word := range words {
				if !yield(w.norm.Reduce(word)) {
					return
				}
			}
			return
		}

		window := make([]string, 0, w.ngram)
		for _, word := range words {
			if len(window) == w.ngram {
				copy(window, window[1:])
				window = window[:w.ngram-1]
			}
			window = append(window, w.norm.Reduce(word))
			if len(window) < w.ngram {
				continue
			}
			if !yield(strings.Join(window, Separator)) {
				return
			}
		}
	}
}

// Collect materializes Words.
func (w *WordList) Collect(d store.Doc) []string {
	var out []string
	for word := range w.Words(d) {
		out = append(out, word)
	}
	return out
}

// Dataset streams every document's tokens in dataset order. N-grams never
// span two documents.
func (w *WordList) Dataset(ds store.Dataset) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, d := range ds.Docs {
			for word := range w.Words(d) {
				if !yield(word) {
					return
				}
			}
		}
	}
}

// Split breaks an n-gram back into its words.
func Split(ngram string) []string {
	return strings.Split(ngram, Separator)
}
