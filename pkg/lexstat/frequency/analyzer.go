// Package frequency aggregates word counts over a dataset, either in a
// single pass over the token stream (FromTF) or from pre-built blocks
// (FromPosition).
package frequency

import (
	"context"
	"sort"

	"github.com/cognicore/lexstat/pkg/lexstat/progress"
	"github.com/cognicore/lexstat/pkg/lexstat/segment"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
	"github.com/cognicore/lexstat/pkg/lexstat/wordlist"
)

// Stopper reports stop words. *ingest.Tokenizer satisfies it.
type Stopper interface {
	IsStopword(word string) bool
}

// Options restricts which words end up in a Table. Totals
// (NumDatasetTokens, NumDatasetTypes) always describe the unfiltered
// stream.
type Options struct {
	NumWords      int      // keep the top-N words by TF, 0 keeps all
	InclusionList []string // keep only words (or n-grams) containing one of these
	ExclusionList []string // drop words (or n-grams) containing one of these
	StopList      Stopper  // drop words (or n-grams) containing a stop word
	Progress      progress.Func
}

// BlockStat summarises one block.
type BlockStat struct {
	Index  int   `json:"index"`
	Tokens int64 `json:"tokens"`
	Types  int   `json:"types"`
}

// Table is the result of a frequency analysis.
type Table struct {
	// Blocks are the analysed blocks in order. FromTF produces a single
	// block covering the whole dataset.
	Blocks     []segment.Block
	BlockStats []BlockStat

	// WordList holds the kept words, most frequent first (ties by word).
	WordList []string

	TF map[string]int64 // occurrences of each kept word
	DF map[string]int64 // documents (FromTF) or blocks (FromPosition) containing it

	NumDatasetTokens int64
	NumDatasetTypes  int64
}

// Freq returns the term frequency of word, 0 when absent.
func (t *Table) Freq(word string) int64 {
	return t.TF[word]
}

// Has reports whether word survived filtering.
func (t *Table) Has(word string) bool {
	_, ok := t.TF[word]
	return ok
}

// FromTF counts every token of the dataset in one pass. DF counts the
// documents a word occurs in.
func FromTF(ctx context.Context, ds store.Dataset, wl *wordlist.WordList, opts Options) (*Table, error) {
	report := progress.Monotonic(opts.Progress)

	tf := make(map[string]int64)
	df := make(map[string]int64)
	var tokens int64

	for i, doc := range ds.Docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seen := make(map[string]struct{})
		for word := range wl.Words(doc) {
			tokens++
			tf[word]++
			if _, ok := seen[word]; !ok {
				seen[word] = struct{}{}
				df[word]++
			}
		}
		report.Report(int(float64(i+1) / float64(len(ds.Docs)) * 90.0))
	}

	docIdx := -1
	if len(ds.Docs) == 1 {
		docIdx = 0
	}

	t := &Table{
		NumDatasetTokens: tokens,
		NumDatasetTypes:  int64(len(tf)),
	}
	t.fill(tf, df, opts)
	t.Blocks = []segment.Block{{Counts: copyCounts(t.TF), Tokens: tokens, Doc: docIdx}}
	t.BlockStats = []BlockStat{{Index: 0, Tokens: tokens, Types: len(tf)}}

	report.Done()
	return t, nil
}

// FromPosition aggregates pre-built blocks. TF sums each word's per-block
// counts and DF counts the blocks containing it. The blocks are retained
// unchanged.
func FromPosition(ctx context.Context, blocks []segment.Block, opts Options) (*Table, error) {
	report := progress.Monotonic(opts.Progress)

	tf := make(map[string]int64)
	df := make(map[string]int64)
	stats := make([]BlockStat, len(blocks))
	var tokens int64

	for i, b := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for word, c := range b.Counts {
			if c <= 0 {
				continue
			}
			tf[word] += c
			df[word]++
		}
		tokens += b.Tokens
		stats[i] = BlockStat{Index: b.Index, Tokens: b.Tokens, Types: b.Types()}
		report.Report(int(float64(i+1) / float64(len(blocks)) * 90.0))
	}

	t := &Table{
		Blocks:           blocks,
		BlockStats:       stats,
		NumDatasetTokens: tokens,
		NumDatasetTypes:  int64(len(tf)),
	}
	t.fill(tf, df, opts)

	report.Done()
	return t, nil
}

func (t *Table) fill(tf, df map[string]int64, opts Options) {
	keep := newFilter(opts)

	words := make([]string, 0, len(tf))
	for word := range tf {
		if keep(word) {
			words = append(words, word)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if tf[words[i]] != tf[words[j]] {
			return tf[words[i]] > tf[words[j]]
		}
		return words[i] < words[j]
	})
	if opts.NumWords > 0 && len(words) > opts.NumWords {
		words = words[:opts.NumWords]
	}

	t.WordList = words
	t.TF = make(map[string]int64, len(words))
	t.DF = make(map[string]int64, len(words))
	for _, w := range words {
		t.TF[w] = tf[w]
		t.DF[w] = df[w]
	}
}

// newFilter checks every component of an n-gram against the lists.
func newFilter(opts Options) func(string) bool {
	include := toSet(opts.InclusionList)
	exclude := toSet(opts.ExclusionList)
	stop := opts.StopList

	if len(include) == 0 && len(exclude) == 0 && stop == nil {
		return func(string) bool { return true }
	}

	return func(word string) bool {
		parts := wordlist.Split(word)
		if len(include) > 0 {
			found := false
			for _, p := range parts {
				if _, ok := include[p]; ok {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		for _, p := range parts {
			if _, ok := exclude[p]; ok {
				return false
			}
			if stop != nil && stop.IsStopword(p) {
				return false
			}
		}
		return true
	}
}

func toSet(words []string) map[string]struct{} {
	if len(words) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
