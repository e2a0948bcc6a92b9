// Package cooccurrence scores words that appear in the same window of
// text, not necessarily next to each other.
package cooccurrence

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/lexstat/pkg/lexstat/association"
	"github.com/cognicore/lexstat/pkg/lexstat/frequency"
	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/progress"
	"github.com/cognicore/lexstat/pkg/lexstat/segment"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
	"github.com/cognicore/lexstat/pkg/lexstat/wordlist"
)

// DefaultWindow is roughly a paragraph.
const DefaultWindow = 200

// Analyzer scores cooccurrences in windows of Window tokens.
//
// With one word it ranks that word's partners and keeps the best
// NumPairs. With two or more it scores every combination of the words and
// returns all of them. The mode follows the number of words supplied, so a
// query whose words normalize to the same token ("cat, Cat") stays in
// combination mode and yields no pairs.
//
// StopList removes partners from the results. Query words are indexed
// even when they are stop words.
type Analyzer struct {
	Scorer      association.Scorer // nil means log-likelihood
	NumPairs    int                // single-word mode only, <= 0 keeps all
	Words       []string
	Window      int              // 0 means DefaultWindow
	WordList    wordlist.Options // NgramSize is ignored
	StopList    frequency.Stopper
	Parallelism int
	Progress    progress.Func
}

// ParseWords splits a comma-separated query. A single entry selects
// single-word mode.
func ParseWords(s string) []string {
	var out []string
	for _, w := range strings.Split(s, ",") {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func (a Analyzer) validate() error {
	if a.Window < 0 {
		return fmt.Errorf("%w: window size %d", internalerr.ErrInvalidConfig, a.Window)
	}
	if len(a.Words) == 0 {
		return fmt.Errorf("%w: at least one word is required", internalerr.ErrInvalidConfig)
	}
	return nil
}

// Analyze returns the scored pairs, best first.
//
// A word's base frequency is the number of windows containing it, the
// joint frequency is the number of windows containing both words and the
// sample size is the number of windows. Windows never cross documents.
func (a Analyzer) Analyze(ctx context.Context, ds store.Dataset) ([]association.Pair, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("cooccurrence: dataset %q: %w", ds.ID, internalerr.ErrInsufficientData)
	}

	scorer := a.Scorer
	if scorer == nil {
		scorer = association.LogLikelihood{}
	}
	window := a.Window
	if window == 0 {
		window = DefaultWindow
	}

	opts := a.WordList
	opts.NgramSize = 1
	wl, err := wordlist.New(opts)
	if err != nil {
		return nil, err
	}

	words := normalize(wl, a.Words)
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no query word contains a word character", internalerr.ErrInvalidConfig)
	}
	multi := len(a.Words) > 1
	report := progress.Monotonic(a.Progress)

	blocks, err := segment.DatasetSegmenter{
		Segmenter: segment.Segmenter{BlockSize: window, Last: segment.SmallLast},
		WordList:  wl,
	}.Segment(ctx, ds, progress.Range(report, 0, 33))
	if err != nil {
		return nil, err
	}

	base, err := frequency.FromPosition(ctx, blocks, frequency.Options{
		StopList: a.StopList,
		Progress: progress.Range(report, 33, 49),
	})
	if err != nil {
		return nil, err
	}

	query := make(map[string]struct{}, len(words))
	for _, w := range words {
		query[w] = struct{}{}
	}
	idx := frequency.NewPresence(base.Blocks, func(w string) bool {
		_, ok := query[w]
		return ok || base.Has(w)
	})
	report.Report(66)

	var cands []association.Candidate
	if multi {
		cands = combinations(idx, words)
	} else {
		cands = single(idx, base, words[0])
	}

	pairs, err := association.ScoreAll(ctx, scorer, cands, a.Parallelism, progress.Range(report, 66, 100))
	if err != nil {
		return nil, err
	}
	if !multi {
		pairs = association.Truncate(pairs, a.NumPairs)
	}
	return pairs, nil
}

// normalize folds and stems the query words, dropping duplicates while
// keeping the input order.
func normalize(wl *wordlist.WordList, words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = wl.Normalize(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// single pairs the focal word with every other word in the table. A focal
// word that never occurs is still scored; its pairs get the scorer's floor.
func single(idx *frequency.PresenceIndex, base *frequency.Table, focal string) []association.Candidate {
	n := float64(idx.Blocks())
	fa := float64(idx.BlockFreq(focal))
	cands := make([]association.Candidate, 0, len(base.WordList))
	for _, w := range base.WordList {
		if w == focal {
			continue
		}
		cands = append(cands, association.Candidate{
			Word:  focal,
			Word2: w,
			FA:    fa,
			FB:    float64(idx.BlockFreq(w)),
			FAB:   float64(idx.JointFreq(focal, w)),
			N:     n,
		})
	}
	return cands
}

// combinations scores each unordered pair of query words once, in input
// order. Words that never occur are skipped.
func combinations(idx *frequency.PresenceIndex, words []string) []association.Candidate {
	var present []string
	for _, w := range words {
		if idx.BlockFreq(w) > 0 {
			present = append(present, w)
		}
	}

	n := float64(idx.Blocks())
	var cands []association.Candidate
	for i := 0; i < len(present); i++ {
		for j := i + 1; j < len(present); j++ {
			a, b := present[i], present[j]
			cands = append(cands, association.Candidate{
				Word:  a,
				Word2: b,
				FA:    float64(idx.BlockFreq(a)),
				FB:    float64(idx.BlockFreq(b)),
				FAB:   float64(idx.JointFreq(a, b)),
				N:     n,
			})
		}
	}
	return cands
}
