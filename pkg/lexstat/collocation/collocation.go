// Package collocation finds significant adjacent word pairs.
package collocation

import (
	"context"
	"fmt"

	"github.com/cognicore/lexstat/pkg/lexstat/association"
	"github.com/cognicore/lexstat/pkg/lexstat/frequency"
	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/progress"
	"github.com/cognicore/lexstat/pkg/lexstat/segment"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
	"github.com/cognicore/lexstat/pkg/lexstat/wordlist"
)

// Analyzer scores every bigram of a dataset.
type Analyzer struct {
	Scorer   association.Scorer // nil means log-likelihood
	NumPairs int                // <= 0 returns every bigram
	// FocalWord restricts the analysis to bigrams containing it. It is
	// normalized the same way as the text.
	FocalWord string
	Words     wordlist.Options // NgramSize is ignored
	// StopList drops bigrams containing a stop word from the results.
	// Stop words still count towards the marginals and the sample size.
	StopList    frequency.Stopper
	Parallelism int
	Progress    progress.Func
}

// Analyze returns the dataset's bigrams scored by a.Scorer, best first.
//
// Marginals are single-word frequencies over the whole dataset, the joint
// frequency is the bigram's count and the sample size is the number of
// tokens.
func (a Analyzer) Analyze(ctx context.Context, ds store.Dataset) ([]association.Pair, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("collocation: dataset %q: %w", ds.ID, internalerr.ErrInsufficientData)
	}
	scorer := a.Scorer
	if scorer == nil {
		scorer = association.LogLikelihood{}
	}

	opts := a.Words
	opts.NgramSize = 1
	unigrams, err := wordlist.New(opts)
	if err != nil {
		return nil, err
	}
	opts.NgramSize = 2
	bigrams, err := wordlist.New(opts)
	if err != nil {
		return nil, err
	}

	report := progress.Monotonic(a.Progress)

	words, err := frequency.FromTF(ctx, ds, unigrams, frequency.Options{
		Progress: progress.Range(report, 0, 33),
	})
	if err != nil {
		return nil, err
	}

	// One block over the whole dataset: positional counting reduces to
	// counting every occurrence once.
	blocks, err := segment.DatasetSegmenter{
		Segmenter:   segment.Segmenter{NumBlocks: 1, Last: segment.SmallLast},
		WordList:    bigrams,
		SplitAcross: true,
	}.Segment(ctx, ds, progress.Range(report, 33, 55))
	if err != nil {
		return nil, err
	}

	var include []string
	if a.FocalWord != "" {
		focal := unigrams.Normalize(a.FocalWord)
		if focal == "" {
			return nil, fmt.Errorf("%w: focal word %q has no word characters", internalerr.ErrInvalidConfig, a.FocalWord)
		}
		include = []string{focal}
	}
	pairs, err := frequency.FromPosition(ctx, blocks, frequency.Options{
		InclusionList: include,
		StopList:      a.StopList,
		Progress:      progress.Range(report, 55, 66),
	})
	if err != nil {
		return nil, err
	}

	n := float64(words.NumDatasetTokens)
	cands := make([]association.Candidate, 0, len(pairs.WordList))
	for _, bigram := range pairs.WordList {
		parts := wordlist.Split(bigram)
		if len(parts) != 2 {
			continue
		}
		cands = append(cands, association.Candidate{
			Word:  parts[0],
			Word2: parts[1],
			FA:    float64(words.Freq(parts[0])),
			FB:    float64(words.Freq(parts[1])),
			FAB:   float64(pairs.Freq(bigram)),
			N:     n,
		})
	}

	scored, err := association.ScoreAll(ctx, scorer, cands, a.Parallelism, progress.Range(report, 66, 100))
	if err != nil {
		return nil, err
	}
	return association.Truncate(scored, a.NumPairs), nil
}
