package association

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/lexstat/pkg/lexstat/progress"
)

// Candidate is one pair waiting to be scored, with its frequencies.
type Candidate struct {
	Word, Word2 string
	FA, FB, FAB float64
	N           float64
}

// chunk is the number of candidates a worker scores between progress
// reports and context checks.
const chunk = 256

// ScoreAll scores candidates with up to parallelism workers (<= 0 means
// one) and returns the pairs sorted by SortPairs. Results do not depend
// on the degree of parallelism.
func ScoreAll(ctx context.Context, s Scorer, cands []Candidate, parallelism int, report progress.Func) ([]Pair, error) {
	if parallelism <= 0 {
		parallelism = 1
	}
	report = progress.Monotonic(report)

	out := make([]Pair, len(cands))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for start := 0; start < len(cands); start += chunk {
		end := min(start+chunk, len(cands))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				c := cands[i]
				out[i] = Pair{Word: c.Word, Word2: c.Word2, Score: s.Score(c.FA, c.FB, c.FAB, c.N)}
			}
			report.Fraction(end, len(cands))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortPairs(out)
	report.Done()
	return out, nil
}
