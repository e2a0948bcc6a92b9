// Package zeta implements Craig's Zeta, which finds the words that best
// separate two sets of documents.
//
// Each document is one block. A word's zeta score is the fraction of
// set-1 blocks containing it minus the fraction of set-2 blocks
// containing it, plus one, so scores lie in [0,2] and high scores favor
// set 1.
package zeta

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/lexstat/pkg/lexstat/frequency"
	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/progress"
	"github.com/cognicore/lexstat/pkg/lexstat/segment"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
	"github.com/cognicore/lexstat/pkg/lexstat/wordlist"
)

// DefaultMaxMarkers caps the marker lists.
const DefaultMaxMarkers = 1000

// WordScore is a word's zeta score.
type WordScore struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// GraphPoint places one document by how many markers of each set it
// contains.
type GraphPoint struct {
	X     int    `json:"x"` // set-1 markers present
	Y     int    `json:"y"` // set-2 markers present
	Label string `json:"label"`
}

// Result is the outcome of a comparison.
type Result struct {
	Name1 string `json:"name_1"`
	Name2 string `json:"name_2"`

	// Markers1 are the best set-1 markers, strongest first. Markers2 are
	// the best set-2 markers, strongest first. Both have the same length.
	Markers1 []string `json:"markers_1"`
	Markers2 []string `json:"markers_2"`

	GraphPoints []GraphPoint `json:"graph_points"`

	// Scores holds every word, highest zeta first.
	Scores []WordScore `json:"zeta_scores"`
}

// Analyzer compares two datasets.
type Analyzer struct {
	Name1, Name2 string // graph labels, default to the dataset names
	MaxMarkers   int    // 0 means DefaultMaxMarkers
	WordList     wordlist.Options
	StopList     frequency.Stopper // stop words are never scored
	Parallelism  int
	Progress     progress.Func
}

// Analyze computes zeta scores, marker lists and graph points for ds1
// against ds2.
func (a Analyzer) Analyze(ctx context.Context, ds1, ds2 store.Dataset) (*Result, error) {
	if ds1.Len() == 0 || ds2.Len() == 0 {
		return nil, fmt.Errorf("zeta: both sets need at least one document: %w", internalerr.ErrInsufficientData)
	}
	if a.MaxMarkers < 0 {
		return nil, fmt.Errorf("%w: max markers %d", internalerr.ErrInvalidConfig, a.MaxMarkers)
	}
	maxMarkers := a.MaxMarkers
	if maxMarkers == 0 {
		maxMarkers = DefaultMaxMarkers
	}

	opts := a.WordList
	opts.NgramSize = 1
	wl, err := wordlist.New(opts)
	if err != nil {
		return nil, err
	}

	report := progress.Monotonic(a.Progress)

	blocks1, err := segment.ByDocument(ctx, ds1, wl, progress.Range(report, 0, 25))
	if err != nil {
		return nil, err
	}
	blocks2, err := segment.ByDocument(ctx, ds2, wl, progress.Range(report, 25, 50))
	if err != nil {
		return nil, err
	}

	var keep func(string) bool
	if a.StopList != nil {
		keep = func(w string) bool { return !a.StopList.IsStopword(w) }
	}
	set1 := frequency.NewPresence(blocks1, keep)
	set2 := frequency.NewPresence(blocks2, keep)

	scores, err := score(ctx, set1, set2, a.Parallelism, progress.Range(report, 50, 80))
	if err != nil {
		return nil, err
	}

	n := min(maxMarkers, len(scores)/2)
	res := &Result{
		Name1:    nameOr(a.Name1, ds1),
		Name2:    nameOr(a.Name2, ds2),
		Markers1: make([]string, n),
		Markers2: make([]string, n),
		Scores:   scores,
	}
	for i := 0; i < n; i++ {
		res.Markers1[i] = scores[i].Word
		res.Markers2[i] = scores[len(scores)-1-i].Word
	}

	graph := progress.Range(report, 80, 100)
	total := len(blocks1) + len(blocks2)
	res.GraphPoints = make([]GraphPoint, 0, total)
	for i := range blocks1 {
		res.GraphPoints = append(res.GraphPoints, GraphPoint{
			X:     set1.CountIn(res.Markers1, i),
			Y:     set1.CountIn(res.Markers2, i),
			Label: fmt.Sprintf("%s: %d", res.Name1, i+1),
		})
		graph.Fraction(len(res.GraphPoints), total)
	}
	for i := range blocks2 {
		res.GraphPoints = append(res.GraphPoints, GraphPoint{
			X:     set2.CountIn(res.Markers1, i),
			Y:     set2.CountIn(res.Markers2, i),
			Label: fmt.Sprintf("%s: %d", res.Name2, i+1),
		})
		graph.Fraction(len(res.GraphPoints), total)
	}

	report.Done()
	return res, nil
}

// score computes the zeta score of every word in either set, sorted by
// score descending and then by word.
func score(ctx context.Context, set1, set2 *frequency.PresenceIndex, parallelism int, report progress.Func) ([]WordScore, error) {
	seen := make(map[string]struct{}, set1.Len()+set2.Len())
	var words []string
	for _, idx := range []*frequency.PresenceIndex{set1, set2} {
		for _, w := range idx.Words() {
			if _, ok := seen[w]; !ok {
				seen[w] = struct{}{}
				words = append(words, w)
			}
		}
	}

	if parallelism <= 0 {
		parallelism = 1
	}
	n1, n2 := float64(set1.Blocks()), float64(set2.Blocks())
	out := make([]WordScore, len(words))

	const chunk = 512
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for start := 0; start < len(words); start += chunk {
		end := min(start+chunk, len(words))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				w := words[i]
				f1 := float64(set1.BlockFreq(w)) / n1
				f2 := float64(set2.BlockFreq(w)) / n2
				out[i] = WordScore{Word: w, Score: f1 - f2 + 1}
			}
			report.Fraction(end, len(words))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Word < out[j].Word
	})
	report.Done()
	return out, nil
}

func nameOr(name string, ds store.Dataset) string {
	switch {
	case name != "":
		return name
	case ds.Name != "":
		return ds.Name
	}
	return ds.ID
}
