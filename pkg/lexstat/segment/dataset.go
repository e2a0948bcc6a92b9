package segment

import (
	"context"
	"fmt"
	"sort"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/progress"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
	"github.com/cognicore/lexstat/pkg/lexstat/wordlist"
)

// DatasetSegmenter segments a whole dataset.
//
// With SplitAcross the documents' streams are concatenated and blocks may
// straddle document boundaries. Without it every document starts a new
// block, so each document may end in an undersized block governed by the
// last block policy. When NumBlocks is used with SplitAcross the dataset
// yields exactly NumBlocks blocks (fewer for a shorter stream); without it
// the block size is derived once from the dataset's total token count.
type DatasetSegmenter struct {
	Segmenter
	WordList    *wordlist.WordList
	SplitAcross bool
}

// Segment builds the dataset's blocks. Progress runs 0–100 over documents.
func (d DatasetSegmenter) Segment(ctx context.Context, ds store.Dataset, report progress.Func) ([]Block, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.WordList == nil {
		return nil, fmt.Errorf("%w: dataset segmenter needs a word list", internalerr.ErrInvalidConfig)
	}

	streams := make([][]string, len(ds.Docs))
	total := 0
	for i, doc := range ds.Docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		streams[i] = d.WordList.Collect(doc)
		total += len(streams[i])
		report.Report(int(float64(i+1) / float64(len(ds.Docs)) * 50.0))
	}

	var blocks []Block
	if d.SplitAcross {
		blocks = d.segmentAcross(streams, total)
	} else {
		size := d.SizeFor(total)
		for i, stream := range streams {
			for _, b := range d.segmentWithSize(stream, size) {
				b.Doc = i
				b.Index = len(blocks)
				blocks = append(blocks, b)
			}
		}
	}

	report.Done()
	return blocks, nil
}

func (d DatasetSegmenter) segmentAcross(streams [][]string, total int) []Block {
	all := make([]string, 0, total)
	// starts[i] is the offset of document i in the concatenated stream.
	starts := make([]int, len(streams))
	for i, s := range streams {
		starts[i] = len(all)
		all = append(all, s...)
	}

	docAt := func(offset int) int {
		return sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	}

	spans := d.spans(len(all))
	blocks := make([]Block, 0, len(spans))
	for i, sp := range spans {
		b := Count(all[sp[0]:sp[1]])
		b.Index = i
		if first, last := docAt(sp[0]), docAt(sp[1]-1); first == last {
			b.Doc = first
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// ByDocument returns exactly one block per document, in dataset order.
// Empty documents produce empty blocks so block i is always document i.
func ByDocument(ctx context.Context, ds store.Dataset, wl *wordlist.WordList, report progress.Func) ([]Block, error) {
	blocks := make([]Block, len(ds.Docs))
	for i, doc := range ds.Docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := Count(wl.Collect(doc))
		b.Index = i
		b.Doc = i
		blocks[i] = b
		report.Fraction(i+1, len(ds.Docs))
	}
	report.Done()
	return blocks, nil
}
