// Package segment partitions token streams into contiguous blocks and
// reduces each block to a word -> count table.
package segment

import (
	"fmt"
	"strings"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
)

// LastBlockPolicy decides what happens to a stream's remainder when its
// length is not a multiple of the block size.
type LastBlockPolicy int

const (
	// SmallLast emits the remainder as a final, shorter block.
	SmallLast LastBlockPolicy = iota
	// MergeLast folds the remainder into the preceding block.
	MergeLast
)

func (p LastBlockPolicy) String() string {
	if p == MergeLast {
		return "merge_last"
	}
	return "small_last"
}

// ParseLastBlockPolicy accepts "small_last" and "merge_last" ("big_last"
// is accepted as an alias of merge_last).
func ParseLastBlockPolicy(s string) (LastBlockPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "small_last":
		return SmallLast, nil
	case "merge_last", "big_last":
		return MergeLast, nil
	}
	return SmallLast, fmt.Errorf("%w: unknown last block policy %q", internalerr.ErrInvalidConfig, s)
}

// Block is one segment: occurrence counts of each word within a span of
// tokens.
type Block struct {
	Counts map[string]int64
	Tokens int64 // number of tokens in the span
	Index  int   // position in the block sequence
	Doc    int   // source document index, -1 when the block spans documents
}

// Count returns how often word occurs in the block.
func (b Block) Count(word string) int64 {
	return b.Counts[word]
}

// Contains reports whether word occurs in the block at all.
func (b Block) Contains(word string) bool {
	return b.Counts[word] > 0
}

// Types returns the number of distinct words in the block.
func (b Block) Types() int {
	return len(b.Counts)
}

// Count reduces a token span to a block.
func Count(tokens []string) Block {
	b := Block{Counts: make(map[string]int64), Tokens: int64(len(tokens)), Doc: -1}
	for _, tok := range tokens {
		b.Counts[tok]++
	}
	return b
}

// Segmenter splits a single token stream. Exactly one of BlockSize and
// NumBlocks must be set; the other is derived from the stream length.
type Segmenter struct {
	BlockSize int
	NumBlocks int
	Last      LastBlockPolicy
}

// Validate checks that exactly one sizing parameter is set.
func (s Segmenter) Validate() error {
	switch {
	case s.BlockSize < 0 || s.NumBlocks < 0:
		return fmt.Errorf("%w: negative block size or count", internalerr.ErrInvalidConfig)
	case s.BlockSize > 0 && s.NumBlocks > 0:
		return fmt.Errorf("%w: set block size or block count, not both", internalerr.ErrInvalidConfig)
	case s.BlockSize == 0 && s.NumBlocks == 0:
		return fmt.Errorf("%w: block size or block count is required", internalerr.ErrInvalidConfig)
	}
	return nil
}

// SizeFor returns the block size for a stream of n tokens. With
// NumBlocks it is the size of the leading blocks of a count-based split.
func (s Segmenter) SizeFor(n int) int {
	if s.BlockSize > 0 {
		return s.BlockSize
	}
	if s.NumBlocks <= 0 || n <= 0 {
		return 1
	}
	if s.Last == MergeLast {
		if size := n / s.NumBlocks; size > 0 {
			return size
		}
		return 1
	}
	return (n + s.NumBlocks - 1) / s.NumBlocks
}

// Segment splits tokens into blocks. An empty stream yields no blocks.
// With NumBlocks the stream is cut into exactly min(NumBlocks, n) blocks.
// The caller must have validated s.
func (s Segmenter) Segment(tokens []string) []Block {
	return blocksOf(tokens, s.spans(len(tokens)))
}

func (s Segmenter) spans(n int) [][2]int {
	if s.BlockSize > 0 {
		return Spans(n, s.BlockSize, s.Last)
	}
	return CountSpans(n, s.NumBlocks, s.Last)
}

// CountSpans cuts n tokens into exactly min(num, n) spans. MergeLast gives
// the first num-1 spans floor(n/num) tokens and folds the remainder into
// the last one. SmallLast spreads the remainder over the leading spans, so
// sizes never increase and the last span is the smallest.
func CountSpans(n, num int, last LastBlockPolicy) [][2]int {
	if n <= 0 || num <= 0 {
		return nil
	}
	if num > n {
		num = n
	}
	base, extra := n/num, n%num
	spans := make([][2]int, 0, num)
	start := 0
	for i := 0; i < num; i++ {
		size := base
		switch {
		case last == MergeLast && i == num-1:
			size = n - start
		case last != MergeLast && i < extra:
			size++
		}
		spans = append(spans, [2]int{start, start + size})
		start += size
	}
	return spans
}

// Spans returns the [start,end) offsets of fixed-size blocks.
func Spans(n, size int, last LastBlockPolicy) [][2]int {
	if n == 0 || size <= 0 {
		return nil
	}
	var spans [][2]int
	if last == MergeLast {
		full := n / size
		if full == 0 {
			return [][2]int{{0, n}}
		}
		for i := 0; i < full; i++ {
			end := (i + 1) * size
			if i == full-1 {
				end = n
			}
			spans = append(spans, [2]int{i * size, end})
		}
		return spans
	}
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		spans = append(spans, [2]int{start, end})
	}
	return spans
}

func (s Segmenter) segmentWithSize(tokens []string, size int) []Block {
	return blocksOf(tokens, Spans(len(tokens), size, s.Last))
}

func blocksOf(tokens []string, spans [][2]int) []Block {
	blocks := make([]Block, 0, len(spans))
	for i, sp := range spans {
		b := Count(tokens[sp[0]:sp[1]])
		b.Index = i
		blocks = append(blocks, b)
	}
	return blocks
}
