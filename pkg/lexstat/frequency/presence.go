package frequency

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/cognicore/lexstat/pkg/lexstat/segment"
)

// PresenceIndex maps each word to the set of block positions it occurs in.
// Block frequency and joint block frequency are bitmap cardinalities.
type PresenceIndex struct {
	sets   map[string]*roaring.Bitmap
	blocks int
}

// NewPresence indexes blocks by their position in the slice. A nil keep
// indexes every word.
func NewPresence(blocks []segment.Block, keep func(string) bool) *PresenceIndex {
	idx := &PresenceIndex{
		sets:   make(map[string]*roaring.Bitmap),
		blocks: len(blocks),
	}
	for i, b := range blocks {
		for word, c := range b.Counts {
			if c <= 0 || (keep != nil && !keep(word)) {
				continue
			}
			bm, ok := idx.sets[word]
			if !ok {
				bm = roaring.New()
				idx.sets[word] = bm
			}
			bm.Add(uint32(i))
		}
	}
	for _, bm := range idx.sets {
		bm.RunOptimize()
	}
	return idx
}

// Presence indexes the table's blocks, restricted to its kept words.
func Presence(t *Table) *PresenceIndex {
	return NewPresence(t.Blocks, t.Has)
}

// Blocks returns the number of indexed blocks.
func (p *PresenceIndex) Blocks() int {
	return p.blocks
}

// Len returns the number of indexed words.
func (p *PresenceIndex) Len() int {
	return len(p.sets)
}

// BlockFreq returns the number of blocks containing word.
func (p *PresenceIndex) BlockFreq(word string) int64 {
	bm, ok := p.sets[word]
	if !ok {
		return 0
	}
	return int64(bm.GetCardinality())
}

// JointFreq returns the number of blocks containing both a and b.
func (p *PresenceIndex) JointFreq(a, b string) int64 {
	ba, ok := p.sets[a]
	if !ok {
		return 0
	}
	bb, ok := p.sets[b]
	if !ok {
		return 0
	}
	return int64(ba.AndCardinality(bb))
}

// Contains reports whether word occurs in block i.
func (p *PresenceIndex) Contains(word string, i int) bool {
	bm, ok := p.sets[word]
	return ok && i >= 0 && bm.Contains(uint32(i))
}

// CountIn returns how many of words occur in block i.
func (p *PresenceIndex) CountIn(words []string, i int) int {
	n := 0
	for _, w := range words {
		if p.Contains(w, i) {
			n++
		}
	}
	return n
}

// Words returns the indexed words in no particular order.
func (p *PresenceIndex) Words() []string {
	out := make([]string, 0, len(p.sets))
	for w := range p.sets {
		out = append(out, w)
	}
	return out
}
