package association

import "sort"

// Pair is a scored word pair. For collocations Word and Word2 are the
// bigram's words in order; for cooccurrences Word is the queried word.
type Pair struct {
	Word  string  `json:"word"`
	Word2 string  `json:"word_2"`
	Score float64 `json:"score"`
}

// String joins the two words with a space.
func (p Pair) String() string {
	return p.Word + " " + p.Word2
}

// SortPairs orders pairs by descending score. Ties are broken by the words
// so the order is deterministic.
func SortPairs(pairs []Pair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		if pairs[i].Word != pairs[j].Word {
			return pairs[i].Word < pairs[j].Word
		}
		return pairs[i].Word2 < pairs[j].Word2
	})
}

// Truncate keeps the first n pairs. n <= 0 keeps everything.
func Truncate(pairs []Pair, n int) []Pair {
	if n > 0 && len(pairs) > n {
		return pairs[:n]
	}
	return pairs
}
