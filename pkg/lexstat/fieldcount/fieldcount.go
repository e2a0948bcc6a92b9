// Package fieldcount tallies documents and term occurrences by the value
// of a metadata field, typically the publication year.
package fieldcount

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/progress"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
	"github.com/cognicore/lexstat/pkg/lexstat/wordlist"
)

// YearField is the field both date analyses group by.
const YearField = "year"

// Years outside [MinYear, MaxYear] are rejected by FillYears.
const (
	MinYear = -9999
	MaxYear = 9999
)

// CountArticles counts the documents carrying each value of field.
// Documents without the field are skipped.
func CountArticles(ctx context.Context, ds store.Dataset, field string, report progress.Func) (map[string]int64, error) {
	counts := make(map[string]int64)
	for i, doc := range ds.Docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if v := strings.TrimSpace(doc.Field(field)); v != "" {
			counts[v]++
		}
		report.Fraction(i+1, len(ds.Docs))
	}
	report.Done()
	return counts, nil
}

// CountTerm sums the occurrences of term in the documents carrying each
// value of field. The term is normalized by wl, so a stemmed list matches
// inflected forms. Values whose documents never contain the term are
// reported with a zero count.
func CountTerm(ctx context.Context, ds store.Dataset, term, field string, wl *wordlist.WordList, report progress.Func) (map[string]int64, error) {
	if wl == nil {
		return nil, fmt.Errorf("%w: term counting needs a word list", internalerr.ErrInvalidConfig)
	}
	term = wl.Normalize(term)
	if term == "" {
		return nil, fmt.Errorf("%w: empty term", internalerr.ErrInvalidConfig)
	}

	counts := make(map[string]int64)
	for i, doc := range ds.Docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v := strings.TrimSpace(doc.Field(field))
		if v == "" {
			report.Fraction(i+1, len(ds.Docs))
			continue
		}
		var n int64
		for w := range wl.Words(doc) {
			if w == term {
				n++
			}
		}
		counts[v] += n
		report.Fraction(i+1, len(ds.Docs))
	}
	report.Done()
	return counts, nil
}

// Normalize divides each count by the reference count for the same field
// value. Values missing from the reference map to 0.
func Normalize(counts, reference map[string]int64) map[string]float64 {
	out := make(map[string]float64, len(counts))
	for k, c := range counts {
		if ref := reference[k]; ref > 0 {
			out[k] = float64(c) / float64(ref)
		} else {
			out[k] = 0
		}
	}
	return out
}

// YearValue is one row of a year series.
type YearValue[V int64 | float64] struct {
	Year  int `json:"year"`
	Value V   `json:"value"`
}

// FillYears converts year-keyed counts into a series covering every year
// from the earliest to the latest, with missing years set to zero. Keys
// must be integers within [MinYear, MaxYear].
func FillYears[V int64 | float64](counts map[string]V) ([]YearValue[V], error) {
	if len(counts) == 0 {
		return nil, nil
	}

	byYear := make(map[int]V, len(counts))
	years := make([]int, 0, len(counts))
	for k, v := range counts {
		y, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("%w: year %q is not an integer", internalerr.ErrInvalidInput, k)
		}
		if y < MinYear || y > MaxYear {
			return nil, fmt.Errorf("%w: year %d out of range", internalerr.ErrInvalidInput, y)
		}
		if _, ok := byYear[y]; !ok {
			years = append(years, y)
		}
		byYear[y] += v
	}
	sort.Ints(years)

	lo, hi := years[0], years[len(years)-1]
	out := make([]YearValue[V], 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		out = append(out, YearValue[V]{Year: y, Value: byYear[y]})
	}
	return out, nil
}
