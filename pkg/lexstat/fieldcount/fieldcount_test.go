package fieldcount

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/lexstat/pkg/lexstat/ingest"
	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
	"github.com/cognicore/lexstat/pkg/lexstat/wordlist"
)

func doc(year, text string) store.Doc {
	d := store.Doc{Text: text}
	if year != "" {
		d.Fields = map[string]string{YearField: year}
	}
	return d
}

var papers = store.Dataset{ID: "papers", Docs: []store.Doc{
	doc("1990", "Evolution of the horse"),
	doc("1990", "Horses and evolving ecosystems"),
	doc("1993", "The origin of species, evolution revisited. Evolution again."),
	doc("", "An undated evolution note"),
}}

func TestCountArticles(t *testing.T) {
	var last int
	counts, err := CountArticles(context.Background(), papers, YearField, func(p int) { last = p })
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"1990": 2, "1993": 1}, counts)
	assert.Equal(t, 100, last)
}

func TestCountTerm(t *testing.T) {
	ctx := context.Background()

	counts, err := CountTerm(ctx, papers, "Evolution", YearField, wordlist.MustNew(wordlist.Options{}), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"1990": 1, "1993": 2}, counts)

	stemmed := wordlist.MustNew(wordlist.Options{Stemming: ingest.StemPorter})
	counts, err = CountTerm(ctx, papers, "horse", YearField, stemmed, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"1990": 2, "1993": 0}, counts)

	accented := store.Dataset{Docs: []store.Doc{
		doc("1901", "Caf\u00e9 society. The caf\u00e9 closed."),
		doc("1902", "ΟΔΟΣ and οδος"),
	}}
	plain := wordlist.MustNew(wordlist.Options{})
	counts, err = CountTerm(ctx, accented, "cafe\u0301,", YearField, plain, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"1901": 2, "1902": 0}, counts)
	counts, err = CountTerm(ctx, accented, "Οδος", YearField, plain, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"1901": 0, "1902": 2}, counts)

	_, err = CountTerm(ctx, papers, "  ", YearField, stemmed, nil)
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestFillYears(t *testing.T) {
	series, err := FillYears(map[string]int64{"1993": 1, "1990": 2})
	require.NoError(t, err)
	assert.Equal(t, []YearValue[int64]{
		{Year: 1990, Value: 2},
		{Year: 1991, Value: 0},
		{Year: 1992, Value: 0},
		{Year: 1993, Value: 1},
	}, series)

	empty, err := FillYears(map[string]float64{})
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = FillYears(map[string]int64{"nineteen": 1})
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)

	for _, bad := range []string{"99999999", "-20000"} {
		_, err = FillYears(map[string]int64{"1990": 1, bad: 1})
		assert.ErrorIs(t, err, internalerr.ErrInvalidInput, bad)
	}

	edges, err := FillYears(map[string]int64{"9998": 1, "9999": 2})
	require.NoError(t, err)
	assert.Len(t, edges, 2)
}

func TestNormalize(t *testing.T) {
	got := Normalize(
		map[string]int64{"1990": 2, "1991": 1, "1992": 3},
		map[string]int64{"1990": 4, "1991": 1},
	)
	assert.Equal(t, map[string]float64{"1990": 0.5, "1991": 1, "1992": 0}, got)

	series, err := FillYears(got)
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.InDelta(t, 0.5, series[0].Value, 1e-12)
}
