package lexstat

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/lexstat/pkg/lexstat/config"
	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/metrics"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
	"github.com/cognicore/lexstat/pkg/lexstat/store/memstore"
)

func newEngine(t *testing.T) (*Engine, *metrics.Metrics) {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Driver = "memory"
	cfg.Analysis.Parallelism = 2

	m := metrics.New()
	e, err := New(Options{
		Store:   memstore.New(),
		Config:  cfg,
		Metrics: m,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e, m
}

func doc(year, text string) store.Doc {
	return store.Doc{Text: text, Fields: map[string]string{"year": year}}
}

func TestCollocations(t *testing.T) {
	e, m := newEngine(t)
	ctx := context.Background()

	id, err := e.Import(ctx, "cities", []store.Doc{
		{Text: "New York is big. New York is loud."},
		{Text: "I love New York in June."},
	})
	require.NoError(t, err)

	pairs, err := e.Collocations(ctx, id, CollocationRequest{NumPairs: 1})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "new york", pairs[0].String())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("collocation", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocsLoadedTotal))
}

func TestCooccurrences(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	id, err := e.Import(ctx, "animals", []store.Doc{{Text: "the cat sat"}, {Text: "the dog sat"}})
	require.NoError(t, err)

	pairs, err := e.Cooccurrences(ctx, id, CooccurrenceRequest{Words: []string{"cat", "dog"}, Scorer: "mi"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.False(t, math.IsNaN(pairs[0].Score))

	single, err := e.Cooccurrences(ctx, id, CooccurrenceRequest{Words: []string{"cat"}, NumPairs: -1})
	require.NoError(t, err)
	for _, p := range single {
		assert.NotEqual(t, p.Word, p.Word2)
	}
}

func TestCraigZeta(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	id1, err := e.Import(ctx, "one", []store.Doc{{Text: "alpha alpha beta"}})
	require.NoError(t, err)
	id2, err := e.Import(ctx, "two", []store.Doc{{Text: "beta gamma gamma"}})
	require.NoError(t, err)

	res, err := e.CraigZeta(ctx, id1, id2, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, res.Markers1)
	assert.Equal(t, []string{"gamma"}, res.Markers2)
	assert.Equal(t, "one", res.Name1)

	_, err = e.CraigZeta(ctx, id1, "missing", nil)
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func TestDates(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	id, err := e.Import(ctx, "papers", []store.Doc{
		doc("2001", "evolution of whales"),
		doc("2001", "whales and dolphins"),
		doc("2003", "evolution evolution"),
	})
	require.NoError(t, err)
	other, err := e.Import(ctx, "more", []store.Doc{
		doc("2001", "unrelated"),
		doc("2002", "unrelated"),
	})
	require.NoError(t, err)

	terms, err := e.TermDates(ctx, id, "Evolution", nil)
	require.NoError(t, err)
	require.Len(t, terms, 3)
	assert.Equal(t, int64(1), terms[0].Value)
	assert.Equal(t, int64(0), terms[1].Value)
	assert.Equal(t, int64(2), terms[2].Value)

	counts, err := e.ArticleDates(ctx, id, ArticleDatesRequest{})
	require.NoError(t, err)
	require.Len(t, counts, 3)
	assert.Equal(t, 2.0, counts[0].Value)

	vsOther, err := e.ArticleDates(ctx, id, ArticleDatesRequest{Normalize: true, ReferenceID: other})
	require.NoError(t, err)
	assert.Equal(t, 2.0, vsOther[0].Value)
	assert.Equal(t, 0.0, vsOther[2].Value)

	var last int
	vsAll, err := e.ArticleDates(ctx, id, ArticleDatesRequest{Normalize: true, Progress: func(p int) { last = p }})
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, vsAll[0].Value, 1e-12)
	assert.Equal(t, 1.0, vsAll[2].Value)
	assert.Equal(t, 100, last)
}

func TestInvalidRequests(t *testing.T) {
	e, m := newEngine(t)
	ctx := context.Background()
	id, err := e.Import(ctx, "x", []store.Doc{{Text: "a b c"}})
	require.NoError(t, err)

	_, err = e.Collocations(ctx, id, CollocationRequest{Scorer: "dice"})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)

	_, err = e.Collocations(ctx, id, CollocationRequest{Stemming: "lemma"})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)

	_, err = e.Cooccurrences(ctx, id, CooccurrenceRequest{Words: []string{"a"}, Window: -5})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)

	_, err = e.Collocations(ctx, "missing", CollocationRequest{})
	assert.ErrorIs(t, err, internalerr.ErrNotFound)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("collocation", "error"))+
		testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("cooccurrence", "error")))
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	st, err := OpenStore(ctx, config.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	st.Close()

	_, err = OpenStore(ctx, config.StoreConfig{Driver: "mongo"})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)

	_, err = New(Options{})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}
