package zeta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/lexstat/pkg/lexstat/ingest"
	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
)

func dataset(name string, texts ...string) store.Dataset {
	ds := store.Dataset{ID: name + "-id", Name: name}
	for _, text := range texts {
		ds.Docs = append(ds.Docs, store.Doc{Text: text})
	}
	return ds
}

func TestAlphaBetaGamma(t *testing.T) {
	res, err := Analyzer{}.Analyze(context.Background(),
		dataset("one", "alpha alpha beta"),
		dataset("two", "beta gamma gamma"))
	require.NoError(t, err)

	require.Len(t, res.Scores, 3)
	assert.Equal(t, WordScore{Word: "alpha", Score: 2}, res.Scores[0])
	assert.Equal(t, WordScore{Word: "beta", Score: 1}, res.Scores[1])
	assert.Equal(t, WordScore{Word: "gamma", Score: 0}, res.Scores[2])

	assert.Equal(t, []string{"alpha"}, res.Markers1)
	assert.Equal(t, []string{"gamma"}, res.Markers2)

	assert.Equal(t, []GraphPoint{
		{X: 1, Y: 0, Label: "one: 1"},
		{X: 0, Y: 1, Label: "two: 1"},
	}, res.GraphPoints)
}

var (
	fruit = dataset("fruit",
		"apple banana cherry common",
		"apple banana common shared",
		"apple cherry date common",
	)
	veg = dataset("veg",
		"carrot potato common",
		"carrot leek shared",
		"potato leek onion common",
		"carrot onion common",
	)
)

func TestMarkersDisjointAndEqualLength(t *testing.T) {
	res, err := Analyzer{MaxMarkers: 3}.Analyze(context.Background(), fruit, veg)
	require.NoError(t, err)

	require.Len(t, res.Markers1, 3)
	require.Len(t, res.Markers2, 3)
	in1 := make(map[string]bool)
	for _, w := range res.Markers1 {
		in1[w] = true
	}
	for _, w := range res.Markers2 {
		assert.False(t, in1[w], "%q is a marker of both sets", w)
	}

	assert.Equal(t, "apple", res.Markers1[0])
	assert.Equal(t, "carrot", res.Markers2[0])
	assert.Len(t, res.GraphPoints, fruit.Len()+veg.Len())

	for i := 1; i < len(res.Scores); i++ {
		assert.GreaterOrEqual(t, res.Scores[i-1].Score, res.Scores[i].Score)
		assert.GreaterOrEqual(t, res.Scores[i].Score, 0.0)
		assert.LessOrEqual(t, res.Scores[i].Score, 2.0)
	}
}

func TestMarkerCountIsHalfTheVocabulary(t *testing.T) {
	res, err := Analyzer{}.Analyze(context.Background(), fruit, veg)
	require.NoError(t, err)

	n := len(res.Scores) / 2
	assert.Len(t, res.Markers1, n)
	assert.Len(t, res.Markers2, n)
}

func TestSwapSwapsMarkers(t *testing.T) {
	ctx := context.Background()
	ab, err := Analyzer{MaxMarkers: 2}.Analyze(ctx, fruit, veg)
	require.NoError(t, err)
	ba, err := Analyzer{MaxMarkers: 2}.Analyze(ctx, veg, fruit)
	require.NoError(t, err)

	assert.Equal(t, ab.Markers1[0], ba.Markers2[0])
	assert.Equal(t, ab.Markers2[0], ba.Markers1[0])

	scores := make(map[string]float64)
	for _, s := range ab.Scores {
		scores[s.Word] = s.Score
	}
	for _, s := range ba.Scores {
		assert.InDelta(t, 2-scores[s.Word], s.Score, 1e-12, s.Word)
	}
}

func TestGraphPointLabels(t *testing.T) {
	res, err := Analyzer{Name1: "A", Name2: "B", MaxMarkers: 2, Parallelism: 3}.Analyze(context.Background(), fruit, veg)
	require.NoError(t, err)

	require.Len(t, res.GraphPoints, 7)
	assert.Equal(t, "A: 1", res.GraphPoints[0].Label)
	assert.Equal(t, "A: 3", res.GraphPoints[2].Label)
	assert.Equal(t, "B: 1", res.GraphPoints[3].Label)
	assert.Equal(t, "B: 4", res.GraphPoints[6].Label)

	// Set-1 documents lean toward set-1 markers.
	var x1, y1 int
	for _, p := range res.GraphPoints[:3] {
		x1 += p.X
		y1 += p.Y
	}
	assert.Greater(t, x1, y1)
}

func TestProgress(t *testing.T) {
	var reports []int
	_, err := Analyzer{Progress: func(p int) { reports = append(reports, p) }}.Analyze(context.Background(), fruit, veg)
	require.NoError(t, err)

	require.NotEmpty(t, reports)
	assert.Equal(t, 100, reports[len(reports)-1])
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i], reports[i-1])
	}
}

func TestErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Analyzer{}.Analyze(ctx, dataset("empty"), veg)
	assert.ErrorIs(t, err, internalerr.ErrInsufficientData)
	_, err = Analyzer{}.Analyze(ctx, fruit, dataset("empty"))
	assert.ErrorIs(t, err, internalerr.ErrInsufficientData)

	_, err = Analyzer{MaxMarkers: -1}.Analyze(ctx, fruit, veg)
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestStopWordsNeverScored(t *testing.T) {
	sl, err := ingest.NewStopList("", []string{"common", "shared"})
	require.NoError(t, err)

	res, err := Analyzer{StopList: sl}.Analyze(context.Background(), fruit, veg)
	require.NoError(t, err)
	require.Len(t, res.Scores, 8)
	for _, s := range res.Scores {
		assert.False(t, sl.IsStopword(s.Word), s.Word)
	}
}
