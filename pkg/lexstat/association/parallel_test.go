package association

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreAllDeterministic(t *testing.T) {
	var cands []Candidate
	for i := 0; i < 1000; i++ {
		cands = append(cands, Candidate{
			Word:  "w",
			Word2: fmt.Sprintf("x%04d", i),
			FA:    50,
			FB:    float64(1 + i%17),
			FAB:   float64(i % 5),
			N:     5000,
		})
	}

	serial, err := ScoreAll(context.Background(), LogLikelihood{}, cands, 1, nil)
	require.NoError(t, err)

	var reports []int
	parallel, err := ScoreAll(context.Background(), LogLikelihood{}, cands, 8, func(p int) { reports = append(reports, p) })
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
	require.NotEmpty(t, reports)
	assert.Equal(t, 100, reports[len(reports)-1])
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i], reports[i-1])
	}
	for i := 1; i < len(serial); i++ {
		assert.GreaterOrEqual(t, serial[i-1].Score, serial[i].Score)
	}
}

func TestScoreAllEmpty(t *testing.T) {
	last := -1
	out, err := ScoreAll(context.Background(), TScore{}, nil, 4, func(p int) { last = p })
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 100, last)
}

func TestScoreAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ScoreAll(ctx, TScore{}, []Candidate{{Word: "a", Word2: "b", FA: 1, FB: 1, FAB: 1, N: 2}}, 2, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
