package association

import "math"

// Calculator handles smoothed PMI (Pointwise Mutual Information) calculations
type Calculator struct {
	epsilon float64 // smoothing constant
}

// NewCalculator creates a new PMI calculator with the given epsilon
func NewCalculator(epsilon float64) *Calculator {
	if epsilon <= 0 {
		epsilon = 1.0
	}
	return &Calculator{epsilon: epsilon}
}

// PMI calculates the smoothed pointwise mutual information between two words
//
// PMI(a,b) = log((N_ab + ε) * N / ((N_a + ε)(N_b + ε)))
//
// Where:
//   - N_ab = joint frequency of a and b
//   - N_a, N_b = marginal frequencies
//   - N = sample size
//   - ε = smoothing constant (default 1.0)
func (c *Calculator) PMI(nAB, nA, nB, n float64) float64 {
	if n <= 0 {
		return 0
	}

	numerator := (nAB + c.epsilon) * n
	denominator := (nA + c.epsilon) * (nB + c.epsilon)

	return math.Log(numerator / denominator)
}

// NPMI calculates normalized PMI, clamped to [-1, 1].
// NPMI(a,b) = PMI(a,b) / -log(P(a,b))
// Pairs that never occur together score -1.
func (c *Calculator) NPMI(nAB, nA, nB, n float64) float64 {
	if n <= 0 || nAB <= 0 {
		return -1
	}

	pAB := (nAB + c.epsilon) / n
	logPAB := math.Log(pAB)
	if logPAB >= 0 {
		// P(a,b) rounds up to 1 under smoothing: perfect association
		return 1
	}

	v := c.PMI(nAB, nA, nB, n) / -logPAB
	return math.Max(-1, math.Min(1, v))
}
