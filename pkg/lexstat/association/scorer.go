// Package association scores how strongly two words are associated given
// their marginal frequencies, their joint frequency and the sample size.
//
// Collocation analysis feeds it token counts (joint = adjacent bigram
// count, n = tokens in the dataset); cooccurrence analysis feeds it block
// counts (joint = blocks containing both words, n = number of blocks).
package association

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
)

// MinScore is the floor for measures that are unbounded below.
const MinScore = -math.MaxFloat64

// Scorer is a pluggable association measure.
//
// Score must return a finite value. A pair that was never observed together
// (fAB == 0), or any zero marginal or sample size, scores Floor().
type Scorer interface {
	Name() string
	Score(fA, fB, fAB, n float64) float64
	Floor() float64
}

// MutualInformation is pointwise mutual information in bits.
//
//	MI = log2(f_ab * n / (f_a * f_b))
type MutualInformation struct{}

func (MutualInformation) Name() string   { return "mutual_information" }
func (MutualInformation) Floor() float64 { return MinScore }

func (m MutualInformation) Score(fA, fB, fAB, n float64) float64 {
	if fAB <= 0 || fA <= 0 || fB <= 0 || n <= 0 {
		return m.Floor()
	}
	return finite(math.Log2(fAB*n/(fA*fB)), m.Floor())
}

// TScore is the t-test approximation used for collocations.
//
//	t = (f_ab - f_a*f_b/n) / sqrt(f_ab)
type TScore struct{}

func (TScore) Name() string   { return "t_score" }
func (TScore) Floor() float64 { return MinScore }

func (s TScore) Score(fA, fB, fAB, n float64) float64 {
	if fAB <= 0 || n <= 0 {
		return s.Floor()
	}
	return finite((fAB-fA*fB/n)/math.Sqrt(fAB), s.Floor())
}

// LogLikelihood is Dunning's log-likelihood ratio (G²) for the 2x2
// contingency table of a and b. It is never negative.
type LogLikelihood struct{}

func (LogLikelihood) Name() string   { return "log_likelihood" }
func (LogLikelihood) Floor() float64 { return 0 }

func (l LogLikelihood) Score(fA, fB, fAB, n float64) float64 {
	if fAB <= 0 || fA <= 0 || fB <= 0 || n <= 0 {
		return l.Floor()
	}

	p := fB / n
	p1 := fAB / fA
	var p2 float64
	if n-fA > 0 {
		p2 = (fB - fAB) / (n - fA)
	}

	ll := logL(fAB, fA, p1) + logL(fB-fAB, n-fA, p2) -
		logL(fAB, fA, p) - logL(fB-fAB, n-fA, p)

	return finite(math.Max(0, 2*ll), l.Floor())
}

// logL is the log of the binomial likelihood x^k (1-x)^(n-k), taking
// 0*log(0) as 0.
func logL(k, n, x float64) float64 {
	if n <= 0 {
		return 0
	}
	x = math.Max(0, math.Min(1, x))
	k = math.Max(0, math.Min(n, k))

	var out float64
	if k > 0 {
		out += k * math.Log(x)
	}
	if n-k > 0 {
		out += (n - k) * math.Log(1-x)
	}
	return out
}

// NPMI is smoothed, normalized PMI in [-1, 1].
type NPMI struct {
	calc *Calculator
}

// NewNPMI returns an NPMI scorer with the given smoothing constant.
func NewNPMI(epsilon float64) NPMI {
	return NPMI{calc: NewCalculator(epsilon)}
}

func (NPMI) Name() string   { return "npmi" }
func (NPMI) Floor() float64 { return -1 }

func (s NPMI) Score(fA, fB, fAB, n float64) float64 {
	calc := s.calc
	if calc == nil {
		calc = NewCalculator(1.0)
	}
	return finite(calc.NPMI(fAB, fA, fB, n), s.Floor())
}

func finite(v, floor float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return floor
	}
	return v
}

var registry = map[string]func() Scorer{
	"mutual_information": func() Scorer { return MutualInformation{} },
	"t_score":            func() Scorer { return TScore{} },
	"log_likelihood":     func() Scorer { return LogLikelihood{} },
	"npmi":               func() Scorer { return NewNPMI(1.0) },
}

var aliases = map[string]string{
	"mi":     "mutual_information",
	"t":      "t_score",
	"t_test": "t_score",
	"ll":     "log_likelihood",
	"g2":     "log_likelihood",
}

// ByName returns the scorer registered under name (or an alias).
func ByName(name string) (Scorer, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	ctor, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown scorer %q (have %s)", internalerr.ErrInvalidConfig, name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists the registered scorer names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
