// Package progress carries percentage-complete reporting through the
// analyzers. A Func is threaded explicitly into every call; each stage
// reserves a sub-range of [0,100] and rescales its own progress into it.
package progress

import "sync"

// Func receives a completion percentage in [0,100]. A nil Func is valid
// and reports nothing.
type Func func(percent int)

// Report clamps p into [0,100] and forwards it.
func (f Func) Report(p int) {
	if f == nil {
		return
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	f(p)
}

// Fraction reports done/total as a percentage. total <= 0 reports 0.
func (f Func) Fraction(done, total int) {
	if f == nil {
		return
	}
	if total <= 0 {
		f.Report(0)
		return
	}
	f.Report(int(float64(done) / float64(total) * 100.0))
}

// Done reports 100.
func (f Func) Done() {
	f.Report(100)
}

// Range returns a Func that maps its own 0–100 onto [lo,hi] of f.
func Range(f Func, lo, hi int) Func {
	if f == nil {
		return nil
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return func(p int) {
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		f.Report(lo + int(float64(p)/100.0*float64(hi-lo)))
	}
}

// Monotonic wraps f so the sink only ever sees a non-decreasing sequence.
// The wrapper is safe for concurrent use.
func Monotonic(f Func) Func {
	if f == nil {
		return nil
	}
	var (
		mu   sync.Mutex
		last = -1
	)
	return func(p int) {
		mu.Lock()
		defer mu.Unlock()
		if p < last {
			return
		}
		last = p
		f.Report(p)
	}
}
