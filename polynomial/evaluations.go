package polynomial

import "github.com/consensys/babyplonk/curve"

// Evaluations is a read-only value vector over the extended evaluation
// domain. Single-polynomial buffers hold 4n values; paired buffers (the
// permutation pair sigma1 || sigma2) hold 8n and are consumed through two
// parallel 4n windows.
type Evaluations struct {
	vals []curve.Scalar
}

// NewEvaluations wraps vals, taking ownership of the slice.
func NewEvaluations(vals []curve.Scalar) *Evaluations {
	return &Evaluations{vals: vals}
}

// Len returns the number of stored values.
func (ev *Evaluations) Len() int { return len(ev.vals) }

// Get returns the value at position i.
func (ev *Evaluations) Get(i int) curve.Scalar {
	if i < 0 || i >= len(ev.vals) {
		panic("polynomial: evaluation index out of range")
	}
	return ev.vals[i]
}

// GetWrapped returns the value at position (i + len) mod len.
func (ev *Evaluations) GetWrapped(i int) curve.Scalar {
	n := len(ev.vals)
	return ev.vals[((i%n)+n)%n]
}
