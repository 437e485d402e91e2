package ops

import "math"

// Pow is the shared PowOp instance.
var Pow Operation = PowOp{}

// PowOp represents exponentiation: output = a ^ b.
//
// Local derivatives:
//   - d(a^b)/da = b · a^(b-1)
//   - d(a^b)/db = ln(a) · a^b
//
// The exponent derivative is NaN for a < 0 and -Inf·0 = NaN for a == 0.
// Callers own domain validity.
type PowOp struct{}

// Kind returns KindPow.
func (PowOp) Kind() Kind { return KindPow }

// Arity returns 2.
func (PowOp) Arity() int { return 2 }

// Symbol returns "^".
func (PowOp) Symbol() string { return "^" }

// Forward returns math.Pow(a, b).
func (PowOp) Forward(in []float64) float64 {
	return math.Pow(in[0], in[1])
}

// Local returns [b·a^(b-1), ln(a)·a^b].
func (PowOp) Local(in []float64) []float64 {
	a, b := in[0], in[1]
	return []float64{
		b * math.Pow(a, b-1),
		math.Log(a) * math.Pow(a, b),
	}
}
