package ops

// Mul is the shared MulOp instance.
var Mul Operation = MulOp{}

// MulOp represents multiplication: output = a * b.
//
// Local derivatives:
//   - d(a*b)/da = b
//   - d(a*b)/db = a
type MulOp struct{}

// Kind returns KindMul.
func (MulOp) Kind() Kind { return KindMul }

// Arity returns 2.
func (MulOp) Arity() int { return 2 }

// Symbol returns "*".
func (MulOp) Symbol() string { return "*" }

// Forward returns a * b.
func (MulOp) Forward(in []float64) float64 {
	return in[0] * in[1]
}

// Local returns [b, a].
func (MulOp) Local(in []float64) []float64 {
	a, b := in[0], in[1]
	return []float64{b, a}
}
