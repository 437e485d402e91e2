package ops

// Div is the shared DivOp instance.
var Div Operation = DivOp{}

// DivOp represents division: output = a / b.
//
// Local derivatives:
//   - d(a/b)/da = 1/b
//   - d(a/b)/db = -a/b²
//
// b == 0 produces ±Inf or NaN, as IEEE 754 division does.
type DivOp struct{}

// Kind returns KindDiv.
func (DivOp) Kind() Kind { return KindDiv }

// Arity returns 2.
func (DivOp) Arity() int { return 2 }

// Symbol returns "/".
func (DivOp) Symbol() string { return "/" }

// Forward returns a / b.
func (DivOp) Forward(in []float64) float64 {
	return in[0] / in[1]
}

// Local returns [1/b, -a/b²].
func (DivOp) Local(in []float64) []float64 {
	a, b := in[0], in[1]
	return []float64{1 / b, -(a / (b * b))}
}
