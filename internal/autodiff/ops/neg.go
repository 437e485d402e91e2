package ops

// Neg is the shared NegOp instance.
var Neg Operation = NegOp{}

// NegOp represents negation: output = -a.
//
// Local derivative:
//   - d(-a)/da = -1
//
// Negation is a unary op with its own edge rather than a multiplication by a
// constant -1 leaf, so it never allocates an extra node.
type NegOp struct{}

// Kind returns KindNeg.
func (NegOp) Kind() Kind { return KindNeg }

// Arity returns 1.
func (NegOp) Arity() int { return 1 }

// Symbol returns "-".
func (NegOp) Symbol() string { return "-" }

// Forward returns -a.
func (NegOp) Forward(in []float64) float64 {
	return -in[0]
}

// Local returns [-1].
func (NegOp) Local(_ []float64) []float64 {
	return []float64{-1}
}
