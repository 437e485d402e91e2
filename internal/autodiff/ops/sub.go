package ops

// Sub is the shared SubOp instance.
var Sub Operation = SubOp{}

// SubOp represents subtraction: output = a - b.
//
// Local derivatives:
//   - d(a-b)/da = 1
//   - d(a-b)/db = -1
type SubOp struct{}

// Kind returns KindSub.
func (SubOp) Kind() Kind { return KindSub }

// Arity returns 2.
func (SubOp) Arity() int { return 2 }

// Symbol returns "-".
func (SubOp) Symbol() string { return "-" }

// Forward returns a - b.
func (SubOp) Forward(in []float64) float64 {
	return in[0] - in[1]
}

// Local returns [1, -1].
func (SubOp) Local(_ []float64) []float64 {
	return []float64{1, -1}
}
