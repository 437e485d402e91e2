package ops

// Add is the shared AddOp instance.
var Add Operation = AddOp{}

// AddOp represents addition: output = a + b.
//
// Local derivatives:
//   - d(a+b)/da = 1
//   - d(a+b)/db = 1
type AddOp struct{}

// Kind returns KindAdd.
func (AddOp) Kind() Kind { return KindAdd }

// Arity returns 2.
func (AddOp) Arity() int { return 2 }

// Symbol returns "+".
func (AddOp) Symbol() string { return "+" }

// Forward returns a + b.
func (AddOp) Forward(in []float64) float64 {
	return in[0] + in[1]
}

// Local returns [1, 1].
func (AddOp) Local(_ []float64) []float64 {
	return []float64{1, 1}
}
