// Package ops defines the elementary scalar operations understood by the autodiff engine.
//
// Each operation implements the Operation interface, which provides:
//   - Forward: the value of the result given its operand values
//   - Local: the partial derivative of the result with respect to each operand,
//     evaluated at the same operand values
//
// Supported operations:
//   - AddOp: addition (d(a+b)/da = 1, d(a+b)/db = 1)
//   - SubOp: subtraction (d(a-b)/da = 1, d(a-b)/db = -1)
//   - MulOp: multiplication (d(a*b)/da = b, d(a*b)/db = a)
//   - DivOp: division (d(a/b)/da = 1/b, d(a/b)/db = -a/b²)
//   - PowOp: power (d(a^b)/da = b·a^(b-1), d(a^b)/db = ln(a)·a^b)
//   - NegOp: negation (d(-a)/da = -1)
//
// Operations are stateless. The engine evaluates Forward and Local once, when the
// result node is constructed, and stores the local derivatives on the operand edges.
package ops

// Kind identifies an operation.
type Kind uint8

// Operation kinds. KindNone marks leaves.
const (
	KindNone Kind = iota
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindPow
	KindNeg
)

var kindNames = [...]string{
	KindNone: "none",
	KindAdd:  "add",
	KindSub:  "sub",
	KindMul:  "mul",
	KindDiv:  "div",
	KindPow:  "pow",
	KindNeg:  "neg",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Operation represents a differentiable scalar operation.
type Operation interface {
	// Kind returns the operation kind.
	Kind() Kind

	// Arity returns the number of operands (1 or 2).
	Arity() int

	// Symbol returns the infix symbol used when rendering expressions.
	Symbol() string

	// Forward computes the result value from the operand values.
	// len(in) must equal Arity().
	Forward(in []float64) float64

	// Local returns ∂result/∂in[i] for every operand, evaluated at in.
	//
	// Example for MulOp:
	//   in:      [a, b]
	//   returns: [b, a]
	Local(in []float64) []float64
}

// ForKind returns the operation for k, or nil for KindNone and unknown kinds.
func ForKind(k Kind) Operation {
	switch k {
	case KindAdd:
		return Add
	case KindSub:
		return Sub
	case KindMul:
		return Mul
	case KindDiv:
		return Div
	case KindPow:
		return Pow
	case KindNeg:
		return Neg
	default:
		return nil
	}
}
