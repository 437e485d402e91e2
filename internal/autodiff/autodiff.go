// Package autodiff implements scalar reverse-mode automatic differentiation.
//
// A Graph is an arena of nodes. Leaves hold user inputs; every arithmetic call
// on a Value evaluates its result immediately, appends one node and records, on
// each operand, the local derivative of the result with respect to that operand.
// Gradients are computed on demand by a backward pass from the output.
//
// Architecture:
//   - Graph: append-only arena addressed by stable IDs (see tape.go)
//   - Value: lightweight handle (graph + ID) exposing the arithmetic API
//   - ops.Operation: forward rule and closed-form local derivatives per op
//   - Gradients: the result of one backward pass, cached for the last queried output
//
// Usage:
//
//	g := autodiff.New()
//	x := g.Leaf(2)
//	y := g.Leaf(3)
//	z := x.Add(y).Mul(x) // z = (x + y) * x = 10
//
//	fmt.Println(x.Grad()) // dz/dx = 2x + y = 7
//	fmt.Println(y.Grad()) // dz/dy = x = 2
//
// Domain problems (division by zero, ln of a non-positive base in Pow) are not
// errors: they surface as NaN or ±Inf exactly as float64 arithmetic produces them.
package autodiff

import (
	"github.com/born-ml/scalargrad/internal/autodiff/ops"
)

// Value is a handle to a node in a Graph.
//
// Values are cheap to copy. The zero Value is not usable; obtain Values from
// Graph.Leaf or from arithmetic on other Values. Combining Values from different
// graphs panics.
type Value struct {
	g  *Graph
	id ID
}

// ID returns the node's index in its graph.
func (v Value) ID() ID { return v.id }

// Graph returns the graph the node belongs to.
func (v Value) Graph() *Graph { return v.g }

// Valid reports whether v refers to a node.
func (v Value) Valid() bool { return v.g != nil }

// Value returns the forward value computed when the node was created.
func (v Value) Value() float64 {
	return v.node().value
}

// Kind returns Leaf or Derived.
func (v Value) Kind() Kind {
	return v.node().kind
}

// Op returns the kind of operation that produced the node (ops.KindNone for leaves).
func (v Value) Op() ops.Kind {
	if op := v.node().op; op != nil {
		return op.Kind()
	}
	return ops.KindNone
}

// Operands returns the nodes this node was computed from, in order.
func (v Value) Operands() []Value {
	n := v.node()
	out := make([]Value, len(n.operands))
	for i, o := range n.operands {
		out[i] = Value{g: v.g, id: o.id}
	}
	return out
}

// NumParents returns how many operation calls used this node as an operand.
func (v Value) NumParents() int {
	return len(v.node().parents)
}

// Add returns v + o.
func (v Value) Add(o Value) Value {
	return v.graph().apply(ops.Add, v, o)
}

// Sub returns v - o.
func (v Value) Sub(o Value) Value {
	return v.graph().apply(ops.Sub, v, o)
}

// Mul returns v * o.
func (v Value) Mul(o Value) Value {
	return v.graph().apply(ops.Mul, v, o)
}

// Div returns v / o.
func (v Value) Div(o Value) Value {
	return v.graph().apply(ops.Div, v, o)
}

// Pow returns v ^ o.
func (v Value) Pow(o Value) Value {
	return v.graph().apply(ops.Pow, v, o)
}

// Neg returns -v. It records a single edge with local derivative -1.
func (v Value) Neg() Value {
	return v.graph().apply(ops.Neg, v)
}

// Square returns v ^ 2, using a new constant leaf for the exponent.
func (v Value) Square() Value {
	g := v.graph()
	return g.apply(ops.Pow, v, g.Const(2))
}

// Grad returns ∂output/∂v, where output is the single sink reachable from v.
//
// An isolated leaf has gradient 0. Grad panics if v reaches more than one
// output; use Graph.Gradient to get an error instead, or Graph.GradientWRT to
// name the output explicitly.
func (v Value) Grad() float64 {
	grad, err := v.graph().Gradient(v.id)
	if err != nil {
		panic(err)
	}
	return grad
}

// GradWRT returns ∂output/∂v for an explicit output node.
func (v Value) GradWRT(output Value) float64 {
	g := v.graph()
	g.own(output)
	return g.GradientWRT(output.id, v.id)
}

func (v Value) graph() *Graph {
	if v.g == nil {
		panic("autodiff: method called on zero Value")
	}
	return v.g
}

func (v Value) node() *node {
	g := v.graph()
	g.mustHave(v.id)
	return &g.nodes[v.id]
}
