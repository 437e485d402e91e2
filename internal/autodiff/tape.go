package autodiff

import (
	"fmt"

	"github.com/born-ml/scalargrad/internal/autodiff/ops"
)

// ID is the stable index of a node in its Graph.
//
// IDs are assigned in construction order. Because an operation can only take
// already-constructed nodes as operands, every operand ID is smaller than the ID
// of its result, so ascending ID order is a topological order of the graph.
type ID int

// Kind distinguishes user inputs from operation results.
type Kind uint8

// Node kinds.
const (
	Leaf Kind = iota
	Derived
)

// String returns "leaf" or "derived".
func (k Kind) String() string {
	if k == Leaf {
		return "leaf"
	}
	return "derived"
}

// edge records that a node was used as an operand of parent.
// local is ∂parent/∂node evaluated when parent was constructed.
type edge struct {
	parent ID
	local  float64
}

// operand points at an input node and at the edge in that node's parents
// list that was created for this use, so the backward pass finds the local
// derivative without scanning.
type operand struct {
	id   ID
	edge int
}

type node struct {
	value    float64
	kind     Kind
	op       ops.Operation // nil for leaves
	operands []operand
	parents  []edge
}

// Graph is an arena of scalar nodes built by eager evaluation.
//
// Nodes are appended and never removed or changed, except that a node's
// parents list grows each time it is used as an operand. The arena doubles as
// the tape: walking it backwards from an output visits nodes in reverse
// topological order.
//
// A Graph is not safe for concurrent use. Build independent graphs on separate
// goroutines and do not share Values between them.
type Graph struct {
	nodes []node
	pass  *Gradients // last backward pass; replaced when another output is queried
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make([]node, 0, 64), // Pre-allocate for common case
	}
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Leaf creates an input node holding v.
func (g *Graph) Leaf(v float64) Value {
	g.nodes = append(g.nodes, node{value: v, kind: Leaf})
	return Value{g: g, id: ID(len(g.nodes) - 1)}
}

// Const creates a leaf for a constant operand. It is the same as Leaf and
// exists to make the intent of expressions like x.Mul(g.Const(2)) explicit.
func (g *Graph) Const(v float64) Value {
	return g.Leaf(v)
}

// Value returns a handle for an existing node.
// It panics if id is out of range.
func (g *Graph) Value(id ID) Value {
	g.mustHave(id)
	return Value{g: g, id: id}
}

// ResetGradients drops the cached backward pass.
// Later gradient queries recompute from scratch.
func (g *Graph) ResetGradients() {
	g.pass = nil
}

// apply evaluates op over the operands, appends the result node and records
// one parent edge per operand use.
func (g *Graph) apply(op ops.Operation, in ...Value) Value {
	if len(in) != op.Arity() {
		panic(fmt.Sprintf("autodiff: %s takes %d operands, got %d", op.Kind(), op.Arity(), len(in)))
	}

	vals := make([]float64, len(in))
	for i, v := range in {
		g.own(v)
		vals[i] = g.nodes[v.id].value
	}

	id := ID(len(g.nodes))
	local := op.Local(vals)
	operands := make([]operand, len(in))
	for i, v := range in {
		child := &g.nodes[v.id]
		child.parents = append(child.parents, edge{parent: id, local: local[i]})
		operands[i] = operand{id: v.id, edge: len(child.parents) - 1}
	}

	g.nodes = append(g.nodes, node{
		value:    op.Forward(vals),
		kind:     Derived,
		op:       op,
		operands: operands,
	})
	return Value{g: g, id: id}
}

// own panics unless v is a live handle into g.
func (g *Graph) own(v Value) {
	if v.g == nil {
		panic("autodiff: zero Value used as operand")
	}
	if v.g != g {
		panic(fmt.Sprintf("autodiff: node #%d belongs to a different graph", v.id))
	}
	g.mustHave(v.id)
}

func (g *Graph) mustHave(id ID) {
	if id < 0 || int(id) >= len(g.nodes) {
		panic(fmt.Sprintf("autodiff: node #%d out of range [0, %d)", id, len(g.nodes)))
	}
}
