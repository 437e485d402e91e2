package autodiff

import (
	"errors"
	"fmt"
)

// ErrAmbiguousOutput is returned when a node's parent edges lead to more than
// one sink, so "the" output of its expression is not defined.
var ErrAmbiguousOutput = errors.New("autodiff: node reaches more than one output")

// Gradients holds the result of one backward pass: ∂output/∂node for every
// node that can reach output.
type Gradients struct {
	output ID
	grads  []float64 // indexed by ID, len == output+1
}

// Output returns the node the pass was rooted at.
func (p *Gradients) Output() ID {
	return p.output
}

// Of returns ∂output/∂node for id. Nodes that do not reach the output,
// including every node created after it, have gradient 0.
func (p *Gradients) Of(id ID) float64 {
	if id < 0 || int(id) >= len(p.grads) {
		return 0
	}
	return p.grads[id]
}

// Len returns the number of node slots covered by the pass (output ID + 1).
func (p *Gradients) Len() int {
	return len(p.grads)
}

// Output discovers the output of the expression containing id by following
// parent edges until nodes without parents are found.
//
// A node without parents is its own output. If the walk finds more than one
// sink, the first one found is returned together with ErrAmbiguousOutput.
func (g *Graph) Output(id ID) (ID, error) {
	g.mustHave(id)

	seen := make(map[ID]struct{})
	stack := []ID{id}
	sink := ID(-1)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[cur]; ok {
			continue
		}
		seen[cur] = struct{}{}

		n := &g.nodes[cur]
		if len(n.parents) == 0 {
			if sink >= 0 {
				return sink, fmt.Errorf("%w: node #%d reaches #%d and #%d", ErrAmbiguousOutput, id, sink, cur)
			}
			sink = cur
			continue
		}
		for _, e := range n.parents {
			if _, ok := seen[e.parent]; !ok {
				stack = append(stack, e.parent)
			}
		}
	}
	return sink, nil
}

// Gradient returns ∂output/∂id where output is discovered with Output.
//
// An isolated leaf (never used as an operand) returns 0. A derived node with
// no parents is the output itself and returns 1.
func (g *Graph) Gradient(id ID) (float64, error) {
	g.mustHave(id)

	n := &g.nodes[id]
	if n.kind == Leaf && len(n.parents) == 0 {
		return 0, nil
	}

	output, err := g.Output(id)
	if err != nil {
		return 0, err
	}
	return g.Backward(output).Of(id), nil
}

// GradientWRT returns ∂output/∂id for an explicit output.
// Nodes that cannot reach output return 0.
func (g *Graph) GradientWRT(output, id ID) float64 {
	g.mustHave(output)
	g.mustHave(id)
	return g.Backward(output).Of(id)
}

// Backward runs (or returns the cached) backward pass rooted at output.
//
// Algorithm:
//  1. Seed ∂output/∂output = 1 (a leaf output is not seeded, so every
//     gradient of a pass rooted at a leaf is 0)
//  2. Walk IDs from output down to 0. IDs are a topological order, so a node
//     is visited only after every parent that reaches output has added its
//     contribution
//  3. For each reached node, add local · grad into each operand
//
// Only the pass for the most recently queried output is cached. Querying a
// different output discards it and computes a fresh one, so the graph holds at
// most one gradient slice at a time.
func (g *Graph) Backward(output ID) *Gradients {
	g.mustHave(output)
	if g.pass != nil && g.pass.output == output {
		return g.pass
	}

	p := &Gradients{
		output: output,
		grads:  make([]float64, output+1),
	}
	reached := make([]bool, output+1)
	if g.nodes[output].kind == Derived {
		p.grads[output] = 1
		reached[output] = true
	}

	for id := output; id >= 0; id-- {
		if !reached[id] {
			continue
		}
		grad := p.grads[id]
		for _, o := range g.nodes[id].operands {
			local := g.nodes[o.id].parents[o.edge].local
			p.grads[o.id] += local * grad
			reached[o.id] = true
		}
	}

	g.pass = p
	return p
}
