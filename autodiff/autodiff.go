// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides scalar reverse-mode automatic differentiation.
//
// Values are built eagerly on a Graph; gradients are computed on demand by a
// backward pass from the expression's output.
//
// Example:
//
//	import "github.com/born-ml/scalargrad/autodiff"
//
//	func main() {
//	    g := autodiff.New()
//	    x := g.Leaf(2)
//	    y := g.Leaf(3)
//	    z := x.Add(y).Mul(x) // (x + y) * x
//
//	    fmt.Println(z.Value()) // 10
//	    fmt.Println(x.Grad())  // 7
//	    fmt.Println(y.Grad())  // 2
//	}
package autodiff

import (
	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/autodiff/ops"
)

// Graph is an append-only arena of scalar nodes.
type Graph = autodiff.Graph

// Value is a handle to a node in a Graph.
type Value = autodiff.Value

// ID is the stable index of a node in its Graph.
type ID = autodiff.ID

// Kind distinguishes leaves from derived nodes.
type Kind = autodiff.Kind

// Gradients is the result of one backward pass.
type Gradients = autodiff.Gradients

// Op identifies the operation that produced a node.
type Op = ops.Kind

// Node kinds.
const (
	Leaf    = autodiff.Leaf
	Derived = autodiff.Derived
)

// Operation kinds.
const (
	OpNone = ops.KindNone
	OpAdd  = ops.KindAdd
	OpSub  = ops.KindSub
	OpMul  = ops.KindMul
	OpDiv  = ops.KindDiv
	OpPow  = ops.KindPow
	OpNeg  = ops.KindNeg
)

// ErrAmbiguousOutput is returned when a node reaches more than one output.
var ErrAmbiguousOutput = autodiff.ErrAmbiguousOutput

// New creates an empty graph.
//
// Example:
//
//	g := autodiff.New()
//	x := g.Leaf(3)
//	w := x.Mul(x).Add(x) // x² + x
//	fmt.Println(x.Grad()) // 2x + 1 = 7
func New() *Graph {
	return autodiff.New()
}
