// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package expr compiles arithmetic written in HCL native syntax into
// autodiff graphs.
//
// Supported syntax: number literals, variables, parentheses, + - * /,
// unary -, pow(base, exponent), neg(x) and square(x).
//
//	prog, err := expr.Compile("pow(y, -x * 2)")
//	b, err := prog.Build(ctx, autodiff.New(), map[string]float64{"x": 2, "y": 4})
//	fmt.Println(b.Output.Value()) // 0.00390625
package expr

import (
	"github.com/born-ml/scalargrad/internal/expr"
)

// Program is a compiled expression.
type Program = expr.Program

// Binding is a Program built on a graph.
type Binding = expr.Binding

// CheckOptions configures finite-difference gradient checks.
type CheckOptions = expr.CheckOptions

// CheckResult compares one analytic gradient with its numeric estimate.
type CheckResult = expr.CheckResult

// Compile errors.
var (
	ErrUnsupportedExpression = expr.ErrUnsupportedExpression
	ErrUnknownFunction       = expr.ErrUnknownFunction
	ErrUnknownVariable       = expr.ErrUnknownVariable
)

// Compile parses src and validates that it only uses supported syntax.
func Compile(src string) (*Program, error) {
	return expr.Compile(src)
}

// DefaultCheckOptions returns ε = 1e-6 and tolerance 1e-4.
func DefaultCheckOptions() CheckOptions {
	return expr.DefaultCheckOptions()
}
