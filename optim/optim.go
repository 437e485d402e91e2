// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-based minimization of scalar expressions.
//
// # Overview
//
// This package contains:
//   - SGD: gradient descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom update rules
//   - Minimize: runs an Optimizer against a compiled expression
//
// # Basic Usage
//
//	prog, err := expr.Compile("(x - 3) * (x - 3)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := optim.Minimize(ctx, prog, map[string]float64{"x": 0},
//	    optim.NewAdam(optim.AdamConfig{LR: 0.05}),
//	    optim.MinimizeConfig{Steps: 500, Tolerance: 1e-9},
//	)
//
// # Custom Loops
//
// Optimizers work on any map of named parameters, so they can drive a loop
// over hand-built graphs:
//
//	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.9})
//	params := map[string]float64{"w": 1}
//	for range 100 {
//	    g := autodiff.New()
//	    w := g.Leaf(params["w"])
//	    loss := w.Sub(g.Const(4)).Square()
//	    opt.Step(params, map[string]float64{"w": w.GradWRT(loss)})
//	}
package optim

import (
	"context"

	"github.com/born-ml/scalargrad/internal/expr"
	"github.com/born-ml/scalargrad/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	return optim.NewSGD(config)
}

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
func NewAdam(config AdamConfig) *Adam {
	return optim.NewAdam(config)
}

// MinimizeConfig controls Minimize.
type MinimizeConfig = optim.MinimizeConfig

// Result is the outcome of Minimize.
type Result = optim.Result

// ErrDiverged is returned when the output or a parameter stops being finite.
var ErrDiverged = optim.ErrDiverged

// Minimize runs opt on prog starting at start.
func Minimize(ctx context.Context, prog *expr.Program, start map[string]float64, opt Optimizer, cfg MinimizeConfig) (*Result, error) {
	return optim.Minimize(ctx, prog, start, opt, cfg)
}
