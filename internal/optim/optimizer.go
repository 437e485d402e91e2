// Package optim implements gradient-based minimization of scalar expressions.
//
// This package provides:
//   - Optimizer interface: one update rule applied to named parameters
//   - SGD: gradient descent with optional momentum
//   - Adam: Adaptive Moment Estimation
//   - Minimize: the loop that rebuilds an expression graph per step, runs the
//     backward pass and feeds the gradients to an Optimizer
//
// Example usage:
//
//	prog, _ := expr.Compile("(x - 3) * (x - 3)")
//	res, err := optim.Minimize(ctx, prog, map[string]float64{"x": 0},
//	    optim.NewSGD(optim.SGDConfig{LR: 0.1}),
//	    optim.MinimizeConfig{Steps: 200},
//	)
package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/ctxlog"
	"github.com/born-ml/scalargrad/internal/expr"
)

// ErrDiverged is returned by Minimize when the output or a parameter stops
// being finite.
var ErrDiverged = errors.New("optimization diverged")

// Optimizer updates named scalar parameters from their gradients.
type Optimizer interface {
	// Step applies one update to params in place. Parameters without an
	// entry in grads are left unchanged.
	Step(params, grads map[string]float64)

	// GetLR returns the current learning rate.
	GetLR() float64
}

// MinimizeConfig controls Minimize.
type MinimizeConfig struct {
	// Steps is the maximum number of updates (default: 100).
	Steps int
	// Tolerance stops the loop once every gradient magnitude is below it.
	// Zero disables early stopping.
	Tolerance float64
	// Params lists the variables to optimize. Empty means every variable
	// the program references; the others stay fixed.
	Params []string
}

// Result is the outcome of Minimize.
type Result struct {
	Variables map[string]float64 // final point, fixed variables included
	Value     float64            // output at the final point
	Gradients map[string]float64 // gradients at the final point
	Steps     int                // updates applied
	Converged bool               // stopped by Tolerance
}

// Minimize runs opt on prog starting at start.
//
// Every step builds prog on a fresh graph, so the arena holds one step's
// nodes at a time. The start map is not modified.
func Minimize(ctx context.Context, prog *expr.Program, start map[string]float64, opt Optimizer, cfg MinimizeConfig) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	if cfg.Steps <= 0 {
		cfg.Steps = 100
	}
	names := cfg.Params
	if len(names) == 0 {
		names = prog.Variables()
	}

	vars := maps.Clone(start)
	res := &Result{Variables: vars}
	for step := 0; ; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		value, grads, err := evaluate(ctx, prog, vars, names)
		if err != nil {
			return nil, err
		}
		res.Value, res.Gradients = value, grads

		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("%w at step %d: output is %v", ErrDiverged, step, value)
		}
		if cfg.Tolerance > 0 && maxAbs(grads) < cfg.Tolerance {
			res.Converged = true
			break
		}
		if step == cfg.Steps {
			break
		}

		params := make(map[string]float64, len(names))
		for _, name := range names {
			params[name] = vars[name]
		}
		opt.Step(params, grads)
		for name, v := range params {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w at step %d: %s is %v", ErrDiverged, step, name, v)
			}
			vars[name] = v
		}
		res.Steps++

		logger.Debug("Optimizer step.", "step", res.Steps, "value", value, "lr", opt.GetLR())
	}

	logger.Info("Minimization finished.", "steps", res.Steps, "value", res.Value, "converged", res.Converged)
	return res, nil
}

func evaluate(ctx context.Context, prog *expr.Program, vars map[string]float64, names []string) (float64, map[string]float64, error) {
	b, err := prog.Build(ctx, autodiff.New(), vars)
	if err != nil {
		return 0, nil, err
	}
	grads := make(map[string]float64, len(names))
	for _, name := range names {
		g, err := b.Gradient(name)
		if err != nil {
			return 0, nil, err
		}
		grads[name] = g
	}
	return b.Output.Value(), grads, nil
}

func maxAbs(m map[string]float64) float64 {
	var out float64
	for _, v := range m {
		out = math.Max(out, math.Abs(v))
	}
	return out
}
