// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim_test

import (
	"context"
	"fmt"

	"github.com/born-ml/scalargrad/autodiff"
	"github.com/born-ml/scalargrad/expr"
	"github.com/born-ml/scalargrad/optim"
)

func ExampleMinimize() {
	prog, err := expr.Compile("(x - 3) * (x - 3)")
	if err != nil {
		panic(err)
	}

	res, err := optim.Minimize(context.Background(), prog, map[string]float64{"x": 0},
		optim.NewSGD(optim.SGDConfig{LR: 0.1}),
		optim.MinimizeConfig{Steps: 500, Tolerance: 1e-9},
	)
	if err != nil {
		panic(err)
	}

	fmt.Printf("x = %.4f\n", res.Variables["x"])
	fmt.Println("converged:", res.Converged)
	// Output:
	// x = 3.0000
	// converged: true
}

func ExampleSGD_Step() {
	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1})
	params := map[string]float64{"w": 1}

	for range 200 {
		g := autodiff.New()
		w := g.Leaf(params["w"])
		loss := w.Sub(g.Const(4)).Square()
		opt.Step(params, map[string]float64{"w": w.GradWRT(loss)})
	}

	fmt.Printf("w = %.4f\n", params["w"])
	// Output:
	// w = 4.0000
}
