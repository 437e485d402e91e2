// Package expr compiles arithmetic written in HCL native syntax into autodiff graphs.
//
// Supported syntax:
//   - number literals: 2, 0.5, 1e-3
//   - variable references: x, rate
//   - parentheses
//   - binary + - * /
//   - unary -
//   - functions: pow(base, exponent), neg(x), square(x)
//
// HCL has no infix power operator, so x^y is written pow(x, y).
//
// Example:
//
//	prog, err := expr.Compile("pow(y, -x * 2)")
//	if err != nil {
//	    return err
//	}
//	b, err := prog.Build(ctx, autodiff.New(), map[string]float64{"x": 2, "y": 4})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(b.Output.Value()) // 0.00390625
//
// Every variable becomes exactly one leaf, so a variable referenced several times
// is a shared node and its gradient accumulates over every use.
package expr
