package expr

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/ctxlog"
)

// Binding is a program built on a graph: its output node and one leaf per variable.
type Binding struct {
	Output autodiff.Value
	Inputs map[string]autodiff.Value
}

// Gradient returns ∂Output/∂name.
//
// A variable that is the whole expression has gradient 1. A variable that was
// bound but never referenced has gradient 0.
func (b *Binding) Gradient(name string) (float64, error) {
	in, ok := b.Inputs[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownVariable, name)
	}
	if in.ID() == b.Output.ID() {
		return 1, nil
	}
	return in.GradWRT(b.Output), nil
}

// Build creates one leaf per entry of vars (in name order) and then the nodes
// of the expression. Every variable the expression references must be bound.
func (p *Program) Build(ctx context.Context, g *autodiff.Graph, vars map[string]float64) (*Binding, error) {
	logger := ctxlog.FromContext(ctx)

	for _, name := range p.vars {
		if _, ok := vars[name]; !ok {
			return nil, fmt.Errorf("%w %q in %q", ErrUnknownVariable, name, p.src)
		}
	}

	b := &Binding{Inputs: make(map[string]autodiff.Value, len(vars))}
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		b.Inputs[name] = g.Leaf(vars[name])
	}

	start := g.Len()
	out, err := b.build(g, p.expr)
	if err != nil {
		return nil, err
	}
	b.Output = out

	logger.Debug("Expression built.", "expression", p.src, "nodes", g.Len()-start, "value", out.Value())
	return b, nil
}

// Eval builds the program on a fresh graph and returns the output value.
func (p *Program) Eval(ctx context.Context, vars map[string]float64) (float64, error) {
	b, err := p.Build(ctx, autodiff.New(), vars)
	if err != nil {
		return 0, err
	}
	return b.Output.Value(), nil
}

func (b *Binding) build(g *autodiff.Graph, e hclsyntax.Expression) (autodiff.Value, error) {
	switch e := e.(type) {
	case *hclsyntax.LiteralValueExpr:
		var f float64
		if err := gocty.FromCtyValue(e.Val, &f); err != nil {
			return autodiff.Value{}, fmt.Errorf("%s: %w", e.Range(), err)
		}
		return g.Const(f), nil

	case *hclsyntax.ScopeTraversalExpr:
		return b.Inputs[e.Traversal.RootName()], nil

	case *hclsyntax.ParenthesesExpr:
		return b.build(g, e.Expression)

	case *hclsyntax.UnaryOpExpr:
		v, err := b.build(g, e.Val)
		if err != nil {
			return autodiff.Value{}, err
		}
		return v.Neg(), nil

	case *hclsyntax.BinaryOpExpr:
		l, err := b.build(g, e.LHS)
		if err != nil {
			return autodiff.Value{}, err
		}
		r, err := b.build(g, e.RHS)
		if err != nil {
			return autodiff.Value{}, err
		}
		return binaryOps[e.Op](l, r), nil

	case *hclsyntax.FunctionCallExpr:
		args := make([]autodiff.Value, len(e.Args))
		for i, arg := range e.Args {
			v, err := b.build(g, arg)
			if err != nil {
				return autodiff.Value{}, err
			}
			args[i] = v
		}
		return functions[e.Name].build(args), nil

	default:
		return autodiff.Value{}, unsupported(e, "%T", e)
	}
}
