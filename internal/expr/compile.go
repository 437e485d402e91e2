package expr

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

// function describes a callable usable in expressions.
type function struct {
	arity int
	build func(args []autodiff.Value) autodiff.Value
}

var functions = map[string]function{
	"pow":    {2, func(a []autodiff.Value) autodiff.Value { return a[0].Pow(a[1]) }},
	"neg":    {1, func(a []autodiff.Value) autodiff.Value { return a[0].Neg() }},
	"square": {1, func(a []autodiff.Value) autodiff.Value { return a[0].Square() }},
}

var binaryOps = map[*hclsyntax.Operation]func(l, r autodiff.Value) autodiff.Value{
	hclsyntax.OpAdd:      autodiff.Value.Add,
	hclsyntax.OpSubtract: autodiff.Value.Sub,
	hclsyntax.OpMultiply: autodiff.Value.Mul,
	hclsyntax.OpDivide:   autodiff.Value.Div,
}

// Program is a validated expression ready to be built on a graph.
type Program struct {
	src  string
	expr hclsyntax.Expression
	vars []string
}

// Compile parses and validates src.
func Compile(src string) (*Program, error) {
	e, diags := hclsyntax.ParseExpression([]byte(src), "expression", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %q: %w", src, diags)
	}
	return newProgram(src, e)
}

// FromHCL compiles an expression taken from a parsed HCL file, typically an
// attribute decoded into an hcl.Expression field. src is the file content the
// expression was parsed from; it is used to keep the expression's source text.
func FromHCL(e hcl.Expression, src []byte) (*Program, error) {
	syn, ok := e.(hclsyntax.Expression)
	if !ok {
		return nil, fmt.Errorf("%s: %w: expression is not in HCL native syntax", e.Range(), ErrUnsupportedExpression)
	}
	return newProgram(string(e.Range().SliceBytes(src)), syn)
}

func newProgram(src string, e hclsyntax.Expression) (*Program, error) {
	if err := validate(e); err != nil {
		return nil, err
	}

	var vars []string
	for _, tr := range e.Variables() {
		name := tr.RootName()
		if !slices.Contains(vars, name) {
			vars = append(vars, name)
		}
	}
	slices.Sort(vars)

	return &Program{src: src, expr: e, vars: vars}, nil
}

// Source returns the expression text.
func (p *Program) Source() string {
	return p.src
}

// Variables returns the sorted names of the variables the expression references.
func (p *Program) Variables() []string {
	return slices.Clone(p.vars)
}

// validate rejects every construct the builder cannot translate.
func validate(e hclsyntax.Expression) error {
	switch e := e.(type) {
	case *hclsyntax.LiteralValueExpr:
		if e.Val.IsNull() || !e.Val.IsKnown() || e.Val.Type() != cty.Number {
			return unsupported(e, "literal %s is not a number", e.Val.Type().FriendlyName())
		}
		return nil

	case *hclsyntax.ScopeTraversalExpr:
		if len(e.Traversal) != 1 {
			return unsupported(e, "attribute and index access are not supported")
		}
		return nil

	case *hclsyntax.ParenthesesExpr:
		return validate(e.Expression)

	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			return unsupported(e, "only unary minus is supported")
		}
		return validate(e.Val)

	case *hclsyntax.BinaryOpExpr:
		if _, ok := binaryOps[e.Op]; !ok {
			return unsupported(e, "only + - * / are supported")
		}
		if err := validate(e.LHS); err != nil {
			return err
		}
		return validate(e.RHS)

	case *hclsyntax.FunctionCallExpr:
		fn, ok := functions[e.Name]
		if !ok {
			return fmt.Errorf("%s: %w %q", e.Range(), ErrUnknownFunction, e.Name)
		}
		if e.ExpandFinal {
			return unsupported(e, "argument expansion is not supported")
		}
		if len(e.Args) != fn.arity {
			return unsupported(e, "%s takes %d arguments, got %d", e.Name, fn.arity, len(e.Args))
		}
		for _, arg := range e.Args {
			if err := validate(arg); err != nil {
				return err
			}
		}
		return nil

	default:
		return unsupported(e, "%T", e)
	}
}

func unsupported(e hclsyntax.Expression, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", e.Range(), ErrUnsupportedExpression, fmt.Sprintf(format, args...))
}
