// Package problem loads differentiation problems from HCL files.
//
// A problem file binds variables, names the output expression and optionally
// lists the variables to differentiate with respect to:
//
//	variables {
//	  x = 2
//	  y = 3
//	}
//
//	output = (x + y) * x
//	wrt    = ["x", "y"]
//
// Variable values may be constant expressions (-1, 1/3). When wrt is omitted,
// gradients are reported for every variable in declaration order.
package problem

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/born-ml/scalargrad/internal/ctxlog"
	"github.com/born-ml/scalargrad/internal/expr"
)

// ErrUnknownVariable is returned when output or wrt names a variable the
// variables block does not define. It is expr.ErrUnknownVariable, so either
// name matches with errors.Is.
var ErrUnknownVariable = expr.ErrUnknownVariable

// Problem is a loaded problem file.
type Problem struct {
	Path      string
	Variables map[string]float64
	Order     []string // variable names in declaration order
	Program   *expr.Program
	WRT       []string
}

// fileRoot is the top-level schema of a problem file.
type fileRoot struct {
	Variables *variablesBlock `hcl:"variables,block"`
	Output    hcl.Expression  `hcl:"output"`
	WRT       []string        `hcl:"wrt,optional"`
}

type variablesBlock struct {
	Remain hcl.Body `hcl:",remain"`
}

// Load reads and parses the problem file at path.
func Load(ctx context.Context, path string) (*Problem, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem file: %w", err)
	}
	return Parse(ctx, src, path)
}

// Parse parses problem file content. filename is used in diagnostics.
func Parse(ctx context.Context, src []byte, filename string) (*Problem, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing problem file.", "path", filename, "bytes", len(src))

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse problem file %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode problem file %s: %w", filename, diags)
	}

	p := &Problem{
		Path:      filename,
		Variables: make(map[string]float64),
	}
	if root.Variables != nil {
		if err := p.decodeVariables(root.Variables.Remain); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}

	prog, err := expr.FromHCL(root.Output, src)
	if err != nil {
		return nil, fmt.Errorf("%s: output: %w", filename, err)
	}
	for _, name := range prog.Variables() {
		if _, ok := p.Variables[name]; !ok {
			return nil, fmt.Errorf("%s: output references %w %q", filename, ErrUnknownVariable, name)
		}
	}
	p.Program = prog

	p.WRT = root.WRT
	if p.WRT == nil {
		p.WRT = slices.Clone(p.Order)
	}
	for _, name := range p.WRT {
		if _, ok := p.Variables[name]; !ok {
			return nil, fmt.Errorf("%s: wrt lists %w %q", filename, ErrUnknownVariable, name)
		}
	}

	logger.Debug("Problem file loaded.", "path", filename, "variables", len(p.Variables), "output", prog.Source())
	return p, nil
}

func (p *Problem) decodeVariables(body hcl.Body) error {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}

	list := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		list = append(list, attr)
	}
	slices.SortFunc(list, func(a, b *hcl.Attribute) int {
		return a.Range.Start.Byte - b.Range.Start.Byte
	})

	for _, attr := range list {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return diags
		}
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return fmt.Errorf("%s: variable %q: %w", attr.Range, attr.Name, err)
		}
		p.Variables[attr.Name] = f
		p.Order = append(p.Order, attr.Name)
	}
	return nil
}
