// Package report evaluates a compiled expression and renders the result.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/ctxlog"
	"github.com/born-ml/scalargrad/internal/expr"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects how a Report is written.
type Format string

// Supported formats.
const (
	Text Format = "text"
	YAML Format = "yaml"
	JSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, YAML, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q: must be 'text', 'yaml' or 'json'", ErrUnknownFormat, s)
	}
}

// Number is a float64 that survives JSON encoding when it is NaN or ±Inf.
type Number float64

// MarshalJSON encodes finite numbers as JSON numbers and the rest as the
// strings "NaN", "+Inf" and "-Inf".
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return json.Marshal(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return json.Marshal(f)
}

// Gradient is one ∂output/∂variable entry.
type Gradient struct {
	Variable string  `yaml:"variable" json:"variable"`
	Value    Number  `yaml:"value" json:"value"`
	Numeric  *Number `yaml:"numeric,omitempty" json:"numeric,omitempty"`
	OK       *bool   `yaml:"ok,omitempty" json:"ok,omitempty"`
}

// Optimization describes the minimization run that produced a report's inputs.
type Optimization struct {
	Optimizer string `yaml:"optimizer" json:"optimizer"`
	Steps     int    `yaml:"steps" json:"steps"`
	Converged bool   `yaml:"converged" json:"converged"`
}

// Report is the result of evaluating an expression and its gradients.
type Report struct {
	Expression   string             `yaml:"expression" json:"expression"`
	Rendered     string             `yaml:"rendered" json:"rendered"`
	Inputs       map[string]float64 `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Value        Number             `yaml:"value" json:"value"`
	Gradients    []Gradient         `yaml:"gradients,omitempty" json:"gradients,omitempty"`
	Optimization *Optimization      `yaml:"optimization,omitempty" json:"optimization,omitempty"`
}

// Options controls Evaluate.
type Options struct {
	// WRT lists the variables to differentiate with respect to, in report order.
	WRT []string
	// Check adds a finite-difference estimate to every gradient.
	Check bool
	// CheckOptions configures the check; the zero value means expr.DefaultCheckOptions.
	CheckOptions expr.CheckOptions
}

// Evaluate builds prog with vars and collects the output value and gradients.
func Evaluate(ctx context.Context, prog *expr.Program, vars map[string]float64, opts Options) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	b, err := prog.Build(ctx, autodiff.New(), vars)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Expression: prog.Source(),
		Rendered:   b.Output.String(),
		Inputs:     vars,
		Value:      Number(b.Output.Value()),
	}

	for _, name := range opts.WRT {
		grad, err := b.Gradient(name)
		if err != nil {
			return nil, err
		}
		r.Gradients = append(r.Gradients, Gradient{Variable: name, Value: Number(grad)})
	}

	if opts.Check && len(opts.WRT) > 0 {
		checkOpts := opts.CheckOptions
		if checkOpts == (expr.CheckOptions{}) {
			checkOpts = expr.DefaultCheckOptions()
		}
		results, err := prog.Check(ctx, vars, opts.WRT, checkOpts)
		if err != nil {
			return nil, err
		}
		for i, res := range results {
			numeric := Number(res.Numeric)
			ok := res.OK
			r.Gradients[i].Numeric = &numeric
			r.Gradients[i].OK = &ok
		}
	}

	logger.Debug("Report evaluated.", "expression", r.Expression, "gradients", len(r.Gradients))
	return r, nil
}

// Failed reports whether any checked gradient disagreed with its estimate.
func (r *Report) Failed() bool {
	for _, g := range r.Gradients {
		if g.OK != nil && !*g.OK {
			return true
		}
	}
	return false
}

// Write renders r to w in the given format.
func Write(w io.Writer, r *Report, format Format) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()

	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil

	case Text, "":
		return writeText(w, r)

	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

func writeText(w io.Writer, r *Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "expression: %s\n", r.Expression)
	fmt.Fprintf(&b, "rendered:   %s\n", r.Rendered)
	fmt.Fprintf(&b, "value:      %s\n", formatFloat(float64(r.Value)))
	for _, g := range r.Gradients {
		fmt.Fprintf(&b, "d/d%s:%s%s", g.Variable, pad(g.Variable), formatFloat(float64(g.Value)))
		if g.Numeric != nil {
			status := "ok"
			if g.OK != nil && !*g.OK {
				status = "MISMATCH"
			}
			fmt.Fprintf(&b, "  (numeric %s, %s)", formatFloat(float64(*g.Numeric)), status)
		}
		b.WriteString("\n")
	}
	if o := r.Optimization; o != nil {
		fmt.Fprintf(&b, "optimizer:  %s (%d steps, converged=%t)\n", o.Optimizer, o.Steps, o.Converged)
		for _, name := range slices.Sorted(maps.Keys(r.Inputs)) {
			fmt.Fprintf(&b, "%-12s%s\n", name+":", formatFloat(r.Inputs[name]))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// pad aligns gradient values with the "value:" column.
func pad(name string) string {
	if n := 8 - len(name); n > 0 {
		return strings.Repeat(" ", n)
	}
	return " "
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
