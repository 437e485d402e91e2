package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/scalargrad/internal/ctxlog"
	"github.com/born-ml/scalargrad/internal/expr"
	"github.com/born-ml/scalargrad/internal/report"
)

// outputOptions are the flags shared by commands that print a report.
type outputOptions struct {
	format string
	check  bool
}

func (o *outputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "text", "Output format: 'text', 'yaml' or 'json'.")
	cmd.Flags().BoolVar(&o.check, "check", false, "Compare every gradient with a central finite-difference estimate.")
}

// emit evaluates prog and writes the report. A failed check is an error.
func (o *outputOptions) emit(cmd *cobra.Command, prog *expr.Program, vars map[string]float64, wrt []string) error {
	format, err := report.ParseFormat(o.format)
	if err != nil {
		return usageError("%v", err)
	}

	r, err := report.Evaluate(cmd.Context(), prog, vars, report.Options{WRT: wrt, Check: o.check})
	if err != nil {
		return err
	}
	if err := report.Write(cmd.OutOrStdout(), r, format); err != nil {
		return err
	}
	if r.Failed() {
		return &ExitError{Code: 1, Message: "gradient check failed"}
	}
	return nil
}

func newExprCmd() *cobra.Command {
	var (
		out  outputOptions
		vars []string
		wrt  []string
	)

	cmd := &cobra.Command{
		Use:   "expr EXPRESSION",
		Short: "Evaluate an expression and its gradients",
		Long: `Evaluate an arithmetic expression written in HCL syntax and report its
value and the gradient of the result with respect to each variable.

Supported syntax: numbers, variables, parentheses, + - * /, unary -,
pow(base, exponent), neg(x), square(x).

Examples:
  scalargrad expr "(x + y) * x" --var x=2 --var y=3
  scalargrad expr "x * x + x" --var x=3 --check
  scalargrad expr "pow(x, y)" --var x=2 --var y=4 --wrt y --format json`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctxlog.FromContext(cmd.Context())

			prog, err := expr.Compile(args[0])
			if err != nil {
				return usageError("%v", err)
			}

			values, err := parseVars(vars)
			if err != nil {
				return err
			}
			if len(wrt) == 0 {
				wrt = prog.Variables()
			}
			for _, name := range wrt {
				if _, ok := values[name]; !ok {
					return usageError("invalid --wrt %q: variable is not bound with --var", name)
				}
			}
			logger.Debug("Expression compiled.", "expression", prog.Source(), "variables", prog.Variables(), "wrt", wrt)

			return out.emit(cmd, prog, values, wrt)
		},
	}

	cmd.Flags().StringArrayVarP(&vars, "var", "v", nil, "Variable binding NAME=VALUE (repeatable).")
	cmd.Flags().StringSliceVar(&wrt, "wrt", nil, "Variables to differentiate with respect to (default: all referenced).")
	out.register(cmd)
	return cmd
}

// parseVars turns NAME=VALUE bindings into a map.
func parseVars(bindings []string) (map[string]float64, error) {
	vars := make(map[string]float64, len(bindings))
	for _, b := range bindings {
		name, raw, ok := strings.Cut(b, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, usageError("invalid --var %q: expected NAME=VALUE", b)
		}
		if _, dup := vars[name]; dup {
			return nil, usageError("invalid --var %q: %s is already bound", b, name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, usageError("invalid --var %q: %v", b, err)
		}
		vars[name] = v
	}
	return vars, nil
}
