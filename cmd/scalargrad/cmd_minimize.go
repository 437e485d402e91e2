package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/scalargrad/internal/optim"
	"github.com/born-ml/scalargrad/internal/problem"
	"github.com/born-ml/scalargrad/internal/report"
)

func newMinimizeCmd() *cobra.Command {
	var (
		format    string
		optimizer string
		lr        float64
		momentum  float64
		steps     int
		tolerance float64
	)

	cmd := &cobra.Command{
		Use:   "minimize FILE",
		Short: "Minimize the output of a problem file by gradient descent",
		Long: `Minimize the output expression of an HCL problem file, starting from its
variable values. The variables listed in wrt (default: all) are optimized,
the others stay fixed. The report shows the final point.

Examples:
  scalargrad minimize bowl.hcl --lr 0.1 --steps 500
  scalargrad minimize bowl.hcl --optimizer adam --lr 0.05 --tolerance 1e-8`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := report.ParseFormat(format)
			if err != nil {
				return usageError("%v", err)
			}
			if steps < 1 {
				return usageError("invalid --steps %d: must be at least 1", steps)
			}
			if momentum < 0 || momentum >= 1 {
				return usageError("invalid --momentum %v: must be in [0, 1)", momentum)
			}

			var opt optim.Optimizer
			switch strings.ToLower(optimizer) {
			case "sgd":
				opt = optim.NewSGD(optim.SGDConfig{LR: lr, Momentum: momentum})
			case "adam":
				if cmd.Flags().Changed("momentum") {
					return usageError("--momentum only applies to --optimizer sgd")
				}
				opt = optim.NewAdam(optim.AdamConfig{LR: lr})
			default:
				return usageError("invalid --optimizer %q: must be 'sgd' or 'adam'", optimizer)
			}

			p, err := problem.Load(ctx, args[0])
			if err != nil {
				return err
			}

			res, err := optim.Minimize(ctx, p.Program, p.Variables, opt, optim.MinimizeConfig{
				Steps:     steps,
				Tolerance: tolerance,
				Params:    p.WRT,
			})
			if err != nil {
				return err
			}

			r, err := report.Evaluate(ctx, p.Program, res.Variables, report.Options{WRT: p.WRT})
			if err != nil {
				return err
			}
			r.Optimization = &report.Optimization{
				Optimizer: strings.ToLower(optimizer),
				Steps:     res.Steps,
				Converged: res.Converged,
			}
			return report.Write(cmd.OutOrStdout(), r, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: 'text', 'yaml' or 'json'.")
	cmd.Flags().StringVar(&optimizer, "optimizer", "sgd", "Update rule: 'sgd' or 'adam'.")
	cmd.Flags().Float64Var(&lr, "lr", 0, "Learning rate (default: 0.01 for sgd, 0.001 for adam).")
	cmd.Flags().Float64Var(&momentum, "momentum", 0, "SGD momentum factor in [0, 1).")
	cmd.Flags().IntVar(&steps, "steps", 100, "Maximum number of updates (at least 1).")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Stop once every gradient magnitude is below this value.")
	return cmd
}
