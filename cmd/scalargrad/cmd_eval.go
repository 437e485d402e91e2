package main

import (
	"github.com/spf13/cobra"

	"github.com/born-ml/scalargrad/internal/problem"
)

func newEvalCmd() *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Evaluate a problem file",
		Long: `Evaluate the output expression of an HCL problem file and report the
gradients it asks for.

Problem file:
  variables {
    x = 2
    y = 3
  }
  output = (x + y) * x
  wrt    = ["x", "y"]   # optional, default: every variable`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := problem.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return out.emit(cmd, p.Program, p.Variables, p.WRT)
		},
	}

	out.register(cmd)
	return cmd
}
