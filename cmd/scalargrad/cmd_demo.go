package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Evaluate z = y ^ (-x * 2) at x=2, y=4 and print dz/dy",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := autodiff.New()
			x := g.Leaf(2)
			y := g.Leaf(4)
			z := y.Pow(x.Neg().Mul(g.Const(2)))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "z = %s\n", z)
			fmt.Fprintf(out, "z.value = %v\n", z.Value())
			fmt.Fprintf(out, "dz/dy = %v\n", y.Grad())
			return nil
		},
	}
}
