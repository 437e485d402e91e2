package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/scalargrad/internal/ctxlog"
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

// newRootCmd builds the command tree. Output goes to outW, logs and errors to errW.
func newRootCmd(outW, errW io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "scalargrad",
		Short: "Evaluate scalar expressions and their gradients",
		Long: `scalargrad builds an expression graph over scalar values, evaluates it
eagerly and computes partial derivatives of the output by reverse-mode
automatic differentiation.

Examples:
  scalargrad demo
  scalargrad expr "(x + y) * x" --var x=2 --var y=3
  scalargrad eval problem.hcl --check --format yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(opts.logLevel, opts.logFormat, errW)
			if err != nil {
				return err
			}
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
			logger.Debug("Logger configured.", "level", opts.logLevel, "format", opts.logFormat)
			return nil
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log output format: 'text' or 'json'.")

	root.AddCommand(
		newDemoCmd(),
		newExprCmd(),
		newEvalCmd(),
		newMinimizeCmd(),
		newVersionCmd(),
	)
	return root
}

func newLogger(levelStr, formatStr string, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(formatStr) {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	case "text":
		handler = slog.NewTextHandler(w, handlerOpts)
	default:
		return nil, usageError("invalid log-format: must be 'text' or 'json'")
	}
	return slog.New(handler), nil
}

// exactArgs is cobra.ExactArgs with a usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError("%v", err)
		}
		return nil
	}
}
