// Command mdpapers renders a Markdown document to HTML.
//
// It is the file-I/O driver and façade the core transform explicitly
// treats as an external collaborator: it resolves an input path (or
// stdin), an output path (or stdout), and hands the byte streams to
// markdown.Transform.
package main

import (
	"errors"
	"fmt"
	"os"

	charmlog "charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/ragodev/mdpapers/markdown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		outputPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "mdpapers [flags] [file.md]",
		Short:         "Render a Markdown document to HTML",
		Long:          `mdpapers parses a Markdown document with a hand-written recursive-descent grammar and renders it to XHTML-style HTML. With no file argument, it reads from stdin.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(logLevel)

			var inputPath string
			if len(args) == 1 {
				inputPath = args[0]
			}

			if err := run(logger, inputPath, outputPath); err != nil {
				logger.Error("render failed", "err", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

// newLogger builds the CLI's diagnostic logger. This is the one place in
// the module that logs: the core (internal/parser, internal/ast,
// internal/html) stays silent and side-effect-free, matching the
// synchronous, single-invocation execution model of markdown.Transform.
func newLogger(level string) *charmlog.Logger {
	logger := charmlog.New(os.Stderr)
	switch level {
	case "debug":
		logger.SetLevel(charmlog.DebugLevel)
	case "warn":
		logger.SetLevel(charmlog.WarnLevel)
	case "error":
		logger.SetLevel(charmlog.ErrorLevel)
	default:
		logger.SetLevel(charmlog.InfoLevel)
	}
	return logger
}

func run(logger *charmlog.Logger, inputPath, outputPath string) error {
	in := os.Stdin
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
		logger.Debug("reading input", "path", inputPath)
	} else {
		logger.Debug("reading input from stdin")
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := markdown.Transform(in, out); err != nil {
		var perr *markdown.ParseError
		if errors.As(err, &perr) {
			return fmt.Errorf("%s:%d:%d: %s", sourceName(inputPath), perr.Line, perr.Column, perr.Message)
		}
		return err
	}

	if outputPath != "" {
		logger.Info("wrote HTML", "path", outputPath)
	}
	return nil
}

func sourceName(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}
