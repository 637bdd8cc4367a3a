package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast"
	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

// ErrUnknownMode reports an unknown --mode value.
var ErrUnknownMode = errors.New("unknown compile mode")

const modeAuto = "auto"

func compileCmd(a *app) *cobra.Command {
	var (
		mode     string
		filename string
		execute  bool
	)

	cmd := &cobra.Command{
		Use:   "compile [file|-]",
		Short: "Compile a Python file into a code unit for the host interpreter",
		Long: `Compile a Python file into a code unit and check that its canonical
source gives back the same tree. With --run the unit is executed by the host
interpreter (host.python); eval units print the repr of their value.

Examples:
  pyforge compile script.py
  echo '2 ** 10' | pyforge compile --run
  pyforge compile --mode single --run snippet.py`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := pyast.NewLanguage(a.parser(), nil)
			lang.Render = a.renderOptions()

			switch mode {
			case modeAuto:
			case string(node.ModeExec), string(node.ModeEval), string(node.ModeSingle):
				lang.Mode = node.Mode(mode)
			default:
				return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
			}

			src, label, err := a.readInput(args)
			if err != nil {
				return err
			}

			lang.Filename = filename
			if lang.Filename == "" && label != "<stdin>" {
				lang.Filename = label
			}

			return a.runCompile(cmd, lang, src, label, execute)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", modeAuto, "compile mode (auto, exec, eval, single)")
	cmd.Flags().StringVar(&filename, "filename", "", "file name recorded in the code unit")
	cmd.Flags().BoolVar(&execute, "run", false, "execute the unit with the host interpreter")

	return cmd
}

func (a *app) runCompile(cmd *cobra.Command, lang *pyast.Language, src []byte, label string, execute bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	start := time.Now()

	unit, err := lang.Compile(ctx, src)
	if err != nil {
		a.record(ctx, "compile", label, start, err)

		return fmt.Errorf("%s: %w", label, err)
	}

	maxSize, err := a.cfg.Host.MaxSourceBytes()
	if err != nil {
		return err
	}

	err = pyast.NewHostCompiler(lang.Parser, maxSize).Check(ctx, unit)
	a.record(ctx, "compile", label, start, err)

	if err != nil {
		return &exitError{code: exitCodeCheckFailure, err: err}
	}

	if !execute {
		if !a.quiet {
			fmt.Fprintf(out, "# %s (%s)\n%s\n", unit.Filename, unit.Mode, unit.Source)
		}

		return nil
	}

	interpreter := &pyast.Interpreter{Python: a.cfg.Host.Python, Timeout: a.cfg.Host.Timeout, Logger: a.logger}
	runStart := time.Now()

	result, err := interpreter.Run(ctx, unit)
	a.record(ctx, "run", label, runStart, err)

	if result != nil {
		fmt.Fprint(out, result.Stdout)
		fmt.Fprint(cmd.ErrOrStderr(), result.Stderr)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}

	return nil
}
