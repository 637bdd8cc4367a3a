package pyast

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
)

// Interpreter errors.
var (
	ErrInterpreterUnavailable = errors.New("python interpreter unavailable")
	ErrExecution              = errors.New("execution failed")
)

// DefaultPython is the interpreter looked up on PATH.
const DefaultPython = "python3"

// driver compiles the unit read from stdin in the requested mode. Eval mode
// prints the repr of the value.
const driver = `import sys
mode, filename = sys.argv[1], sys.argv[2]
code = compile(sys.stdin.read(), filename, mode)
scope = {"__name__": "__main__"}
if mode == "eval":
    print(repr(eval(code, scope)))
else:
    exec(code, scope)
`

// Interpreter runs code units in a host Python process.
type Interpreter struct {
	// Python is the interpreter command. Empty means DefaultPython.
	Python string

	// Timeout bounds one run. Zero means no limit beyond the context.
	Timeout time.Duration

	// Logger receives run records. When nil, a discard logger is used.
	Logger *slog.Logger
}

// RunResult holds the captured output of one run.
type RunResult struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Value returns the printed value of an eval-mode run.
func (rr *RunResult) Value() string {
	return strings.TrimSuffix(rr.Stdout, "\n")
}

func (in *Interpreter) python() string {
	if in.Python == "" {
		return DefaultPython
	}

	return in.Python
}

func (in *Interpreter) logger() *slog.Logger {
	if in.Logger != nil {
		return in.Logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Available reports ErrInterpreterUnavailable when the interpreter cannot be
// found.
func (in *Interpreter) Available() error {
	if _, err := exec.LookPath(in.python()); err != nil {
		return fmt.Errorf("%w: %w", ErrInterpreterUnavailable, err)
	}

	return nil
}

// Run executes unit and captures its output. Exec and single units run for
// their effects; eval units print the repr of their value.
func (in *Interpreter) Run(ctx context.Context, unit *node.CodeUnit) (*RunResult, error) {
	if err := in.Available(); err != nil {
		return nil, err
	}

	if in.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, in.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer

	//nolint:gosec // the interpreter is operator configuration
	cmd := exec.CommandContext(ctx, in.python(), "-c", driver, string(unit.Mode), unit.Filename)
	cmd.Stdin = strings.NewReader(unit.Source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := &RunResult{Stdout: stdout.String(), Stderr: stderr.String(), Duration: time.Since(start)}

	in.logger().DebugContext(ctx, "python run", "mode", unit.Mode, "file", unit.Filename,
		"duration", result.Duration, "error", err)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("%w: %w", ErrExecution, ctxErr)
		}

		return result, fmt.Errorf("%w: %s", ErrExecution, lastLine(result.Stderr, err))
	}

	return result, nil
}

// lastLine picks the exception line of a traceback.
func lastLine(stderr string, fallback error) string {
	trimmed := strings.TrimSpace(stderr)
	if trimmed == "" {
		return fallback.Error()
	}

	lines := strings.Split(trimmed, "\n")

	return lines[len(lines)-1]
}
