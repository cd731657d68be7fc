// Package toolrun executes the Windows administrative tools this program
// orchestrates (schtasks, pnputil, certutil, bcdedit) as blocking, one-shot
// child processes with captured output.
package toolrun

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	pcerrors "git.home.luguber.info/inful/panelctl/internal/errors"
)

// DefaultTimeout bounds a single tool invocation. The tools involved finish
// in well under a second when healthy; the value is a generous documented
// choice, not derived from any domain constraint. A hang past the deadline is
// a failure like any other.
const DefaultTimeout = 60 * time.Second

// Runner executes external tools. The zero value uses DefaultTimeout.
type Runner struct {
	Timeout time.Duration
}

// Result captures one finished invocation.
type Result struct {
	// Output is the combined stdout+stderr text, for logging and for the
	// parsers that scrape tool output (pnputil enumeration, bcdedit).
	Output   string
	ExitCode int
}

// Run invokes tool with args and waits for it to exit. A non-zero exit code
// or a deadline hit returns a structured tool error carrying the captured
// output; the Result is returned alongside so callers can still inspect it.
func (r Runner) Run(ctx context.Context, tool string, args ...string) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	slog.Debug("Running external tool", "tool", tool, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, tool, args...)
	out, err := cmd.CombinedOutput()
	res := Result{Output: string(out), ExitCode: -1}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctx.Err() == context.DeadlineExceeded {
		slog.Warn("External tool timed out", "tool", tool, "timeout", timeout)
		return res, pcerrors.ToolFailed(tool, ctx.Err(), res.Output)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			slog.Debug("External tool exited non-zero", "tool", tool, "exit_code", res.ExitCode)
		}
		return res, pcerrors.ToolFailed(tool, err, res.Output)
	}
	return res, nil
}
