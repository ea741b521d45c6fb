package engine

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"envready/internal/interpreter"
)

// presentDependencyError turns a fact fetch failure into a one-line message.
// Verbose mode shows the full wrapped error chain instead.
func presentDependencyError(err error, verbose bool) string {
	if err == nil {
		return "unknown error"
	}
	full := strings.TrimSpace(err.Error())
	if verbose {
		return full
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return fmt.Sprintf("cannot run interpreter %s: %v", execErr.Name, execErr.Err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "interpreter did not respond in time"
	}
	var cmdErr *interpreter.CommandError
	if errors.As(err, &cmdErr) {
		msg := fmt.Sprintf("interpreter exited with status %d", cmdErr.ExitCode)
		if line := interpreter.LastLine(cmdErr.Stderr); line != "" {
			msg += ": " + line
		}
		return msg
	}

	// Fallback: the innermost message is usually the useful one.
	if i := strings.LastIndex(full, ": "); i >= 0 && i+2 < len(full) {
		return full[i+2:]
	}
	return full
}
