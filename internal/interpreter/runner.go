package interpreter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Runner executes a command and returns its standard output.
//
// It is the seam between envready and real processes: tests substitute a fake
// so no interpreter has to be installed.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// CommandError describes a command that started but exited unsuccessfully.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	if line := LastLine(e.Stderr); line != "" {
		msg += ": " + line
	}
	return msg
}

// LastLine returns the last non-empty line of s, which for interpreter
// tracebacks is the exception itself.
func LastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if r.Env != nil {
		cmd.Env = r.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}
	// If the context was canceled or timed out, surface that to callers.
	if ctx.Err() != nil {
		return stdout.Bytes(), fmt.Errorf("%s: %w", name, ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), &CommandError{Command: name, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
	}
	return stdout.Bytes(), err
}

// loggingRunner wraps an underlying runner and emits one line per command
// (including latency) when verbose logging is enabled.
type loggingRunner struct {
	base Runner
	w    io.Writer
}

func (r *loggingRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	start := time.Now()
	line := describeCommand(name, args)
	if r.w != nil {
		_, _ = fmt.Fprintf(r.w, "[verbose] exec: %s\n", line)
	}
	out, err := r.base.Run(ctx, name, args...)
	dur := time.Since(start)
	if r.w != nil {
		if err != nil {
			_, _ = fmt.Fprintf(r.w, "[verbose] exec: error after %s: %v\n", dur.Truncate(time.Millisecond), err)
		} else {
			_, _ = fmt.Fprintf(r.w, "[verbose] exec: ok, %d bytes (%s)\n", len(out), dur.Truncate(time.Millisecond))
		}
	}
	return out, err
}

// describeCommand renders a command line, eliding inline scripts.
func describeCommand(name string, args []string) string {
	parts := []string{name}
	for i := 0; i < len(args); i++ {
		parts = append(parts, args[i])
		if args[i] == "-c" && i+1 < len(args) {
			parts = append(parts, "<script>")
			i++
		}
	}
	return strings.Join(parts, " ")
}
