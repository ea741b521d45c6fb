package engine

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"envready/internal/interpreter"
)

func TestPresentDependencyError(t *testing.T) {
	notFound := fmt.Errorf("query interpreter python3: %w", &exec.Error{Name: "python3", Err: exec.ErrNotFound})
	timeout := fmt.Errorf("query interpreter python3: python3: %w", context.DeadlineExceeded)
	crashed := fmt.Errorf("query interpreter python3: %w", &interpreter.CommandError{
		Command:  "python3",
		ExitCode: 1,
		Stderr:   "Traceback (most recent call last):\nSyntaxError: bad sitecustomize\n",
	})

	tests := []struct {
		name    string
		err     error
		verbose bool
		want    string
	}{
		{"nil", nil, false, "unknown error"},
		{"missing executable", notFound, false, "cannot run interpreter python3: executable file not found in $PATH"},
		{"timeout", timeout, false, "interpreter did not respond in time"},
		{"non-zero exit", crashed, false, "interpreter exited with status 1: SyntaxError: bad sitecustomize"},
		{"fallback keeps innermost message", errors.New("a: b: boom"), false, "boom"},
		{"verbose shows chain", notFound, true, notFound.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := presentDependencyError(tt.err, tt.verbose); got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}
