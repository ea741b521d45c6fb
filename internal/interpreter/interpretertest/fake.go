// Package interpretertest provides a scripted interpreter.Runner for tests.
package interpretertest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"envready/internal/interpreter"
)

// ErrExecutableNotFound mimics exec's error for a missing binary.
var ErrExecutableNotFound = errors.New(`exec: "python3": executable file not found in $PATH`)

// Runner answers the invocations interpreter.Client makes without spawning a
// process. The zero value behaves like a healthy system-wide Python 3.12 with
// no packages installed.
type Runner struct {
	// Version is reported as sys.version_info; defaults to 3.12.1.
	Version [3]int
	// Prefix and BasePrefix are reported as sys.prefix and sys.base_prefix.
	Prefix     string
	BasePrefix string
	// Modules lists importable module names.
	Modules map[string]bool
	// PipOutput is returned for "-m pip list"; PipErr makes it fail instead.
	PipOutput string
	PipErr    error
	// Unavailable makes every invocation fail as if the executable were missing.
	Unavailable bool

	mu    sync.Mutex
	calls []string
	infos int
}

var _ interpreter.Runner = (*Runner)(nil)

func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, strings.Join(append([]string{name}, args...), " "))
	if isInfo(args) {
		r.infos++
	}
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Unavailable {
		return nil, ErrExecutableNotFound
	}

	switch {
	case isInfo(args):
		return r.info(name)
	case len(args) == 3 && args[0] == "-c":
		module := args[2]
		if r.Modules[module] {
			return nil, nil
		}
		return nil, &interpreter.CommandError{
			Command:  name,
			ExitCode: 1,
			Stderr:   fmt.Sprintf("Traceback (most recent call last):\nModuleNotFoundError: No module named '%s'\n", module),
		}
	case len(args) == 3 && args[0] == "-m" && args[1] == "pip":
		if r.PipErr != nil {
			return nil, r.PipErr
		}
		return []byte(r.PipOutput), nil
	default:
		return nil, fmt.Errorf("interpretertest: unexpected invocation %v", args)
	}
}

func (r *Runner) info(name string) ([]byte, error) {
	version := r.Version
	if version == [3]int{} {
		version = [3]int{3, 12, 1}
	}
	prefix := r.Prefix
	if prefix == "" {
		prefix = "/usr"
	}
	base := r.BasePrefix
	if base == "" {
		base = prefix
	}
	return json.Marshal(map[string]any{
		"executable":     name,
		"version":        version[:],
		"version_string": fmt.Sprintf("%d.%d.%d", version[0], version[1], version[2]),
		"prefix":         prefix,
		"base_prefix":    base,
		"real_prefix":    "",
	})
}

// Calls returns the command lines seen so far.
func (r *Runner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// InfoCalls counts interpreter info queries, whether or not they succeeded.
func (r *Runner) InfoCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.infos
}

func isInfo(args []string) bool {
	return len(args) == 2 && args[0] == "-c"
}
