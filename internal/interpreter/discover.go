package interpreter

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

type Source string

const (
	SourceExplicit   Source = "explicit"
	SourceVirtualEnv Source = "env:VIRTUAL_ENV"
	SourcePath       Source = "PATH"
)

// ErrNotFound is returned when no interpreter could be located.
var ErrNotFound = errors.New("no python interpreter found (tried python3 and python on PATH)")

// lookPath and statFile are seams for tests.
var (
	lookPath = exec.LookPath
	statFile = os.Stat
)

// Resolve locates the interpreter to inspect.
//
// Precedence:
//  1. provided (if non-empty; bare names are looked up on PATH)
//  2. the active virtual environment ($VIRTUAL_ENV)
//  3. python3, then python, on PATH
//
// A provided interpreter that cannot be found is returned as-is so the probes
// report the failure rather than silently inspecting a different interpreter.
func Resolve(provided string) (string, Source, error) {
	if p := strings.TrimSpace(provided); p != "" {
		if !strings.ContainsRune(p, filepath.Separator) && !strings.Contains(p, "/") {
			if full, err := lookPath(p); err == nil {
				return full, SourceExplicit, nil
			}
		}
		return p, SourceExplicit, nil
	}

	if venv := strings.TrimSpace(os.Getenv("VIRTUAL_ENV")); venv != "" {
		candidate := filepath.Join(venv, "bin", "python")
		if runtime.GOOS == "windows" {
			candidate = filepath.Join(venv, "Scripts", "python.exe")
		}
		if fi, err := statFile(candidate); err == nil && !fi.IsDir() {
			return candidate, SourceVirtualEnv, nil
		}
	}

	for _, name := range []string{"python3", "python"} {
		if full, err := lookPath(name); err == nil {
			return full, SourcePath, nil
		}
	}
	return "", "", ErrNotFound
}
