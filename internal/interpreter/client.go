package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"envready/internal/data/models"
)

// DefaultCallTimeout bounds interpreter invocations whose context carries no deadline.
const DefaultCallTimeout = 5 * time.Second

const infoScript = `import json, sys
print(json.dumps({
    "executable": sys.executable,
    "version": list(sys.version_info[:3]),
    "version_string": sys.version.split()[0],
    "prefix": sys.prefix,
    "base_prefix": getattr(sys, "base_prefix", sys.prefix),
    "real_prefix": getattr(sys, "real_prefix", ""),
}))`

const importScript = `import importlib, sys
importlib.import_module(sys.argv[1])`

// ImportError reports that the interpreter ran but could not import a module.
type ImportError struct {
	Module string
	Detail string
}

func (e *ImportError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("cannot import %s", e.Module)
	}
	return fmt.Sprintf("cannot import %s: %s", e.Module, e.Detail)
}

// Client inspects one interpreter by running it as a subprocess. It never
// installs or modifies anything.
type Client struct {
	Python  string
	runner  Runner
	timeout time.Duration
}

type options struct {
	runner  Runner
	timeout time.Duration
	verbose bool
	// writer controls where verbose exec logs are written (typically stderr) so
	// structured output on stdout (e.g. NDJSON) stays clean and tests can capture logs.
	writer io.Writer
}

type Option func(*options)

// WithRunner replaces the process runner (tests use a fake).
func WithRunner(r Runner) Option {
	return func(o *options) {
		o.runner = r
	}
}

// WithTimeout bounds every invocation whose context has no deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

func WithVerbose(enabled bool, writer io.Writer) Option {
	return func(o *options) {
		o.verbose = enabled
		o.writer = writer
	}
}

func NewClient(python string, opts ...Option) (*Client, error) {
	python = strings.TrimSpace(python)
	if python == "" {
		return nil, errors.New("interpreter client: python executable is empty")
	}

	o := &options{}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}
	if o.runner == nil {
		o.runner = ExecRunner{}
	}
	if o.timeout <= 0 {
		o.timeout = DefaultCallTimeout
	}
	if o.verbose && o.writer == nil {
		o.writer = os.Stderr
	}

	runner := o.runner
	if o.verbose {
		runner = &loggingRunner{base: runner, w: o.writer}
	}

	return &Client{Python: python, runner: runner, timeout: o.timeout}, nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	// Keep this bounded so a wedged interpreter or site hook doesn't hang the check.
	callCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.runner.Run(callCtx, c.Python, args...)
}

type infoPayload struct {
	Executable    string `json:"executable"`
	Version       []int  `json:"version"`
	VersionString string `json:"version_string"`
	Prefix        string `json:"prefix"`
	BasePrefix    string `json:"base_prefix"`
	RealPrefix    string `json:"real_prefix"`
}

// Info reports the interpreter's version and installation prefixes.
func (c *Client) Info(ctx context.Context) (*models.InterpreterInfo, error) {
	out, err := c.run(ctx, "-c", infoScript)
	if err != nil {
		return nil, fmt.Errorf("query interpreter %s: %w", c.Python, err)
	}

	var p infoPayload
	if err := json.Unmarshal(out, &p); err != nil {
		return nil, fmt.Errorf("query interpreter %s: unexpected output: %w", c.Python, err)
	}
	if len(p.Version) < 2 {
		return nil, fmt.Errorf("query interpreter %s: version missing from output", c.Python)
	}

	info := &models.InterpreterInfo{
		Executable:    p.Executable,
		Version:       models.Version{Major: p.Version[0], Minor: p.Version[1]},
		VersionString: p.VersionString,
		Prefix:        p.Prefix,
		BasePrefix:    p.BasePrefix,
		RealPrefix:    p.RealPrefix,
	}
	if len(p.Version) > 2 {
		info.Micro = p.Version[2]
	}
	if info.Executable == "" {
		info.Executable = c.Python
	}
	return info, nil
}

// Import tries to import module. It returns an *ImportError when the
// interpreter ran but the import failed, and any other error when the
// interpreter itself could not be run.
func (c *Client) Import(ctx context.Context, module string) error {
	module = strings.TrimSpace(module)
	if module == "" {
		return errors.New("import: module name is empty")
	}
	_, err := c.run(ctx, "-c", importScript, module)
	if err == nil {
		return nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return &ImportError{Module: module, Detail: LastLine(cmdErr.Stderr)}
	}
	return err
}

// ListPackages returns the raw output of "python -m pip list".
func (c *Client) ListPackages(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "-m", "pip", "list")
	if err != nil {
		return "", fmt.Errorf("list packages: %w", err)
	}
	return string(out), nil
}
