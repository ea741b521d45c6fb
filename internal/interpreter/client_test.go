package interpreter_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"envready/internal/data/models"
	"envready/internal/interpreter"
	"envready/internal/interpreter/interpretertest"

	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, r interpreter.Runner, opts ...interpreter.Option) *interpreter.Client {
	t.Helper()
	c, err := interpreter.NewClient("python3", append([]interpreter.Option{interpreter.WithRunner(r)}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsEmptyExecutable(t *testing.T) {
	_, err := interpreter.NewClient("  ")
	require.Error(t, err)
}

func TestClient_Info(t *testing.T) {
	r := &interpretertest.Runner{Version: [3]int{3, 9, 18}, Prefix: "/work/.venv", BasePrefix: "/usr"}
	info, err := newClient(t, r).Info(context.Background())
	require.NoError(t, err)

	require.Equal(t, models.Version{Major: 3, Minor: 9}, info.Version)
	require.Equal(t, 18, info.Micro)
	require.Equal(t, "3.9.18", info.DisplayVersion())
	require.Equal(t, "/work/.venv", info.Prefix)
	require.True(t, info.Isolated())
}

func TestClient_Info_UnavailableInterpreter(t *testing.T) {
	r := &interpretertest.Runner{Unavailable: true}
	_, err := newClient(t, r).Info(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, interpretertest.ErrExecutableNotFound)
}

type staticRunner struct {
	out []byte
	err error
}

func (s staticRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return s.out, s.err
}

func TestClient_Info_RejectsGarbage(t *testing.T) {
	_, err := newClient(t, staticRunner{out: []byte("Python 3.12.0")}).Info(context.Background())
	require.Error(t, err)

	_, err = newClient(t, staticRunner{out: []byte(`{"version":[3]}`)}).Info(context.Background())
	require.Error(t, err)
}

func TestClient_Import(t *testing.T) {
	r := &interpretertest.Runner{Modules: map[string]bool{"rich": true}}
	c := newClient(t, r)

	require.NoError(t, c.Import(context.Background(), "rich"))

	err := c.Import(context.Background(), "PyInstaller")
	var importErr *interpreter.ImportError
	require.True(t, errors.As(err, &importErr), "expected ImportError, got %v", err)
	require.Equal(t, "PyInstaller", importErr.Module)
	require.Equal(t, "ModuleNotFoundError: No module named 'PyInstaller'", importErr.Detail)
}

func TestClient_Import_InterpreterFailureIsNotImportError(t *testing.T) {
	c := newClient(t, &interpretertest.Runner{Unavailable: true})
	err := c.Import(context.Background(), "rich")
	require.Error(t, err)
	var importErr *interpreter.ImportError
	require.False(t, errors.As(err, &importErr))
}

func TestClient_ListPackages(t *testing.T) {
	r := &interpretertest.Runner{PipOutput: "Package Version\n------- -------\nrich    13.7.1\n"}
	out, err := newClient(t, r).ListPackages(context.Background())
	require.NoError(t, err)
	require.Contains(t, out, "rich    13.7.1")
	require.Equal(t, []string{"python3 -m pip list"}, r.Calls())
}

type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestClient_AppliesDefaultTimeout(t *testing.T) {
	c := newClient(t, blockingRunner{}, interpreter.WithTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := c.Info(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestClient_VerboseLogsInvocations(t *testing.T) {
	var buf bytes.Buffer
	r := &interpretertest.Runner{Modules: map[string]bool{"rich": true}}
	c := newClient(t, r, interpreter.WithVerbose(true, &buf))

	require.NoError(t, c.Import(context.Background(), "rich"))
	require.Contains(t, buf.String(), "[verbose] exec: python3 -c <script> rich")
	require.Contains(t, buf.String(), "[verbose] exec: ok")
}

func TestCommandError_Message(t *testing.T) {
	err := &interpreter.CommandError{Command: "python3", ExitCode: 2, Stderr: "line one\n\nValueError: boom\n\n"}
	require.Equal(t, "python3 exited with status 2: ValueError: boom", err.Error())
}
