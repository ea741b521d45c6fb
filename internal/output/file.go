package output

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileSink writes structured output to a file. The encoding is delegated to
// an EmitSink over a buffered writer; the file appears at its path on Close.
type FileSink struct {
	out  *pendingFile
	buf  *bufio.Writer
	emit *EmitSink
	mu   sync.Mutex
}

// formatForPath infers json or ndjson from a file extension.
func formatForPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return "json", nil
	case ".ndjson", ".jsonl":
		return "ndjson", nil
	default:
		return "", fmt.Errorf("cannot infer output format from file extension %q", ext)
	}
}

func NewFileSink(path string, format string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("output path required")
	}
	if format == "" {
		var err error
		if format, err = formatForPath(path); err != nil {
			return nil, err
		}
	}
	if format != "json" && format != "ndjson" {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := createPending(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	buf := bufio.NewWriter(out)
	emit, err := NewEmitSink(buf, format)
	if err != nil {
		_ = out.Discard()
		return nil, err
	}
	return &FileSink{out: out, buf: buf, emit: emit}, nil
}

func (s *FileSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emit.Write(v)
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := errors.Join(s.emit.Close(), s.buf.Flush()); err != nil {
		return errors.Join(err, s.out.Discard())
	}
	return s.out.Commit()
}

// Discard drops everything written so far; nothing appears at the path.
func (s *FileSink) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Discard()
}
