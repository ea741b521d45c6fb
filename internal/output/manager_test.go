package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"envready/internal/probes"
)

type recordingSink struct {
	writes   []any
	writeErr error
	closeErr error
	closed   bool
}

func (s *recordingSink) Write(v any) error {
	s.writes = append(s.writes, v)
	return s.writeErr
}

func (s *recordingSink) Close() error {
	s.closed = true
	return s.closeErr
}

func TestManager(t *testing.T) {
	t.Run("fans out to every sink", func(t *testing.T) {
		rec := &recordingSink{}
		var buf bytes.Buffer
		emit, err := NewEmitSink(&buf, "ndjson")
		if err != nil {
			t.Fatalf("NewEmitSink error: %v", err)
		}

		mgr := NewManager()
		if err := mgr.AddSink("recording", rec); err != nil {
			t.Fatalf("AddSink error: %v", err)
		}
		if err := mgr.AddSink("stdout", emit); err != nil {
			t.Fatalf("AddSink error: %v", err)
		}

		if err := mgr.Write(Event{Type: EventRunStarted}); err != nil {
			t.Fatalf("Write error: %v", err)
		}
		if err := mgr.Write(probes.PassResult("rich", "rich is installed")); err != nil {
			t.Fatalf("Write error: %v", err)
		}
		if err := mgr.Close(); err != nil {
			t.Fatalf("Close error: %v", err)
		}

		if got := len(rec.writes); got != 2 {
			t.Fatalf("recording sink writes: want 2, got %d", got)
		}
		if !rec.closed {
			t.Fatalf("expected recording sink to be closed")
		}
		if got := strings.Count(buf.String(), "\n"); got != 2 {
			t.Fatalf("expected 2 ndjson lines, got %d: %q", got, buf.String())
		}
	})

	t.Run("AddSink rejects nil", func(t *testing.T) {
		mgr := NewManager()
		if err := mgr.AddSink("stdout", nil); err == nil {
			t.Fatalf("AddSink(nil) want error, got nil")
		}
	})

	t.Run("a failing sink does not starve the others", func(t *testing.T) {
		bad := &recordingSink{writeErr: errors.New("disk full")}
		good := &recordingSink{}
		mgr := NewManager()
		_ = mgr.AddSink("report", bad)
		_ = mgr.AddSink("stdout", good)

		err := mgr.Write("v")
		if err == nil {
			t.Fatalf("Write want error, got nil")
		}
		if !strings.Contains(err.Error(), "errors writing to sinks") || !strings.Contains(err.Error(), "report: disk full") {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(good.writes) != 1 {
			t.Fatalf("expected healthy sink to receive the write")
		}
	})

	t.Run("Close joins sink errors", func(t *testing.T) {
		a := &recordingSink{closeErr: errors.New("close-a")}
		b := &recordingSink{closeErr: errors.New("close-b")}
		mgr := NewManager()
		_ = mgr.AddSink("out", a)
		_ = mgr.AddSink("report", b)

		err := mgr.Close()
		if err == nil {
			t.Fatalf("Close want error, got nil")
		}
		for _, want := range []string{"errors closing sinks", "out: close-a", "report: close-b"} {
			if !strings.Contains(err.Error(), want) {
				t.Fatalf("Close error missing %q; got: %v", want, err)
			}
		}
		if !a.closed || !b.closed {
			t.Fatalf("expected every sink to be closed")
		}
		if err := mgr.Close(); err != nil {
			t.Fatalf("second Close want nil, got %v", err)
		}
		if err := mgr.Write("v"); err == nil {
			t.Fatalf("Write after Close want error, got nil")
		}
	})

	t.Run("Discard drops pending files and closes the rest", func(t *testing.T) {
		dir := t.TempDir()
		outPath := filepath.Join(dir, "run.json")
		reportPath := filepath.Join(dir, "report.md")
		fs, err := NewFileSink(outPath, "")
		if err != nil {
			t.Fatalf("NewFileSink error: %v", err)
		}
		rs, err := NewReportSink(reportPath)
		if err != nil {
			t.Fatalf("NewReportSink error: %v", err)
		}
		rec := &recordingSink{}
		mgr := NewManager()
		_ = mgr.AddSink("out", fs)
		_ = mgr.AddSink("report", rs)
		_ = mgr.AddSink("stdout", rec)

		if err := mgr.Write(Event{Type: EventRunStarted}); err != nil {
			t.Fatalf("Write error: %v", err)
		}
		if err := mgr.Discard(); err != nil {
			t.Fatalf("Discard error: %v", err)
		}
		if !rec.closed {
			t.Fatalf("expected sink without Discard to be closed")
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir error: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected no files after Discard, found %d (first %q)", len(entries), entries[0].Name())
		}
		if err := mgr.Close(); err != nil {
			t.Fatalf("Close after Discard want nil, got %v", err)
		}
		if _, err := os.Stat(outPath); !os.IsNotExist(err) {
			t.Fatalf("Close after Discard published %s", outPath)
		}
	})

	t.Run("nil manager", func(t *testing.T) {
		var mgr *Manager
		if err := mgr.Write("v"); err == nil {
			t.Fatalf("expected error from nil manager")
		}
	})
}
