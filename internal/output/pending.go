package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// pendingFile is an output file written next to its destination and renamed
// into place on Commit, so readers never see a half-written report.
type pendingFile struct {
	path string
	tmp  *os.File
	done bool
}

func createPending(path string) (*pendingFile, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &pendingFile{path: path, tmp: tmp}, nil
}

func (p *pendingFile) Write(b []byte) (int, error) {
	return p.tmp.Write(b)
}

// Commit moves the written content to the destination path.
func (p *pendingFile) Commit() error {
	if p.done {
		return nil
	}
	p.done = true

	err := p.tmp.Chmod(0o644)
	if closeErr := p.tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(p.tmp.Name(), p.path)
	}
	if err != nil {
		_ = os.Remove(p.tmp.Name())
		return fmt.Errorf("write %s: %w", p.path, err)
	}
	return nil
}

// Discard drops the written content; the destination is left untouched.
func (p *pendingFile) Discard() error {
	if p.done {
		return nil
	}
	p.done = true
	return errors.Join(p.tmp.Close(), os.Remove(p.tmp.Name()))
}
