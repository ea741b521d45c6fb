package output

import (
	"errors"
	"fmt"
)

// Sink defines a destination for report events and probe results.
type Sink interface {
	Write(v any) error
	Close() error
}

// Discarder is implemented by sinks that can drop what they buffered instead
// of publishing it on Close.
type Discarder interface {
	Discard() error
}

type namedSink struct {
	name string
	Sink
}

// Manager fans every value out to its sinks in the order they were added.
// One failing sink does not stop the others; errors name the sink.
type Manager struct {
	sinks  []namedSink
	closed bool
}

func NewManager() *Manager {
	return &Manager{}
}

// AddSink registers s under name (e.g. "stdout", "report").
func (m *Manager) AddSink(name string, s Sink) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	if s == nil {
		return fmt.Errorf("sink %q must not be nil", name)
	}
	m.sinks = append(m.sinks, namedSink{name: name, Sink: s})
	return nil
}

func (m *Manager) Write(v any) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	if m.closed {
		return fmt.Errorf("output manager is closed")
	}
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors writing to sinks: %w", errors.Join(errs...))
	}
	return nil
}

// Close closes every sink once. Later calls are no-ops.
func (m *Manager) Close() error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	if m.closed {
		return nil
	}
	m.closed = true
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sinks: %w", errors.Join(errs...))
	}
	return nil
}

// Discard shuts the manager down without publishing: sinks that implement
// Discarder drop their output and the rest are closed. Later calls and a
// later Close are no-ops.
func (m *Manager) Discard() error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	if m.closed {
		return nil
	}
	m.closed = true
	var errs []error
	for _, s := range m.sinks {
		var err error
		if d, ok := s.Sink.(Discarder); ok {
			err = d.Discard()
		} else {
			err = s.Close()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors discarding sinks: %w", errors.Join(errs...))
	}
	return nil
}
