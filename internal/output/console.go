package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"envready/internal/probes"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

const (
	consoleTitle = "🔍 Environment Readiness Check"
	ruleWidth    = 50
)

var sectionIcons = map[probes.Section]string{
	probes.SectionVersion:    "🐍",
	probes.SectionIsolation:  "🧪",
	probes.SectionStructure:  "📁",
	probes.SectionRequired:   "📦",
	probes.SectionBuildExtra: "🔨",
}

// ConsoleSink renders the human-readable report.
//
// Results are buffered per section so names can be aligned; a section is
// printed when the next one starts or the summary arrives.
type ConsoleSink struct {
	writer io.Writer
	quiet  bool
	mu     sync.Mutex

	section probes.Section
	pending []probes.Result
	started bool
}

func NewConsoleSink(w io.Writer, quiet bool) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleSink{writer: w, quiet: quiet}
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	switch t := v.(type) {
	case probes.Result:
		s.pending = append(s.pending, t)
		return nil
	case Event:
		switch t.Type {
		case EventRunStarted:
			if err := s.printHeader(t.Python); err != nil {
				return err
			}
		case EventSectionStarted:
			if err := s.flushSection(); err != nil {
				return err
			}
			s.section = t.Section
			s.started = true
		case EventProbeResult:
			if t.Result != nil {
				s.pending = append(s.pending, *t.Result)
			}
			return nil
		case EventRunSummary:
			if err := s.flushSection(); err != nil {
				return err
			}
			if t.Summary != nil {
				if err := s.printSummary(t.Summary); err != nil {
					return err
				}
			}
		case EventInventory:
			if t.Inventory != nil {
				if err := s.printInventory(*t.Inventory); err != nil {
					return err
				}
			}
		default:
			return nil
		}
		return flushIfPossible(s.writer)
	default:
		return nil
	}
}

func (s *ConsoleSink) printHeader(python string) error {
	bold := color.New(color.Bold)
	if _, err := bold.Fprintln(s.writer, consoleTitle); err != nil {
		return err
	}
	if python != "" {
		if _, err := fmt.Fprintf(s.writer, "Interpreter: %s\n", python); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(s.writer, strings.Repeat("=", ruleWidth))
	return err
}

func (s *ConsoleSink) flushSection() error {
	results, started := s.pending, s.started
	s.pending, s.started = nil, false
	if !started && len(results) == 0 {
		return nil
	}

	var shown []probes.Result
	for _, r := range results {
		if s.quiet && r.Passed && r.Severity == probes.SeverityInfo {
			continue
		}
		shown = append(shown, r)
	}
	if len(shown) == 0 && s.quiet {
		return nil
	}

	if started {
		if err := s.printSectionHeader(s.section); err != nil {
			return err
		}
	}

	width := 0
	for _, r := range shown {
		if w := runewidth.StringWidth(r.Name); w > width {
			width = w
		}
	}
	for _, r := range shown {
		line := fmt.Sprintf("  %s %s", colorIcon(r), padRight(r.Name, width))
		if r.Message != "" {
			line += "  " + r.Message
		}
		if _, err := fmt.Fprintln(s.writer, strings.TrimRight(line, " ")); err != nil {
			return err
		}
		if env := r.Evidence["environment"]; env != "" {
			if _, err := fmt.Fprintf(s.writer, "     Environment path: %s\n", env); err != nil {
				return err
			}
		}
		if detail := r.Evidence["error"]; detail != "" && !r.Passed {
			faint := color.New(color.Faint)
			if _, err := faint.Fprintf(s.writer, "     %s\n", detail); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(s.writer)
	return err
}

func (s *ConsoleSink) printSectionHeader(sec probes.Section) error {
	icon := sectionIcons[sec]
	if icon == "" {
		icon = "•"
	}
	bold := color.New(color.Bold)
	_, err := bold.Fprintf(s.writer, "%s %s:\n", icon, sec.Title())
	return err
}

func (s *ConsoleSink) printSummary(sum *Summary) error {
	bold := color.New(color.Bold)
	if _, err := bold.Fprintln(s.writer, "📋 Summary:"); err != nil {
		return err
	}

	headline := color.New(color.FgGreen).Sprintf("✅ %s", sum.Headline)
	if !sum.Ready {
		headline = color.New(color.FgRed).Sprintf("❌ %s", sum.Headline)
	}
	if _, err := fmt.Fprintln(s.writer, headline); err != nil {
		return err
	}
	for _, h := range sum.Hints {
		if _, err := fmt.Fprintf(s.writer, "💡 %s\n", h); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(s.writer, "   %d passed, %d warnings, %d errors\n\n", sum.Passed, sum.Warnings, sum.Errors)
	return err
}

func (s *ConsoleSink) printInventory(text string) error {
	bold := color.New(color.Bold)
	if _, err := bold.Fprintln(s.writer, "🔧 Installed Packages:"); err != nil {
		return err
	}
	_, err := fmt.Fprintln(s.writer, strings.TrimRight(text, "\n"))
	return err
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// A run that ends without a summary still shows its results.
	if err := s.flushSection(); err != nil {
		return err
	}
	return flushIfPossible(s.writer)
}

// StatusIcon is the plain marker for a result.
func StatusIcon(r probes.Result) string {
	switch {
	case r.Severity == probes.SeverityError:
		return "❌"
	case r.Severity == probes.SeverityWarning:
		return "⚠️"
	case r.Passed:
		return "✅"
	default:
		return "❌"
	}
}

func colorIcon(r probes.Result) string {
	icon := StatusIcon(r)
	switch r.Severity {
	case probes.SeverityError:
		return color.New(color.FgRed).Sprint(icon)
	case probes.SeverityWarning:
		return color.New(color.FgYellow).Sprint(icon)
	default:
		return color.New(color.FgGreen).Sprint(icon)
	}
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
