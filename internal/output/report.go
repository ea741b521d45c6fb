package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"envready/internal/probes"

	"github.com/mattn/go-runewidth"
)

// ReportSink writes a Markdown report on Close.
type ReportSink struct {
	path         string
	out          *pendingFile
	mu           sync.Mutex
	python       string
	results      []probes.Result
	titles       map[probes.Section]string
	summary      *Summary
	inventory    *string
	exitCode     int
	haveExitCode bool
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}

	out, err := createPending(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	return &ReportSink{
		path:   path,
		out:    out,
		titles: make(map[probes.Section]string),
	}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch t := v.(type) {
	case probes.Result:
		s.results = append(s.results, t)
	case Event:
		switch t.Type {
		case EventRunStarted:
			s.python = t.Python
		case EventSectionStarted:
			s.titles[t.Section] = t.Title
		case EventProbeResult:
			if t.Result != nil {
				s.results = append(s.results, *t.Result)
			}
		case EventRunSummary:
			s.summary = t.Summary
		case EventInventory:
			s.inventory = t.Inventory
		case EventRunFinished:
			s.exitCode = t.ExitCode
			s.haveExitCode = true
		}
	}
	return nil
}

// Discard drops the report without writing it.
func (s *ReportSink) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Discard()
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString("# Environment Readiness Report\n\n")

	if s.python != "" {
		b.WriteString(fmt.Sprintf("- **Interpreter**: `%s`\n", s.python))
	}
	if s.summary != nil {
		b.WriteString(fmt.Sprintf("- **Verdict**: %s\n", verdictLabel(s.summary)))
		b.WriteString(fmt.Sprintf("- **Checks**: %d passed, %d warnings, %d errors\n", s.summary.Passed, s.summary.Warnings, s.summary.Errors))
	}
	if s.haveExitCode {
		b.WriteString(fmt.Sprintf("- **Exit code**: %d\n", s.exitCode))
	}
	b.WriteString("\n")

	// --- Summary ---
	b.WriteString("## Summary\n\n")
	if s.summary == nil {
		b.WriteString("The run did not complete.\n\n")
	} else {
		b.WriteString(s.summary.Headline + "\n\n")
		for _, h := range s.summary.Hints {
			b.WriteString(fmt.Sprintf("- %s\n", h))
		}
		if len(s.summary.Hints) > 0 {
			b.WriteString("\n")
		}
		for _, ps := range s.summary.Probes {
			icon := "✅"
			if !ps.Passed {
				icon = "❌"
			}
			b.WriteString(fmt.Sprintf("- %s %s\n", icon, ps.Title))
		}
		if len(s.summary.Probes) > 0 {
			b.WriteString("\n")
		}
	}

	// --- Issues ---
	var issues []probes.Result
	for _, r := range s.results {
		if !r.Passed || r.Severity != probes.SeverityInfo {
			issues = append(issues, r)
		}
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.Rank() > issues[j].Severity.Rank()
	})

	b.WriteString("## Issues\n\n")
	if len(issues) == 0 {
		b.WriteString("- None\n\n")
	} else {
		for _, r := range issues {
			b.WriteString(fmt.Sprintf("- %s **%s** (%s)", StatusIcon(r), r.Name, r.Severity))
			if r.Message != "" {
				b.WriteString(fmt.Sprintf(": %s", r.Message))
			}
			b.WriteString("\n")
			if len(r.Evidence) > 0 {
				keys := make([]string, 0, len(r.Evidence))
				for k := range r.Evidence {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					b.WriteString(fmt.Sprintf("  - %s: %s\n", k, r.Evidence[k]))
				}
			}
		}
		b.WriteString("\n")
	}

	// --- Results by section ---
	b.WriteString("## Results\n\n")
	if len(s.results) == 0 {
		b.WriteString("No checks ran.\n\n")
	}
	for _, sec := range sectionsIn(s.results) {
		title := s.titles[sec]
		if title == "" {
			title = sec.Title()
		}
		b.WriteString(fmt.Sprintf("### %s\n\n", title))
		writeResultTable(&b, resultsInSection(s.results, sec))
		b.WriteString("\n")
	}

	// --- Inventory ---
	if s.inventory != nil {
		b.WriteString("## Installed Packages\n\n")
		b.WriteString("```text\n")
		b.WriteString(strings.TrimRight(*s.inventory, "\n"))
		b.WriteString("\n```\n")
	}

	if _, err := io.WriteString(s.out, b.String()); err != nil {
		return errors.Join(err, s.out.Discard())
	}
	return s.out.Commit()
}

func verdictLabel(sum *Summary) string {
	switch sum.Verdict {
	case "pass":
		return "✅ ready"
	case "warn":
		return "⚠️ ready with warnings"
	default:
		return "❌ not ready"
	}
}

func sectionsIn(results []probes.Result) []probes.Section {
	seen := make(map[probes.Section]struct{})
	var out []probes.Section
	for _, r := range results {
		if _, ok := seen[r.Section]; ok {
			continue
		}
		seen[r.Section] = struct{}{}
		out = append(out, r.Section)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}

func resultsInSection(results []probes.Result, sec probes.Section) []probes.Result {
	var out []probes.Result
	for _, r := range results {
		if r.Section == sec {
			out = append(out, r)
		}
	}
	return out
}

// writeResultTable renders an aligned Markdown table.
func writeResultTable(b *strings.Builder, results []probes.Result) {
	header := []string{"Status", "Check", "Details"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{StatusIcon(r), escapeCell(r.Name), escapeCell(r.Message)})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	writeRow := func(cells []string) {
		b.WriteString("|")
		for i, c := range cells {
			b.WriteString(" " + padRight(c, widths[i]) + " |")
		}
		b.WriteString("\n")
	}
	writeRow(header)
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(" " + strings.Repeat("-", w) + " |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
