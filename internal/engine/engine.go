package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"envready/internal/config"
	"envready/internal/data"
	"envready/internal/data/models"
	"envready/internal/fetcher"
	"envready/internal/inventory"
	"envready/internal/output"
	"envready/internal/probes"
)

// Verdict is the overall readiness classification. It is always derived from
// results and never stored on its own.
type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictWarn Verdict = "warn"
	VerdictFail Verdict = "fail"
)

// Ready reports whether the environment can be used as is.
func (v Verdict) Ready() bool { return v != VerdictFail }

// ComputeVerdict is fail if any result is an error, else warn if any result
// is a warning, else pass.
func ComputeVerdict(results []probes.Result) Verdict {
	worst := probes.SeverityInfo
	for _, r := range results {
		if r.Severity.Rank() > worst.Rank() {
			worst = r.Severity
		}
	}
	switch worst {
	case probes.SeverityError:
		return VerdictFail
	case probes.SeverityWarning:
		return VerdictWarn
	default:
		return VerdictPass
	}
}

func exitCodeForRun(fatal bool, verdict Verdict) int {
	// Exit code contract:
	// 0 = ready (pass or warn)
	// 1 = not ready
	// 3 = fatal error (check did not run)
	if fatal {
		return 3
	}
	if verdict == VerdictFail {
		return 1
	}
	return 0
}

// Report is everything one check produced.
type Report struct {
	Python    string
	Results   []probes.Result
	Verdict   Verdict
	Summary   output.Summary
	Inventory string
}

func setupOutputManager(cfg *config.Config, stdout io.Writer) (*output.Manager, error) {
	outMgr := output.NewManager()
	add := func(name string, s output.Sink, err error) error {
		if err == nil {
			err = outMgr.AddSink(name, s)
		}
		if err != nil {
			_ = outMgr.Discard()
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}

	// File sinks come first so a bad path fails before anything reaches stdout.
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err := add("out", fs, err); err != nil {
			return nil, err
		}
	}
	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report)
		if err := add("report", rs, err); err != nil {
			return nil, err
		}
	}

	if cfg.Output.Format == "text" {
		if err := add("stdout", output.NewConsoleSink(stdout, cfg.Output.Quiet), nil); err != nil {
			return nil, err
		}
		return outMgr, nil
	}
	es, err := output.NewEmitSink(stdout, cfg.Output.Format)
	if err := add("stdout", es, err); err != nil {
		return nil, err
	}
	return outMgr, nil
}

// resultsIfDependenciesFailed returns a synthetic unmet result when a
// probe's declared facts are missing or failed to fetch.
func resultsIfDependenciesFailed(p probes.Probe, dc data.DataContext, deps []data.DependencyKey, depErrs map[data.DependencyKey]error, verbose bool) ([]probes.Result, bool) {
	var missing []string
	var failedDepMessages []string

	for _, d := range deps {
		if _, ok := dc.Get(d); ok {
			continue
		}
		if depErr := depErrs[d]; depErr != nil {
			failedDepMessages = append(failedDepMessages, fmt.Sprintf("%s: %s", d, presentDependencyError(depErr, verbose)))
			continue
		}
		missing = append(missing, string(d))
	}

	if len(failedDepMessages) > 0 {
		// With a single failure, the key adds nothing for the reader.
		msg := strings.Join(failedDepMessages, "; ")
		if len(failedDepMessages) == 1 {
			if _, after, ok := strings.Cut(failedDepMessages[0], ": "); ok {
				msg = after
			}
		}
		return []probes.Result{probes.UnmetResult(p.Section(), p.Title(), msg)}, true
	}

	if len(missing) > 0 {
		return []probes.Result{probes.UnmetResult(p.Section(), p.Title(), fmt.Sprintf("Missing dependencies: %v", missing))}, true
	}

	return nil, false
}

func undeclaredDependencyAccesses(accessed []data.DependencyKey, declared []data.DependencyKey) []string {
	if len(accessed) == 0 {
		return nil
	}
	decl := make(map[data.DependencyKey]struct{}, len(declared))
	for _, d := range declared {
		decl[d] = struct{}{}
	}

	var out []string
	for _, k := range accessed {
		if _, ok := decl[k]; ok {
			continue
		}
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}

// evaluateProbe runs one probe against the collected facts. It never fails:
// every problem becomes an error result.
func evaluateProbe(ctx context.Context, cfg *config.Config, p probes.Probe, deps []data.DependencyKey, facts *FactSet) []probes.Result {
	if res, ok := resultsIfDependenciesFailed(p, facts.Data, deps, facts.DepErrs, cfg.Runtime.Verbose); ok {
		return res
	}

	// Enforce the probe contract: a probe must not read facts it did not
	// declare in Dependencies().
	tracked := data.NewRecorder(facts.Data)
	res, err := p.Evaluate(ctx, cfg, tracked)
	if undeclared := undeclaredDependencyAccesses(tracked.Accessed(), deps); len(undeclared) > 0 {
		msg := fmt.Sprintf("Probe accessed undeclared dependencies: %s. Declare them in Dependencies().", strings.Join(undeclared, ", "))
		if err != nil {
			msg = fmt.Sprintf("%s (evaluation error: %v)", msg, err)
		}
		return []probes.Result{probes.FailResult(p.Title(), msg)}
	}
	if err != nil {
		return []probes.Result{probes.FailResult(p.Title(), fmt.Sprintf("Evaluation failed: %v", err))}
	}
	if len(res) == 0 {
		return []probes.Result{probes.FailResult(p.Title(), "Probe produced no results")}
	}
	return res
}

// Summarize builds the closing summary for a set of results.
func Summarize(cfg *config.Config, results []probes.Result) output.Summary {
	verdict := ComputeVerdict(results)
	sum := output.Summary{Verdict: string(verdict), Ready: verdict.Ready()}

	var missingBuild, missingOptional []string
	for _, r := range results {
		switch {
		case r.Severity == probes.SeverityError:
			sum.Errors++
		case r.Severity == probes.SeverityWarning:
			sum.Warnings++
		case r.Passed:
			sum.Passed++
		}
		if r.Section != probes.SectionBuildExtra || r.Passed {
			continue
		}
		switch models.PackageCategory(r.Evidence["category"]) {
		case models.PackageBuild:
			missingBuild = append(missingBuild, r.Name)
		case models.PackageOptional:
			missingOptional = append(missingOptional, r.Name)
		}
	}

	sum.Probes = probeStatuses(results)

	if !sum.Ready {
		sum.Headline = "Environment needs attention. See issues above."
		if cfg.Hints.Setup != "" {
			sum.Hints = append(sum.Hints, "Try running: "+cfg.Hints.Setup)
		}
		return sum
	}

	sum.Headline = "Environment is ready for development!"
	if len(missingBuild) > 0 {
		hint := "Build tools are missing (" + strings.Join(missingBuild, ", ") + ")"
		if cfg.Hints.BuildInstall != "" {
			hint = "Install build dependencies: " + cfg.Hints.BuildInstall
		}
		sum.Hints = append(sum.Hints, hint)
	} else if len(cfg.Packages.Build) > 0 {
		sum.Hints = append(sum.Hints, "Build tools are available!")
	}
	if len(missingOptional) > 0 {
		sum.Hints = append(sum.Hints, "Optional packages not installed: "+strings.Join(missingOptional, ", "))
	}
	return sum
}

// probeStatuses folds results into one overall outcome per probe, in the
// order probes first reported.
func probeStatuses(results []probes.Result) []output.ProbeStatus {
	var order []string
	byProbe := make(map[string][]probes.Result)
	for _, r := range results {
		if _, seen := byProbe[r.Probe]; !seen {
			order = append(order, r.Probe)
		}
		byProbe[r.Probe] = append(byProbe[r.Probe], r)
	}

	out := make([]output.ProbeStatus, 0, len(order))
	for _, id := range order {
		title := id
		if p, ok := probes.Lookup(id); ok {
			title = p.Title()
		}
		out = append(out, output.ProbeStatus{ID: id, Title: title, Passed: !probes.Failed(byProbe[id])})
	}
	return out
}

type Engine struct {
	Fetcher   *fetcher.Fetcher
	Inventory *inventory.Reporter

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

func NewEngine(f *fetcher.Fetcher, inv *inventory.Reporter) *Engine {
	return &Engine{
		Fetcher:   f,
		Inventory: inv,
	}
}

func (e *Engine) stdout() io.Writer {
	if e.Stdout != nil {
		return e.Stdout
	}
	return os.Stdout
}

func (e *Engine) stderr() io.Writer {
	if e.Stderr != nil {
		return e.Stderr
	}
	return os.Stderr
}

func (e *Engine) pythonName() string {
	if e.Fetcher == nil || e.Fetcher.Client() == nil {
		return ""
	}
	return e.Fetcher.Client().Python
}

// Check runs every selected probe, in order, and writes events to out.
//
// Probes never short-circuit each other: a probe whose facts failed still
// reports, as an error result.
func (e *Engine) Check(ctx context.Context, cfg *config.Config, selected []probes.Probe, out *output.Manager) (*Report, error) {
	plan, err := NewCheckPlan(cfg, selected)
	if err != nil {
		return nil, err
	}

	facts, err := collectFacts(ctx, e.Fetcher, plan)
	if err != nil {
		return nil, err
	}

	report := &Report{Python: e.pythonName()}
	var current probes.Section
	for i, p := range plan.Probes {
		if i == 0 || p.Section() != current {
			current = p.Section()
			_ = out.Write(output.Event{Type: output.EventSectionStarted, Section: current, Title: current.Title()})
		}

		for _, r := range evaluateProbe(ctx, cfg, p, plan.Declared[p.ID()], facts) {
			// Backfill identifiers so sinks can group without knowing probes.
			if r.Probe == "" {
				r.Probe = p.ID()
			}
			if r.Section == "" {
				r.Section = p.Section()
			}
			report.Results = append(report.Results, r)
			_ = out.Write(r)
		}
	}

	report.Verdict = ComputeVerdict(report.Results)
	report.Summary = Summarize(cfg, report.Results)
	_ = out.Write(output.Event{Type: output.EventRunSummary, Summary: &report.Summary})

	if !cfg.Inventory.Skip && e.Inventory != nil {
		report.Inventory = e.Inventory.Report(ctx)
		_ = out.Write(output.InventoryEvent(report.Inventory))
	}

	return report, nil
}

// Run executes a full check and returns the process exit code.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	selected, err := probes.Resolve(cfg.Probes.Selector)
	if err != nil {
		fmt.Fprintf(e.stderr(), "Error resolving probes: %v\n", err)
		return exitCodeForRun(true, "")
	}
	slog.Debug("probes selected", "count", len(selected))

	outMgr, err := setupOutputManager(cfg, e.stdout())
	if err != nil {
		fmt.Fprintf(e.stderr(), "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, "")
	}

	_ = outMgr.Write(output.Event{Type: output.EventRunStarted, Python: e.pythonName(), Probes: len(selected)})

	report, err := e.Check(ctx, cfg, selected, outMgr)
	if err != nil {
		fmt.Fprintf(e.stderr(), "Error running checks: %v\n", err)
		_ = outMgr.Close()
		return exitCodeForRun(true, "")
	}

	code := exitCodeForRun(false, report.Verdict)
	_ = outMgr.Write(output.Event{Type: output.EventRunFinished, ExitCode: code})
	if err := outMgr.Close(); err != nil {
		fmt.Fprintf(e.stderr(), "Error writing output: %v\n", err)
		return exitCodeForRun(true, "")
	}
	return code
}
