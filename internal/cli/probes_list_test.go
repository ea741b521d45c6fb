package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"envready/internal/config"
	"envready/internal/data"
	"envready/internal/probes"
)

// mockProbe implements probes.Probe for testing purposes
type mockProbe struct {
	id          string
	title       string
	description string
	deps        []data.DependencyKey
}

func (m *mockProbe) ID() string              { return m.id }
func (m *mockProbe) Title() string           { return m.title }
func (m *mockProbe) Description() string     { return m.description }
func (m *mockProbe) Section() probes.Section { return probes.SectionVersion }
func (m *mockProbe) Dependencies(cfg *config.Config) ([]data.DependencyKey, error) {
	return m.deps, nil
}
func (m *mockProbe) Evaluate(ctx context.Context, cfg *config.Config, dc data.DataContext) ([]probes.Result, error) {
	return nil, nil
}

func TestPrintProbe(t *testing.T) {
	tests := []struct {
		name           string
		probe          probes.Probe
		expectedOutput []string
		notExpected    []string
	}{
		{
			name: "Probe Without Facts",
			probe: &mockProbe{
				id:          "simple-probe",
				title:       "Simple Probe",
				description: "A simple probe description",
			},
			expectedOutput: []string{
				"PROBE: simple-probe",
				"Simple Probe",
				"A simple probe description",
				"Section: Python Version",
			},
			notExpected: []string{
				"Facts:",
			},
		},
		{
			name: "Probe With Facts",
			probe: &mockProbe{
				id:          "fact-probe",
				title:       "Fact Probe",
				description: "Reads facts",
				deps:        []data.DependencyKey{data.DepInterpreterInfo, data.DepPackageImports},
			},
			expectedOutput: []string{
				"PROBE: fact-probe",
				"Facts:",
				"  interpreter.info",
				"  packages.imports",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			printProbe(buf, tt.probe)
			output := buf.String()

			for _, exp := range tt.expectedOutput {
				if !strings.Contains(output, exp) {
					t.Errorf("Expected output to contain %q, but it didn't.\nOutput:\n%s", exp, output)
				}
			}
			for _, notExp := range tt.notExpected {
				if strings.Contains(output, notExp) {
					t.Errorf("Expected output NOT to contain %q, but it did.\nOutput:\n%s", notExp, output)
				}
			}
		})
	}
}

func TestProbesListCmd(t *testing.T) {
	tests := []struct {
		name           string
		quiet          bool
		expectedOutput []string
		notExpected    []string
	}{
		{
			name:  "Default Output",
			quiet: false,
			expectedOutput: []string{
				"----------------------------------------",
				"PROBE: python-version",
				"PROBE: optional-packages",
			},
		},
		{
			name:  "Quiet Output",
			quiet: true,
			expectedOutput: []string{
				"python-version\nvirtual-env\nproject-structure\nrequired-packages\noptional-packages\n",
			},
			notExpected: []string{
				"----------------------------------------",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probesListQuiet = tt.quiet
			defer func() { probesListQuiet = false }()

			buf := new(bytes.Buffer)
			probesListCmd.SetOut(buf)

			if err := probesListCmd.RunE(probesListCmd, []string{}); err != nil {
				t.Fatalf("RunE() error = %v", err)
			}

			output := buf.String()
			for _, exp := range tt.expectedOutput {
				if !strings.Contains(output, exp) {
					t.Errorf("Expected output to contain %q, but it didn't.\nOutput:\n%s", exp, output)
				}
			}
			for _, notExp := range tt.notExpected {
				if strings.Contains(output, notExp) {
					t.Errorf("Expected output NOT to contain %q, but it did.\nOutput:\n%s", notExp, output)
				}
			}
		})
	}
}

func TestProbesShowCmd_Unknown(t *testing.T) {
	buf := new(bytes.Buffer)
	probesShowCmd.SetOut(buf)
	err := probesShowCmd.RunE(probesShowCmd, []string{"no-such-probe"})
	if err == nil || !strings.Contains(err.Error(), "probe not found") {
		t.Fatalf("expected probe not found error, got %v", err)
	}
}

func TestVersionCmd(t *testing.T) {
	buf := new(bytes.Buffer)
	versionCmd.SetOut(buf)
	versionCmd.Run(versionCmd, nil)
	if !strings.HasPrefix(buf.String(), "envready ") {
		t.Fatalf("unexpected version output: %q", buf.String())
	}
}
