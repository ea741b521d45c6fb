package checks

import (
	"context"
	"testing"

	"envready/internal/config"
	"envready/internal/data"
	"envready/internal/data/models"
	"envready/internal/probes"
)

func TestEvaluateVersion(t *testing.T) {
	req := config.Requirements{
		Minimum:     models.Version{Major: 3, Minor: 8},
		Recommended: models.Version{Major: 3, Minor: 11},
	}

	tests := []struct {
		name         string
		current      models.Version
		wantPassed   bool
		wantSeverity probes.Severity
		wantMessage  string
	}{
		{"below minimum", models.Version{Major: 3, Minor: 7}, false, probes.SeverityError, "Python 3.8 or later required"},
		{"python 2", models.Version{Major: 2, Minor: 7}, false, probes.SeverityError, "Python 3.8 or later required"},
		{"exactly minimum", models.Version{Major: 3, Minor: 8}, true, probes.SeverityWarning, "Python 3.11 recommended for best compatibility"},
		{"between thresholds", models.Version{Major: 3, Minor: 10}, true, probes.SeverityWarning, "Python 3.11 recommended for best compatibility"},
		{"exactly recommended", models.Version{Major: 3, Minor: 11}, true, probes.SeverityInfo, "Python version is good"},
		{"newer", models.Version{Major: 3, Minor: 13}, true, probes.SeverityInfo, "Python version is good"},
		// Minor versions compare numerically, not lexically.
		{"two digit minor", models.Version{Major: 3, Minor: 12}, true, probes.SeverityInfo, "Python version is good"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluateVersion(tt.current, req)
			if res.Passed != tt.wantPassed {
				t.Fatalf("passed: want %v, got %v", tt.wantPassed, res.Passed)
			}
			if res.Severity != tt.wantSeverity {
				t.Fatalf("severity: want %s, got %s", tt.wantSeverity, res.Severity)
			}
			if res.Message != tt.wantMessage {
				t.Fatalf("message: want %q, got %q", tt.wantMessage, res.Message)
			}
		})
	}
}

func TestEvaluateVersion_EqualThresholds(t *testing.T) {
	v := models.Version{Major: 3, Minor: 9}
	res := EvaluateVersion(v, config.Requirements{Minimum: v, Recommended: v})
	if !res.Passed || res.Severity != probes.SeverityInfo {
		t.Fatalf("expected plain pass, got passed=%v severity=%s", res.Passed, res.Severity)
	}
}

func TestPythonVersionProbe_Evaluate(t *testing.T) {
	probe := &PythonVersionProbe{}
	cfg := config.New()

	tests := []struct {
		name         string
		data         map[data.DependencyKey]any
		wantSeverity probes.Severity
		wantName     string
	}{
		{
			name: "uses the interpreter's version string",
			data: map[data.DependencyKey]any{
				data.DepInterpreterInfo: &models.InterpreterInfo{
					Executable:    "/venv/bin/python",
					Version:       models.Version{Major: 3, Minor: 12},
					VersionString: "3.12.4",
				},
			},
			wantSeverity: probes.SeverityInfo,
			wantName:     "Python 3.12.4",
		},
		{
			name:         "ERROR when dependency missing",
			data:         map[data.DependencyKey]any{},
			wantSeverity: probes.SeverityError,
			wantName:     "Python Version",
		},
		{
			name: "ERROR when wrong type",
			data: map[data.DependencyKey]any{
				data.DepInterpreterInfo: "3.12",
			},
			wantSeverity: probes.SeverityError,
			wantName:     "Python Version",
		},
		{
			name: "ERROR when nil",
			data: map[data.DependencyKey]any{
				data.DepInterpreterInfo: nil,
			},
			wantSeverity: probes.SeverityError,
			wantName:     "Python Version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := probe.Evaluate(context.Background(), cfg, data.Facts(tt.data))
			if err != nil {
				t.Fatalf("Evaluate error: %v", err)
			}
			if len(res) != 1 {
				t.Fatalf("expected 1 result, got %d", len(res))
			}
			if res[0].Severity != tt.wantSeverity {
				t.Fatalf("want %v, got %v", tt.wantSeverity, res[0].Severity)
			}
			if res[0].Name != tt.wantName {
				t.Fatalf("want name %q, got %q", tt.wantName, res[0].Name)
			}
		})
	}
}
