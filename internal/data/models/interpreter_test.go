package models

import "testing"

func TestInterpreterInfo_Isolated(t *testing.T) {
	tests := []struct {
		name string
		info *InterpreterInfo
		want bool
	}{
		{name: "nil", info: nil, want: false},
		{name: "system", info: &InterpreterInfo{Prefix: "/usr", BasePrefix: "/usr"}, want: false},
		{name: "venv", info: &InterpreterInfo{Prefix: "/work/.venv", BasePrefix: "/usr"}, want: true},
		{name: "legacy virtualenv", info: &InterpreterInfo{Prefix: "/work/env", RealPrefix: "/usr"}, want: true},
		{name: "base prefix unknown", info: &InterpreterInfo{Prefix: "/usr"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Isolated(); got != tt.want {
				t.Fatalf("Isolated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImportReport_Select(t *testing.T) {
	r := &ImportReport{Outcomes: []ImportOutcome{
		{Package: PackageSpec{Name: "rich", Category: PackageRequired}},
		{Package: PackageSpec{Name: "pytest", Category: PackageOptional}},
		{Package: PackageSpec{Name: "pyinstaller", Category: PackageBuild}},
	}}

	if got := r.Select(PackageRequired); len(got) != 1 || got[0].Package.Name != "rich" {
		t.Fatalf("unexpected required selection: %+v", got)
	}
	if got := r.Select(PackageBuild, PackageOptional); len(got) != 2 || got[0].Package.Name != "pytest" {
		t.Fatalf("expected configured order to be preserved, got %+v", got)
	}
}
