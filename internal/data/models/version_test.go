package models

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "3", want: Version{Major: 3}},
		{in: "3.8", want: Version{Major: 3, Minor: 8}},
		{in: " 3.11.4 ", want: Version{Major: 3, Minor: 11}},
		{in: "v3.12", want: Version{Major: 3, Minor: 12}},
		{in: "", wantErr: true},
		{in: "three", wantErr: true},
		{in: "3.x", wantErr: true},
		{in: "-1.2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseVersion(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	v38 := Version{Major: 3, Minor: 8}
	v311 := Version{Major: 3, Minor: 11}
	v40 := Version{Major: 4}

	if v38.Compare(v311) != -1 || v311.Compare(v38) != 1 || v38.Compare(v38) != 0 {
		t.Fatalf("unexpected comparison results for minor components")
	}
	// 3.10 must sort after 3.9, not as the decimal 3.1.
	if !(Version{Major: 3, Minor: 9}).Less(Version{Major: 3, Minor: 10}) {
		t.Fatalf("expected 3.9 < 3.10")
	}
	if !v311.Less(v40) {
		t.Fatalf("expected 3.11 < 4.0")
	}
}

func TestVersion_UnmarshalText(t *testing.T) {
	var v Version
	if err := v.UnmarshalText([]byte("3.10")); err != nil {
		t.Fatalf("UnmarshalText returned error: %v", err)
	}
	if v.String() != "3.10" {
		t.Fatalf("expected 3.10, got %s", v)
	}
	if err := v.UnmarshalText([]byte("nope")); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
