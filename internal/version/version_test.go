package version

import (
	"testing"

	"github.com/fatih/color"
)

func withPlainColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	ov, oc, od := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = ov, oc, od })
}

func TestColoredPlain(t *testing.T) {
	withPlainColor(t)
	tests := []struct {
		version string
		want    string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.0.0-rc.1", "1.0.0-rc.1"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		withVersion(t, tt.version, "", "")
		if got := Colored(); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestLine(t *testing.T) {
	withPlainColor(t)
	withVersion(t, "1.2.3", "", "")
	if got := Line(); got != "mirror 1.2.3" {
		t.Errorf("Line() = %q", got)
	}
	withVersion(t, "1.2.3", "abc123", "2024-01-15")
	if got := Line(); got != "mirror 1.2.3 (abc123 2024-01-15)" {
		t.Errorf("Line() = %q", got)
	}
	withVersion(t, "1.2.3", "abc123", "")
	if got := Line(); got != "mirror 1.2.3 (abc123)" {
		t.Errorf("Line() = %q", got)
	}
}
