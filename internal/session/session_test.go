package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTristateUnwrapOr(t *testing.T) {
	tests := []struct {
		t    Tristate
		def  bool
		want bool
	}{
		{Unset, true, true},
		{Unset, false, false},
		{On, false, true},
		{Off, true, false},
	}
	for _, tt := range tests {
		if got := tt.t.UnwrapOr(tt.def); got != tt.want {
			t.Errorf("%s.UnwrapOr(%v) = %v, want %v", tt.t, tt.def, got, tt.want)
		}
	}
}

func TestTristateSet(t *testing.T) {
	var ts Tristate
	if err := ts.Set("ON"); err != nil || ts != On {
		t.Fatalf("Set(ON) = %v, %s", err, ts)
	}
	if err := ts.Set("unset"); err != nil || ts != Unset {
		t.Fatalf("Set(unset) = %v, %s", err, ts)
	}
	if err := ts.Set("maybe"); err == nil {
		t.Fatalf("expected error for invalid value")
	}
}

func TestOptionsOverflowChecks(t *testing.T) {
	if Default().OverflowChecks() {
		t.Fatalf("release defaults must not check overflow")
	}
	if !(Options{DebugAssertions: true}).OverflowChecks() {
		t.Fatalf("debug assertions imply overflow checks")
	}
	if (Options{DebugAssertions: true, ForceOverflowChecks: Off}).OverflowChecks() {
		t.Fatalf("forced off must win over debug assertions")
	}
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
[codegen]
force-overflow-checks = "on"
target = "wasm32-unknown-unknown"

[lower]
jobs = 2
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, ok, err := Discover(nested)
	if err != nil || !ok {
		t.Fatalf("Discover: ok=%v err=%v", ok, err)
	}
	opts := cfg.Options()
	if opts.ForceOverflowChecks != On || cfg.Lower.Jobs != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	target, err := opts.ResolveTarget()
	if err != nil || target.PtrSize != 4 {
		t.Fatalf("unexpected target %+v (%v)", target, err)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[codegen]\noverflow = true\n")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "codegen.overflow") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigRejectsUnknownTarget(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[codegen]\ntarget = \"pdp11\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown target")
	}
}
