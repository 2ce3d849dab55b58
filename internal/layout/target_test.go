package layout

import "testing"

func TestByTriple(t *testing.T) {
	cases := []struct {
		triple string
		bits   int
	}{
		{"", 64},
		{"x86_64-linux-gnu", 64},
		{"aarch64-linux-gnu", 64},
		{"i686-linux-gnu", 32},
		{"wasm32-unknown-unknown", 32},
	}
	for _, tc := range cases {
		target, err := ByTriple(tc.triple)
		if err != nil {
			t.Fatalf("ByTriple(%q): %v", tc.triple, err)
		}
		if target.PtrBits() != tc.bits {
			t.Errorf("ByTriple(%q).PtrBits() = %d, want %d", tc.triple, target.PtrBits(), tc.bits)
		}
	}
	if _, err := ByTriple("sparc-sun-solaris"); err == nil {
		t.Fatal("expected error for unknown triple")
	}
}
