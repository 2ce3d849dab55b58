package layout

import (
	"fmt"
	"strings"
)

// Target describes the ABI target triple and its pointer properties. The
// pointer width bounds every usize/isize value the lowering produces.
type Target struct {
	Triple   string // e.g. "x86_64-linux-gnu"
	PtrSize  int    // bytes
	PtrAlign int    // bytes
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:   "x86_64-linux-gnu",
		PtrSize:  8,
		PtrAlign: 8,
	}
}

func Aarch64LinuxGNU() Target {
	return Target{
		Triple:   "aarch64-linux-gnu",
		PtrSize:  8,
		PtrAlign: 8,
	}
}

func I686LinuxGNU() Target {
	return Target{
		Triple:   "i686-linux-gnu",
		PtrSize:  4,
		PtrAlign: 4,
	}
}

func Wasm32() Target {
	return Target{
		Triple:   "wasm32-unknown-unknown",
		PtrSize:  4,
		PtrAlign: 4,
	}
}

// Default is the target used when none is configured.
func Default() Target {
	return X86_64LinuxGNU()
}

var known = []Target{X86_64LinuxGNU(), Aarch64LinuxGNU(), I686LinuxGNU(), Wasm32()}

// ByTriple looks a target up by its triple. An empty triple yields Default.
func ByTriple(triple string) (Target, error) {
	if triple == "" {
		return Default(), nil
	}
	for _, t := range known {
		if t.Triple == triple {
			return t, nil
		}
	}
	names := make([]string, len(known))
	for i, t := range known {
		names[i] = t.Triple
	}
	return Target{}, fmt.Errorf("unknown target %q (known: %s)", triple, strings.Join(names, ", "))
}

// PtrBits is the pointer width in bits.
func (t Target) PtrBits() int {
	return t.PtrSize * 8
}
