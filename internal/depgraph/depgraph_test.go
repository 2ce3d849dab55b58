package depgraph

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"mirror/internal/symbols"
)

func TestLogConcurrentRecord(t *testing.T) {
	l := NewLog()
	var wg sync.WaitGroup
	for i := 1; i <= 16; i++ {
		wg.Add(1)
		go func(def symbols.SymbolID) {
			defer wg.Done()
			l.Record("unit", TypeckBody(def))
		}(symbols.SymbolID(i))
	}
	wg.Wait()

	reads := l.Reads()
	if len(reads) != 16 {
		t.Fatalf("expected 16 reads, got %d", len(reads))
	}
	for i, r := range reads {
		if int(r.Seq) != i {
			t.Fatalf("reads[%d].Seq = %d", i, r.Seq)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	l := NewLog()
	l.Record("f", TypeckBody(3))
	l.Record("g", Node{Kind: KindTraitItems, Def: 9})
	l.Record("f", Node{Kind: KindConstEval, Def: 4})

	var buf bytes.Buffer
	if err := l.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	snap, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Session != l.Session().String() {
		t.Fatalf("session mismatch: %s vs %s", snap.Session, l.Session())
	}
	byUnit := snap.ByUnit()
	if got := byUnit["f"]; len(got) != 2 || got[0] != TypeckBody(3) || got[1].Kind != KindConstEval {
		t.Fatalf("unexpected reads for f: %v", got)
	}
}

func TestWriteFileReadFile(t *testing.T) {
	l := NewLog()
	l.Record("main", TypeckBody(1))
	path := filepath.Join(t.TempDir(), "out", "deps.mp")
	if err := l.WriteFile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	snap, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(snap.Reads) != 1 || snap.Reads[0].Node.String() != "TypeckBody(1)" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
