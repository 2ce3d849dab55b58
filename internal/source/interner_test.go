package source

import (
	"sync"
	"testing"
)

func TestInternerBasic(t *testing.T) {
	in := NewInterner()

	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("NoStringID must map to the empty string, got %q ok=%v", s, ok)
	}

	id1 := in.Intern("hello")
	if id1 == NoStringID {
		t.Fatal("non-empty string interned as NoStringID")
	}
	if id2 := in.Intern("hello"); id1 != id2 {
		t.Errorf("same string interned twice: %d != %d", id1, id2)
	}
	if s := in.MustLookup(id1); s != "hello" {
		t.Errorf("lookup returned %q", s)
	}
	if id3 := in.Intern("world"); id3 == id1 {
		t.Error("different strings share an id")
	}
	if in.Len() != 3 {
		t.Errorf("expected Len 3, got %d", in.Len())
	}
}

func TestInternIdentNormalizesNFC(t *testing.T) {
	in := NewInterner()

	composed := in.InternIdent("caf\u00e9")
	decomposed := in.InternIdent("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("NFC-equivalent identifiers differ: %d vs %d", composed, decomposed)
	}

	id, ok := in.LookupIdent("cafe\u0301")
	if !ok || id != composed {
		t.Fatalf("LookupIdent = %d,%v; want %d,true", id, ok, composed)
	}
	if _, ok := in.LookupIdent("missing"); ok {
		t.Fatal("LookupIdent must not intern")
	}
	if in.Len() != 2 {
		t.Fatalf("LookupIdent grew the interner: Len=%d", in.Len())
	}
}

func TestInternerConcurrentIntern(t *testing.T) {
	in := NewInterner()
	words := []string{"add", "sub", "mul", "div", "rem"}

	var wg sync.WaitGroup
	ids := make([][]StringID, 8)
	for g := range ids {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for _, w := range words {
				ids[g] = append(ids[g], in.Intern(w))
			}
		}(g)
	}
	wg.Wait()

	for g := 1; g < len(ids); g++ {
		for i := range words {
			if ids[g][i] != ids[0][i] {
				t.Fatalf("goroutine %d got id %d for %q, want %d", g, ids[g][i], words[i], ids[0][i])
			}
		}
	}
	if in.Len() != len(words)+1 {
		t.Fatalf("expected %d strings, got %d", len(words)+1, in.Len())
	}
}
