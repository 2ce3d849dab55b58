package diag

import (
	"strings"
	"sync"
	"testing"

	"mirror/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		ok := b.Add(NewError(ConstOverflow, source.Span{}, "overflow"))
		if want := i < 2; ok != want {
			t.Fatalf("Add #%d = %v, want %v", i, ok, want)
		}
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", b.Len())
	}
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors")
	}
}

func TestBagSortAndDedupAcrossWorkers(t *testing.T) {
	b := NewBag(100)
	var wg sync.WaitGroup
	for _, unit := range []string{"c", "a", "b", "a"} {
		wg.Add(1)
		go func(unit string) {
			defer wg.Done()
			r := UnitReporter{Unit: unit, Next: BagReporter{Bag: b}}
			ReportError(r, ConstDivByZero, source.Span{Start: 1, End: 2}, "div")
		}(unit)
	}
	wg.Wait()

	b.Sort()
	b.Dedup()
	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 unique diagnostics, got %d", len(items))
	}
	for i, want := range []string{"a", "b", "c"} {
		if items[i].Unit != want {
			t.Fatalf("items[%d].Unit = %q, want %q", i, items[i].Unit, want)
		}
	}
}

func TestFormatShort(t *testing.T) {
	d := NewError(ConstOverflow, source.Span{File: 1, Start: 4, End: 9}, "attempt to add with overflow").
		WithNote(source.Span{}, "in constant `MAX`").
		InUnit("MAX")
	got := FormatShort([]Diagnostic{d}, true)
	want := "MAX: ERROR CST4001 1:4-9: attempt to add with overflow\n  note: in constant `MAX`\n"
	if got != want {
		t.Fatalf("unexpected output:\n%s", got)
	}
	if !strings.Contains(ICE.String(), "ICE9000") {
		t.Fatalf("unexpected ICE code string %q", ICE.String())
	}
}
