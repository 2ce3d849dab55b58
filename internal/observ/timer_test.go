package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	tm.End(idx, "3 items")
	if err := tm.Track("lower", func() error { return errors.New("boom") }); err == nil {
		t.Fatal("Track must return the phase error")
	}
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	if r.Phases[0].Name != "load" || r.Phases[0].Note != "3 items" {
		t.Errorf("phase 0 = %+v", r.Phases[0])
	}
	if r.Phases[1].Note != "failed" {
		t.Errorf("phase 1 note = %q, want failed", r.Phases[1].Note)
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Errorf("total %v below phase %v", r.TotalMS, r.Phases[0].DurationMS)
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	tm.End(tm.Begin("lower"), "5 units")
	s := tm.Summary()
	for _, want := range []string{"timings:", "lower", "// 5 units", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.Phases != nil || r.TotalMS != 0 {
		t.Errorf("empty report = %+v", r)
	}
}
