package driver

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// lowerMetrics counts what the workers did during one LowerProgram call.
type lowerMetrics struct {
	active    atomic.Int32 // workers currently lowering a unit
	peak      atomic.Int32 // highest observed value of active
	lowered   atomic.Int64 // units lowered successfully
	failed    atomic.Int64 // units that produced a user diagnostic
	evaluated atomic.Int64 // const and static initializers evaluated
}

func (m *lowerMetrics) enter() {
	n := m.active.Add(1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

func (m *lowerMetrics) leave() { m.active.Add(-1) }

// Metrics is a snapshot of lowerMetrics.
type Metrics struct {
	Jobs        int   `json:"jobs"`
	PeakWorkers int32 `json:"peak_workers"`
	Lowered     int64 `json:"lowered"`
	Failed      int64 `json:"failed"`
	Evaluated   int64 `json:"evaluated"`
}

func (m *lowerMetrics) snapshot(jobs int) Metrics {
	return Metrics{
		Jobs:        jobs,
		PeakWorkers: m.peak.Load(),
		Lowered:     m.lowered.Load(),
		Failed:      m.failed.Load(),
		Evaluated:   m.evaluated.Load(),
	}
}

func (m Metrics) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "workers: %d jobs, peak %d\n", m.Jobs, m.PeakWorkers)
	fmt.Fprintf(&sb, "units:   %d lowered, %d failed, %d initializers evaluated\n", m.Lowered, m.Failed, m.Evaluated)
	return sb.String()
}
