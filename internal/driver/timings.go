package driver

import (
	"encoding/json"
	"fmt"

	"mirror/internal/diag"
	"mirror/internal/observ"
	"mirror/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
	Metrics *Metrics             `json:"metrics,omitempty"`
}

// AppendTimings adds an informational diagnostic carrying the timer report
// and the worker metrics as a JSON note. The bag limit is raised if needed.
func AppendTimings(bag *diag.Bag, path string, timer *observ.Timer, m *Metrics) {
	if bag == nil || timer == nil {
		return
	}
	report := timer.Report()
	appendTimingDiagnostic(bag, timingPayload{
		Kind:    "lower",
		Path:    path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
		Metrics: m,
	})
}

func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s in %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data))

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
