package driver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mirror/internal/depgraph"
	"mirror/internal/diag"
	"mirror/internal/fixture"
	"mirror/internal/mirror"
	"mirror/internal/observ"
	"mirror/internal/session"
	"mirror/internal/source"
	"mirror/internal/testkit"
	"mirror/internal/trace"
)

func loadBasic(t *testing.T) *fixture.Program {
	t.Helper()
	prog, err := fixture.Load("../fixture/testdata/basic.toml")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return prog
}

func TestLowerProgramUnits(t *testing.T) {
	res, err := LowerProgram(context.Background(), loadBasic(t), Options{Jobs: 4})
	if err != nil {
		t.Fatalf("LowerProgram: %v", err)
	}
	if len(res.Units) != 15 {
		t.Fatalf("units = %d, want 15", len(res.Units))
	}
	for i := 1; i < len(res.Units); i++ {
		if res.Units[i-1].Name >= res.Units[i].Name {
			t.Fatalf("units not sorted: %q before %q", res.Units[i-1].Name, res.Units[i].Name)
		}
	}
	for _, name := range []string{"add_one", "Add for Point::add", "LIMIT", "COUNTER", "unwrap_or"} {
		u, ok := res.Unit(name)
		if !ok || u.Body == nil {
			t.Errorf("unit %q missing or without body", name)
		}
	}
	for _, u := range res.Units {
		if u.Body == nil {
			continue
		}
		if err := testkit.CheckBody(u.Body); err != nil {
			t.Errorf("invariants: %v", err)
		}
	}
	if _, ok := res.Unit("nope"); ok {
		t.Errorf("unexpected unit nope")
	}

	m := res.Metrics
	if m.Lowered != 15 || m.Failed != 1 || m.Evaluated != 4 || m.Jobs != 4 {
		t.Errorf("metrics = %+v", m)
	}
	if m.PeakWorkers < 1 || m.PeakWorkers > 4 {
		t.Errorf("peak workers = %d", m.PeakWorkers)
	}
}

func TestLowerProgramConstValues(t *testing.T) {
	res, err := LowerProgram(context.Background(), loadBasic(t), Options{})
	if err != nil {
		t.Fatalf("LowerProgram: %v", err)
	}
	tests := []struct {
		name string
		want string
	}{
		{"LIMIT", "32u32"},
		{"MIN", "-128i8"},
		{"COUNTER", "0u64"},
	}
	for _, tt := range tests {
		u, ok := res.Unit(tt.name)
		if !ok || u.Value == nil {
			t.Errorf("%s: no value", tt.name)
			continue
		}
		if got := u.Value.String(); got != tt.want {
			t.Errorf("%s = %s, want %s", tt.name, got, tt.want)
		}
	}
	if u, _ := res.Unit("add_one"); u.Value != nil {
		t.Errorf("functions have no value, got %v", u.Value)
	}
}

func TestLowerProgramReportsOverflow(t *testing.T) {
	res, err := LowerProgram(context.Background(), loadBasic(t), Options{})
	if err != nil {
		t.Fatalf("LowerProgram: %v", err)
	}
	items := res.Bag.Items()
	if len(items) != 1 {
		t.Fatalf("diagnostics = %d, want 1:\n%s", len(items), diag.FormatShort(items, false))
	}
	d := items[0]
	if d.Code != diag.ConstOverflow || d.Unit != "BAD" || d.Severity != diag.SevError {
		t.Errorf("diagnostic = %+v", d)
	}
	u, _ := res.Unit("BAD")
	if u.Body == nil || u.Value != nil {
		t.Errorf("BAD should lower but not evaluate: body=%v value=%v", u.Body != nil, u.Value)
	}
}

func TestLowerProgramMaxDiagnostics(t *testing.T) {
	src := `
[[const]]
name = "A"
type = "u8"
body = { op = "+", lhs = 255, rhs = 1 }

[[const]]
name = "B"
type = "u8"
body = { op = "*", lhs = 16, rhs = 16 }
`
	prog, err := fixture.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, err := LowerProgram(context.Background(), prog, Options{MaxDiagnostics: 1})
	if err != nil {
		t.Fatalf("LowerProgram: %v", err)
	}
	if res.Bag.Len() != 1 {
		t.Errorf("bag len = %d, want 1", res.Bag.Len())
	}
	if res.Metrics.Failed != 2 {
		t.Errorf("failed = %d, want 2", res.Metrics.Failed)
	}
}

func TestLowerProgramDeps(t *testing.T) {
	deps := depgraph.NewLog()
	res, err := LowerProgram(context.Background(), loadBasic(t), Options{Deps: deps})
	if err != nil {
		t.Fatalf("LowerProgram: %v", err)
	}
	if res.Deps != deps {
		t.Fatalf("result should carry the supplied log")
	}
	if deps.Len() != len(res.Units) {
		t.Errorf("reads = %d, want one per unit (%d)", deps.Len(), len(res.Units))
	}
	by := deps.Snapshot().ByUnit()
	for _, u := range res.Units {
		nodes := by[u.Name]
		if len(nodes) != 1 || nodes[0].Kind != depgraph.KindTypeckBody {
			t.Errorf("%s reads = %v", u.Name, nodes)
		}
	}
}

func TestLowerProgramDeterministic(t *testing.T) {
	dump := func(jobs int) string {
		res, err := LowerProgram(context.Background(), loadBasic(t), Options{Jobs: jobs})
		if err != nil {
			t.Fatalf("LowerProgram(jobs=%d): %v", jobs, err)
		}
		var sb strings.Builder
		if err := res.Dump(&sb); err != nil {
			t.Fatalf("Dump: %v", err)
		}
		return sb.String()
	}
	serial := dump(1)
	if parallel := dump(8); parallel != serial {
		t.Fatalf("parallel dump differs from serial:\n%s\n---\n%s", serial, parallel)
	}
	for _, want := range []string{"// LIMIT\n", "= 32u32\n", "// Add for Point::add\n", "fn add_one(x: u32) -> u32"} {
		if !strings.Contains(serial, want) {
			t.Errorf("dump missing %q", want)
		}
	}
}

func TestLowerProgramInternalError(t *testing.T) {
	src := `
[[fn]]
name = "ok"
result = "u32"
body = 1

[[fn]]
name = "n"
params = [{ name = "x", type = "_" }]
result = "u32"
body = 1
`
	prog, err := fixture.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = LowerProgram(context.Background(), prog, Options{})
	if !mirror.IsInternal(err) {
		t.Fatalf("want internal error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "n: internal compiler error") {
		t.Errorf("error should name the unit: %v", err)
	}
}

func TestLowerProgramUsizeLiteralOutOfRange(t *testing.T) {
	src := `
[[fn]]
name = "a"
result = "u8"
body = 300

[[fn]]
name = "b"
result = "usize"
body = 4294967296

[[fn]]
name = "ok"
result = "usize"
body = 4294967295
`
	prog, err := fixture.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	opts := Options{Session: session.Options{Target: "wasm32-unknown-unknown"}}
	res, err := LowerProgram(context.Background(), prog, opts)
	if err != nil {
		t.Fatalf("out-of-range literals must not abort lowering: %v", err)
	}
	items := res.Bag.Items()
	if len(items) != 2 {
		t.Fatalf("diagnostics = %d, want 2", len(items))
	}
	for i, unit := range []string{"a", "b"} {
		if items[i].Unit != unit || items[i].Code != diag.ConstOverflow {
			t.Errorf("diagnostic %d = %s %s, want %s CST4001", i, items[i].Unit, items[i].Code.ID(), unit)
		}
	}
	if u, ok := res.Unit("ok"); !ok || u.Body == nil {
		t.Errorf("the in-range unit should still be lowered")
	}
}

func TestLowerProgramUnknownTarget(t *testing.T) {
	_, err := LowerProgram(context.Background(), loadBasic(t), Options{Session: session.Options{Target: "pdp11"}})
	if err == nil || mirror.IsInternal(err) {
		t.Fatalf("want a target error, got %v", err)
	}
}

func TestLowerProgramCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LowerProgram(ctx, loadBasic(t), Options{Jobs: 2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestLowerProgramTrace(t *testing.T) {
	ring := trace.NewRingTracer(1024, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)
	timer := observ.NewTimer()
	res, err := LowerProgram(ctx, loadBasic(t), Options{Timer: timer})
	if err != nil {
		t.Fatalf("LowerProgram: %v", err)
	}

	var passID uint64
	units := map[string]trace.Event{}
	for _, ev := range ring.Snapshot() {
		switch {
		case ev.Kind == trace.KindSpanBegin && ev.Name == "lower":
			passID = ev.SpanID
		case ev.Kind == trace.KindSpanEnd && ev.Scope == trace.ScopeUnit:
			units[ev.Name] = ev
		}
	}
	if passID == 0 {
		t.Fatalf("no lower pass span")
	}
	if len(units) != len(res.Units) {
		t.Fatalf("unit spans = %d, want %d", len(units), len(res.Units))
	}
	lim := units["unit:LIMIT"]
	if lim.ParentID != passID {
		t.Errorf("unit span parent = %d, want %d", lim.ParentID, passID)
	}
	if lim.Extra["constness"] != "const" || lim.Extra["check_overflow"] != "true" {
		t.Errorf("LIMIT extras = %v", lim.Extra)
	}
	if units["unit:add_one"].Extra["constness"] != "not-const" {
		t.Errorf("add_one extras = %v", units["unit:add_one"].Extra)
	}

	if r := timer.Report(); len(r.Phases) != 1 || r.Phases[0].Name != "lower" {
		t.Errorf("timer phases = %+v", r.Phases)
	}
}

func TestAppendTimings(t *testing.T) {
	timer := observ.NewTimer()
	timer.End(timer.Begin("lower"), "")
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.ConstOverflow, source.Span{}, "full"))
	m := Metrics{Jobs: 2, Lowered: 3}
	AppendTimings(bag, "x.toml", timer, &m)

	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("timings must be kept past the limit, got %d items", len(items))
	}
	d := items[1]
	if d.Code != diag.ObsTimings || d.Severity != diag.SevInfo {
		t.Errorf("timing diagnostic = %+v", d)
	}
	if !strings.Contains(d.Message, "x.toml") || len(d.Notes) != 1 {
		t.Fatalf("timing diagnostic = %+v", d)
	}
	for _, want := range []string{`"kind":"lower"`, `"name":"lower"`, `"lowered":3`} {
		if !strings.Contains(d.Notes[0].Msg, want) {
			t.Errorf("payload missing %s: %s", want, d.Notes[0].Msg)
		}
	}
}
