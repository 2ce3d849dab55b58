package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mirror/internal/diag"
	"mirror/internal/driver"
	"mirror/internal/fixture"
	"mirror/internal/observ"
	"mirror/internal/session"
	"mirror/internal/source"
	"mirror/internal/trace"
)

type lowerFlags struct {
	forceOverflow   session.Tristate
	debugAssertions bool
	target          string
	jobs            int
	depsOut         string
	format          string
	withNotes       bool
	config          string
}

func newLowerCmd() *cobra.Command {
	var fl lowerFlags
	cmd := &cobra.Command{
		Use:   "lower [flags] <fixture.toml>",
		Short: "Lower every body of a fixture and print the result",
		Long: `Lower builds a lowering context for every function, method, const and
static of the fixture, lowers its body and prints the lowered trees.
Settings are read from mirror.toml next to the fixture (or above it);
flags override the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLower(cmd, args[0], &fl, cmd.Flags())
		},
	}
	f := cmd.Flags()
	f.Var(&fl.forceOverflow, "force-overflow-checks", "force overflow checks on or off")
	f.BoolVar(&fl.debugAssertions, "debug-assertions", false, "build with debug assertions")
	f.StringVar(&fl.target, "target", "", "target triple")
	f.IntVar(&fl.jobs, "jobs", 0, "max parallel workers (0=auto)")
	f.StringVar(&fl.depsOut, "deps-out", "", "write the dependency reads to this file")
	f.StringVar(&fl.format, "format", "short", "diagnostic format (short|json)")
	f.BoolVar(&fl.withNotes, "with-notes", false, "include diagnostic notes in output")
	f.StringVar(&fl.config, "config", "", "path to mirror.toml (default: search from the fixture directory)")
	return cmd
}

type flagSet interface {
	Changed(name string) bool
}

func runLower(cmd *cobra.Command, path string, fl *lowerFlags, flags flagSet) error {
	root := cmd.Root().PersistentFlags()
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := root.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	switch fl.format {
	case "short", "json":
	default:
		return fmt.Errorf("unknown format %q (must be short or json)", fl.format)
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	span, ctx := trace.StartSpan(cmd.Context(), trace.ScopeDriver, "mirror lower")
	defer span.End(path)

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	input := diag.NewBag(maxDiagnostics)
	timer := observ.NewTimer()

	cfg, err := loadLowerConfig(path, fl.config)
	if err != nil {
		input.Add(diag.NewError(diag.InputBadConfig, source.Span{}, err.Error()))
		return reportInputFailure(out, errOut, input, fl)
	}
	opts, jobs, depsOut := mergeLowerSettings(cfg, fl, flags)
	if _, err := opts.ResolveTarget(); err != nil {
		input.Add(diag.NewError(diag.InputUnknownTarget, source.Span{}, err.Error()))
		return reportInputFailure(out, errOut, input, fl)
	}

	var prog *fixture.Program
	err = timer.Track("load", func() error {
		var lerr error
		prog, lerr = fixture.Load(path)
		return lerr
	})
	if err != nil {
		input.Add(diag.NewError(diag.InputBadFixture, source.Span{}, err.Error()))
		return reportInputFailure(out, errOut, input, fl)
	}

	res, err := driver.LowerProgram(ctx, prog, driver.Options{
		Session:        opts,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Timer:          timer,
	})
	if err != nil {
		return err
	}

	if depsOut != "" {
		if err := timer.Track("deps", func() error { return res.Deps.WriteFile(depsOut) }); err != nil {
			return fmt.Errorf("write dependency snapshot: %w", err)
		}
	}

	if !quiet && fl.format == "short" {
		if err := res.Dump(out); err != nil {
			return err
		}
	}
	if showTimings && fl.format == "json" {
		driver.AppendTimings(res.Bag, prog.Path, timer, &res.Metrics)
	}
	if err := writeDiagnostics(out, errOut, res.Bag.Items(), fl); err != nil {
		return err
	}
	if showTimings && fl.format == "short" {
		fmt.Fprint(errOut, timer.Summary())
		fmt.Fprint(errOut, res.Metrics.String())
	}
	if res.Bag.HasErrors() {
		return &exitError{code: exitFailure}
	}
	return nil
}

// loadLowerConfig reads mirror.toml from explicit, or searches upward from
// the fixture's directory. A missing file is not an error.
func loadLowerConfig(fixturePath, explicit string) (session.Config, error) {
	if explicit != "" {
		return session.LoadConfig(explicit)
	}
	cfg, _, err := session.Discover(filepath.Dir(fixturePath))
	return cfg, err
}

// mergeLowerSettings applies the flags the user set on top of cfg.
func mergeLowerSettings(cfg session.Config, fl *lowerFlags, flags flagSet) (session.Options, int, string) {
	opts := cfg.Options()
	if flags.Changed("force-overflow-checks") {
		opts.ForceOverflowChecks = fl.forceOverflow
	}
	if flags.Changed("debug-assertions") {
		opts.DebugAssertions = fl.debugAssertions
	}
	if flags.Changed("target") {
		opts.Target = fl.target
	}
	jobs := cfg.Lower.Jobs
	if flags.Changed("jobs") {
		jobs = fl.jobs
	}
	depsOut := cfg.Lower.DepsOut
	if flags.Changed("deps-out") {
		depsOut = fl.depsOut
	}
	return opts, jobs, depsOut
}

func reportInputFailure(out, errOut io.Writer, bag *diag.Bag, fl *lowerFlags) error {
	if err := writeDiagnostics(out, errOut, bag.Items(), fl); err != nil {
		return err
	}
	return &exitError{code: exitFailure}
}

type jsonDiagnostic struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Unit     string   `json:"unit,omitempty"`
	Span     string   `json:"span,omitempty"`
	Message  string   `json:"message"`
	Notes    []string `json:"notes,omitempty"`
}

// writeDiagnostics prints diags in the selected format. Short output goes to
// errOut with the severity colored; JSON goes to out.
func writeDiagnostics(out, errOut io.Writer, diags []diag.Diagnostic, fl *lowerFlags) error {
	if fl.format == "json" {
		list := make([]jsonDiagnostic, 0, len(diags))
		for _, d := range diags {
			jd := jsonDiagnostic{
				Severity: d.Severity.String(),
				Code:     d.Code.ID(),
				Unit:     d.Unit,
				Message:  d.Message,
			}
			if !d.Primary.Empty() {
				jd.Span = d.Primary.String()
			}
			for _, n := range d.Notes {
				jd.Notes = append(jd.Notes, n.Msg)
			}
			list = append(list, jd)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	for _, d := range diags {
		line := diag.FormatShort([]diag.Diagnostic{d}, fl.withNotes)
		sev := d.Severity.String()
		if i := strings.Index(line, sev); i >= 0 {
			line = line[:i] + severityColor(d.Severity).Sprint(sev) + line[i+len(sev):]
		}
		if _, err := io.WriteString(errOut, line); err != nil {
			return err
		}
	}
	return nil
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}
