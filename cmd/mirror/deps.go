package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"mirror/internal/depgraph"
)

func newDepsCmd() *cobra.Command {
	var (
		unit    string
		summary bool
	)
	cmd := &cobra.Command{
		Use:   "deps [flags] <snapshot>",
		Short: "Print a dependency snapshot written by lower --deps-out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := depgraph.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			by := snap.ByUnit()
			if unit != "" {
				nodes, ok := by[unit]
				if !ok {
					return fmt.Errorf("no reads recorded for unit %q", unit)
				}
				by = map[string][]depgraph.Node{unit: nodes}
			}
			names := make([]string, 0, len(by))
			for name := range by {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Fprintf(out, "session %s, %d reads\n", snap.Session, len(snap.Reads))
			if summary {
				printDepsSummary(out, names, by)
				return nil
			}
			for _, name := range names {
				fmt.Fprintf(out, "%s:\n", name)
				for _, n := range by[name] {
					fmt.Fprintf(out, "  %s\n", n)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&unit, "unit", "", "only print the reads of this unit")
	cmd.Flags().BoolVar(&summary, "summary", false, "print one aligned line per unit with its read count")
	return cmd
}

const depsNameWidth = 32

// printDepsSummary prints "name  count" rows. Names are measured in
// terminal cells so that non-ASCII identifiers keep the column aligned.
func printDepsSummary(out io.Writer, names []string, by map[string][]depgraph.Node) {
	width := 0
	for _, name := range names {
		width = max(width, runewidth.StringWidth(name))
	}
	width = min(width, depsNameWidth)
	for _, name := range names {
		fmt.Fprintf(out, "%s  %d\n", runewidth.FillRight(truncateName(name, width), width), len(by[name]))
	}
}

func truncateName(name string, width int) string {
	if runewidth.StringWidth(name) <= width {
		return name
	}
	if width <= 3 {
		return runewidth.Truncate(name, width, "")
	}
	return runewidth.Truncate(name, width-3, "...")
}
