package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/otherworld-codex/internal/charts"
	"github.com/ramonehamilton/otherworld-codex/internal/dataset"
	"github.com/ramonehamilton/otherworld-codex/internal/stats"
)

func newStatsCmd(a *app) *cobra.Command {
	var (
		mode  string
		chart string
	)
	cmd := &cobra.Command{
		Use:   "stats [query]",
		Short: "Summarize the cards matching a browse query string",
		Example: `  codex stats "?campaign=notz"
  codex stats "?type=enemy" --mode unique --chart enemies.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := stats.ParseCountMode(mode)
			if err != nil {
				return err
			}
			cat, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			summary := cat.Summarize(cat.State(query), m)

			if chart != "" {
				var buf bytes.Buffer
				if err := charts.Render(&buf, summary, charts.DefaultChartConfig()); err != nil {
					return err
				}
				if err := dataset.WriteFileAtomic(chart, buf.Bytes()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Charts written to %s\n", chart)
				return nil
			}
			return printSummary(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "total", "count mode: unique or total")
	cmd.Flags().StringVar(&chart, "chart", "", "write an HTML chart page instead of text")
	return cmd
}

func printSummary(out io.Writer, s stats.Summary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Cards (%s):\t%d\n", s.Mode, s.CardCount)

	for _, section := range []struct {
		title   string
		entries []stats.Entry
	}{
		{"Types", s.Types},
		{"Encounter sets", s.Encounters},
		{"Traits", s.Traits},
	} {
		if len(section.entries) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", section.title)
		for _, e := range section.entries {
			fmt.Fprintf(w, "  %s\t%d\n", e.Name, e.Value)
		}
	}

	printTable(w, "Enemies", s.Enemies)
	printTable(w, "Locations", s.Locations)
	return w.Flush()
}

func printTable(w io.Writer, title string, t stats.Table) {
	if t.IsEmpty() {
		return
	}
	fmt.Fprintf(w, "\n%s\n  \t%s\n", title, strings.Join(t.Keys, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(t.Keys))
		for i, k := range t.Keys {
			cells[i] = fmt.Sprint(row.Cells[k])
		}
		fmt.Fprintf(w, "  %s\t%s\n", row.Name, strings.Join(cells, "\t"))
	}
}
