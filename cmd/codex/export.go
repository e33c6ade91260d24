package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/otherworld-codex/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export data for the static site or spreadsheets",
	}
	cmd.AddCommand(newExportStaticCmd(a), newExportCardsCmd(a))
	return cmd
}

func newExportStaticCmd(a *app) *cobra.Command {
	var (
		dir    string
		pretty bool
	)
	cmd := &cobra.Command{
		Use:   "static",
		Short: "Write filter-options.json, card-meta.json and search-index.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			result, err := export.WriteStatic(cmd.Context(), dir, cat, pretty, a.logger)
			if err != nil {
				return err
			}
			for _, f := range result.Files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "public/data", "output directory")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON")
	return cmd
}

func newExportCardsCmd(a *app) *cobra.Command {
	var (
		out       string
		format    string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "cards [query]",
		Short: "Export the cards matching a browse query string",
		Example: `  codex export cards "?campaign=notz&type=enemy" --format csv --out enemies.csv
  codex export cards "?fight=4"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
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
			rows := export.CardRows(cat.Filter(cat.State(query)))

			if out == "" {
				return export.ExportToWriter(cmd.OutOrStdout(), f, rows, true)
			}
			if err := export.NewExporter(export.Options{
				Format:     f,
				FilePath:   out,
				PrettyJSON: true,
				Overwrite:  overwrite,
			}).Export(rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cards to %s\n", len(rows), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or csv")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing output file")
	return cmd
}
