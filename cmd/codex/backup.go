package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/otherworld-codex/internal/storage"
)

func newBackupCmd(a *app) *cobra.Command {
	var (
		dir  string
		keep int
	)
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return backup(cmd, a, db, dir, keep)
		},
	}
	cmd.PersistentFlags().StringVarP(&dir, "dir", "d", "backups", "backup directory")
	cmd.Flags().IntVar(&keep, "keep", 5, "snapshots to keep")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			backups, err := storage.ListBackups(dir)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, b := range backups {
				fmt.Fprintf(w, "%s\t%d\t%s\t%.12s\n", b.Name, b.Size, b.ModTime.Format("2006-01-02 15:04:05"), b.Checksum)
			}
			return w.Flush()
		},
	})
	return cmd
}
