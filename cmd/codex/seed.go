package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/otherworld-codex/internal/dataset"
	"github.com/ramonehamilton/otherworld-codex/internal/storage"
)

func newSeedCmd(a *app) *cobra.Command {
	var (
		backupDir string
		keep      int
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the data files into the database",
		Long:  "seed replaces the database contents with the card export and campaign files in one transaction.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ds, err := dataset.Load(ctx, a.files())
			if err != nil {
				return err
			}

			db, svc, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if backupDir != "" {
				if err := backup(cmd, a, db, backupDir, keep); err != nil {
					return err
				}
			}

			result, err := svc.Seed(ctx, ds.Cards, ds.Campaigns)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d cards, %d packs, %d encounter sets, %d campaigns, %d scenarios (%d search entries)\n",
				result.Cards, result.Packs, result.EncounterSets, result.Campaigns, result.Scenarios, result.SearchEntries)
			return nil
		},
	}
	cmd.Flags().StringVar(&backupDir, "backup-dir", "", "snapshot the database into this directory before seeding")
	cmd.Flags().IntVar(&keep, "keep", 5, "snapshots to keep in the backup directory")
	return cmd
}

func backup(cmd *cobra.Command, a *app, db *storage.DB, dir string, keep int) error {
	path, err := db.Backup(cmd.Context(), dir)
	if err != nil {
		return err
	}
	removed, err := storage.PruneBackups(dir, keep)
	if err != nil {
		return err
	}
	a.logger.Info("database backed up", zap.String("path", path), zap.Int("pruned", removed))
	fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
	return nil
}
