package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/otherworld-codex/internal/storage"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	withManager := func(fn func(cmd *cobra.Command, mm *storage.MigrationManager, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			mm, err := storage.NewMigrationManager(a.cfg.Database.Path)
			if err != nil {
				return err
			}
			defer func() { _ = mm.Close() }()
			return fn(cmd, mm, args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withManager(func(cmd *cobra.Command, mm *storage.MigrationManager, _ []string) error {
				return mm.Up()
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert all migrations",
			RunE: withManager(func(cmd *cobra.Command, mm *storage.MigrationManager, _ []string) error {
				return mm.Down()
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the schema version",
			RunE: withManager(func(cmd *cobra.Command, mm *storage.MigrationManager, _ []string) error {
				v, dirty, err := mm.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: withManager(func(cmd *cobra.Command, mm *storage.MigrationManager, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return mm.Force(v)
			}),
		},
	)
	return cmd
}
