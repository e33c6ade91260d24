package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/otherworld-codex/internal/arkhamdb"
	"github.com/ramonehamilton/otherworld-codex/internal/dataset"
)

func newFetchCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the card export from ArkhamDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, err := a.cfg.GetArkhamDBTimeout()
			if err != nil {
				return err
			}
			client := arkhamdb.NewClient(arkhamdb.Options{
				BaseURL:           a.cfg.ArkhamDB.BaseURL,
				RequestsPerSecond: a.cfg.ArkhamDB.RequestsPerSecond,
				Timeout:           timeout,
			})

			raw, err := client.FetchCards(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				out = a.cfg.CardsPath()
			}
			if err := dataset.WriteCards(out, raw); err != nil {
				return err
			}

			a.logger.Info("card export saved", zap.String("path", out), zap.Int("cards", len(raw)))
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d cards to %s\n", len(raw), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default from config)")
	return cmd
}
