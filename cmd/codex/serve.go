package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/otherworld-codex/internal/api"
	"github.com/ramonehamilton/otherworld-codex/internal/catalog"
	"github.com/ramonehamilton/otherworld-codex/internal/dataset"
	"github.com/ramonehamilton/otherworld-codex/internal/events"
	"github.com/ramonehamilton/otherworld-codex/internal/metrics"
	"github.com/ramonehamilton/otherworld-codex/internal/storage"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port  int
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browse and search API",
		Long: `serve answers the REST API from the database. An empty database is
seeded from the data files first. With --watch, edits to the data files
reseed the database and swap the served catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			if !cmd.Flags().Changed("watch") {
				watch = a.cfg.Data.Watch
			}

			db, svc, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			cat, err := initialCatalog(ctx, a, svc)
			if err != nil {
				return err
			}
			holder := catalog.NewHolder(cat)
			m := metrics.NewServerMetrics()

			apiCfg, err := a.apiConfig()
			if err != nil {
				return err
			}
			server := api.NewServer(apiCfg, api.Deps{
				Catalogs: holder,
				Searcher: svc,
				Metrics:  m,
				Logger:   a.logger,
			})
			if err := server.Start(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API server running at http://localhost:%d\n", server.Port())

			watchErr := make(chan error, 1)
			if watch {
				debounce, err := a.cfg.GetDebounce()
				if err != nil {
					return err
				}
				dispatcher := events.NewDispatcher(a.logger)
				dispatcher.Register(events.NewLoggingObserver(a.logger))
				dispatcher.Register(events.NewMetricsObserver(m))

				watcher := dataset.NewWatcher(a.files(), debounce, func(ctx context.Context, ds *dataset.Dataset) error {
					start := time.Now()
					result, err := svc.Seed(ctx, ds.Cards, ds.Campaigns)
					if err != nil {
						dispatcher.Dispatch(events.NewReloadFailed(ctx, err))
						return err
					}
					holder.Store(result.Catalog)
					dispatcher.Dispatch(events.NewReloaded(ctx, events.CatalogReloadedEvent{
						Cards:         result.Cards,
						EncounterSets: result.EncounterSets,
						Campaigns:     result.Campaigns,
						SearchEntries: result.SearchEntries,
						Took:          time.Since(start),
					}))
					return nil
				}, a.logger)
				go func() { watchErr <- watcher.Run(ctx) }()
			}

			select {
			case <-ctx.Done():
			case err := <-watchErr:
				if err != nil {
					a.logger.Error("data watcher stopped", zap.Error(err))
				}
				<-ctx.Done()
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("error during shutdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the data files change")
	return cmd
}

// initialCatalog reads the stored data, seeding from the data files when
// the database is empty.
func initialCatalog(ctx context.Context, a *app, svc *storage.Service) (*catalog.Catalog, error) {
	count, err := svc.CardCount(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return svc.LoadCatalog(ctx)
	}

	a.logger.Info("database is empty, seeding from data files")
	ds, err := dataset.Load(ctx, a.files())
	if err != nil {
		return nil, err
	}
	result, err := svc.Seed(ctx, ds.Cards, ds.Campaigns)
	if err != nil {
		return nil, err
	}
	return result.Catalog, nil
}

func (a *app) apiConfig() (*api.Config, error) {
	maxAge, err := a.cfg.GetCacheMaxAge()
	if err != nil {
		return nil, err
	}
	timeout, err := a.cfg.GetRequestTimeout()
	if err != nil {
		return nil, err
	}
	return &api.Config{
		Port:           a.cfg.Server.Port,
		CacheMaxAge:    maxAge,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		RequestTimeout: timeout,
	}, nil
}
