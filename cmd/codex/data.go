package main

import (
	"context"
	"fmt"

	"github.com/ramonehamilton/otherworld-codex/internal/catalog"
	"github.com/ramonehamilton/otherworld-codex/internal/dataset"
	"github.com/ramonehamilton/otherworld-codex/internal/storage"
)

func (a *app) files() dataset.Files {
	return dataset.Files{Cards: a.cfg.CardsPath(), Campaigns: a.cfg.CampaignsPath()}
}

// loadCatalog builds a catalog straight from the data files.
func (a *app) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	ds, err := dataset.Load(ctx, a.files())
	if err != nil {
		return nil, err
	}
	return catalog.FromRaw(ds.Cards, ds.Campaigns)
}

// openStore opens the configured database, migrating it to the latest
// schema.
func (a *app) openStore() (*storage.DB, *storage.Service, error) {
	dbCfg := storage.DefaultConfig(a.cfg.Database.Path)
	dbCfg.AutoMigrate = true
	db, err := storage.Open(dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, storage.NewService(db, a.logger), nil
}
