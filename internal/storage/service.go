package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/hierarchy"
	"github.com/ramonehamilton/otherworld-codex/internal/catalog"
	"github.com/ramonehamilton/otherworld-codex/internal/storage/repository"
)

// Service loads the card data into the database and reads it back.
type Service struct {
	db        *DB
	cards     repository.CardRepository
	campaigns repository.CampaignRepository
	search    repository.SearchRepository
	logger    *zap.Logger
}

// NewService creates a new storage service.
func NewService(db *DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:        db,
		cards:     repository.NewCardRepository(db.Conn()),
		campaigns: repository.NewCampaignRepository(db.Conn()),
		search:    repository.NewSearchRepository(db.Conn()),
		logger:    logger,
	}
}

// SeedResult reports what a seed wrote.
type SeedResult struct {
	Cards         int
	Packs         int
	EncounterSets int
	Campaigns     int
	Scenarios     int
	SearchEntries int
	Catalog       *catalog.Catalog
}

// Seed replaces the stored data with raw and campaigns in one transaction.
// The records are validated before anything is written.
func (s *Service) Seed(ctx context.Context, raw []cards.RawCard, campaigns []hierarchy.Campaign) (*SeedResult, error) {
	start := time.Now()
	cat, err := catalog.FromRaw(raw, campaigns)
	if err != nil {
		return nil, err
	}
	records := dedupe(raw)
	result := &SeedResult{Cards: len(records), Catalog: cat}

	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cardRepo := repository.NewCardRepository(tx)
		campaignRepo := repository.NewCampaignRepository(tx)
		searchRepo := repository.NewSearchRepository(tx)

		if err := campaignRepo.DeleteAll(ctx); err != nil {
			return err
		}
		if err := cardRepo.DeleteAll(ctx); err != nil {
			return err
		}

		packs := make(map[string]bool)
		for _, r := range records {
			if r.PackCode == "" || packs[r.PackCode] {
				continue
			}
			packs[r.PackCode] = true
			name := r.PackName
			if name == "" {
				name = r.PackCode
			}
			if err := cardRepo.UpsertPack(ctx, r.PackCode, name); err != nil {
				return err
			}
		}
		result.Packs = len(packs)

		for _, set := range cat.Index().EncounterSets() {
			if err := cardRepo.UpsertEncounterSet(ctx, set.Code, set.Name, set.ImageURL, set.CardCount); err != nil {
				return err
			}
		}
		result.EncounterSets = len(cat.Index().EncounterSets())

		for i, r := range records {
			if err := cardRepo.UpsertCard(ctx, i, r); err != nil {
				return err
			}
		}

		for i, c := range campaigns {
			if err := campaignRepo.UpsertCampaign(ctx, c.Code, c.Name, i); err != nil {
				return err
			}
			result.Campaigns++
			for j, sc := range c.Scenarios {
				if err := campaignRepo.UpsertScenario(ctx, c.Code, sc, j); err != nil {
					return err
				}
				result.Scenarios++
				for k, ec := range sc.EncounterCodes {
					if err := campaignRepo.UpsertEncounterSetScenario(ctx, ec, sc.Code, k); err != nil {
						return err
					}
				}
			}
		}

		entries := cat.SearchEntries()
		rows := make([]repository.SearchRow, 0, len(entries))
		for _, e := range entries {
			if e.Type == catalog.EntryCard && e.TypeCode == "scenario" {
				continue
			}
			rows = append(rows, repository.SearchRow{
				Type: string(e.Type), Code: e.Code, Name: e.Name, Body: e.Body, ImageURL: e.ImageURL,
			})
		}
		result.SearchEntries = len(rows)
		return searchRepo.Rebuild(ctx, rows)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	s.logger.Info("database seeded",
		zap.Int("cards", result.Cards),
		zap.Int("packs", result.Packs),
		zap.Int("encounter_sets", result.EncounterSets),
		zap.Int("campaigns", result.Campaigns),
		zap.Int("scenarios", result.Scenarios),
		zap.Int("search_entries", result.SearchEntries),
		zap.Duration("took", time.Since(start)))
	return result, nil
}

// dedupe keeps the last record of each code in the slot of its first
// occurrence, matching corpus order.
func dedupe(raw []cards.RawCard) []cards.RawCard {
	slot := make(map[string]int, len(raw))
	out := make([]cards.RawCard, 0, len(raw))
	for _, r := range raw {
		if i, ok := slot[r.Code]; ok {
			out[i] = r
			continue
		}
		slot[r.Code] = len(out)
		out = append(out, r)
	}
	return out
}

// LoadCatalog rebuilds a catalog from the stored data.
func (s *Service) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	raw, err := s.cards.ListRawCards(ctx)
	if err != nil {
		return nil, err
	}
	campaigns, err := s.campaigns.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.FromRaw(raw, campaigns)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("catalog loaded from database",
		zap.Int("cards", len(raw)),
		zap.Int("campaigns", len(campaigns)))
	return cat, nil
}

// Search runs a full-text query over cards, packs, campaigns, scenarios,
// encounter sets and traits.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]repository.SearchRow, error) {
	return s.search.Search(ctx, query, limit)
}

// CardCount returns the number of stored cards.
func (s *Service) CardCount(ctx context.Context) (int, error) {
	return s.cards.Count(ctx)
}
