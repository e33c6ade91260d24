// Package dataset reads the card export and campaign hierarchy files.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/hierarchy"
)

// Files names the two data files.
type Files struct {
	Cards     string
	Campaigns string
}

// Dataset is the raw content of the data files.
type Dataset struct {
	Cards     []cards.RawCard
	Campaigns []hierarchy.Campaign
}

// Load reads both files concurrently.
func Load(ctx context.Context, files Files) (*Dataset, error) {
	var ds Dataset
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		raw, err := LoadCards(ctx, files.Cards)
		if err != nil {
			return err
		}
		ds.Cards = raw
		return nil
	})
	g.Go(func() error {
		campaigns, err := LoadCampaigns(ctx, files.Campaigns)
		if err != nil {
			return err
		}
		ds.Campaigns = campaigns
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// LoadCards reads a card export file.
func LoadCards(ctx context.Context, path string) ([]cards.RawCard, error) {
	data, err := readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	raw, err := cards.DecodeRawCards(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// LoadCampaigns reads a campaign hierarchy file. Files ending in .yaml or
// .yml are parsed as YAML, anything else as JSON.
func LoadCampaigns(ctx context.Context, path string) ([]hierarchy.Campaign, error) {
	data, err := readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	campaigns, err := DecodeCampaigns(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return campaigns, nil
}

// DecodeCampaigns decodes a campaign hierarchy in the format named by ext.
func DecodeCampaigns(data []byte, ext string) ([]hierarchy.Campaign, error) {
	var campaigns []hierarchy.Campaign
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &campaigns); err != nil {
			return nil, fmt.Errorf("failed to decode campaigns: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &campaigns); err != nil {
			return nil, fmt.Errorf("failed to decode campaigns: %w", err)
		}
	}
	for i, c := range campaigns {
		if c.Code == "" {
			return nil, fmt.Errorf("campaign %d has no code", i)
		}
		for j, s := range c.Scenarios {
			if s.Code == "" {
				return nil, fmt.Errorf("campaign %s: scenario %d has no code", c.Code, j)
			}
		}
	}
	return campaigns, nil
}

// WriteCards writes a card export file atomically.
func WriteCards(path string, raw []cards.RawCard) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cards: %w", err)
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers and watchers never see a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
