package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/hierarchy"
)

// CampaignRepository stores the campaign → scenario → encounter set tree.
type CampaignRepository interface {
	// UpsertCampaign saves a campaign at the given position.
	UpsertCampaign(ctx context.Context, code, name string, position int) error

	// UpsertScenario saves a scenario of a campaign at the given position.
	UpsertScenario(ctx context.Context, campaignCode string, s hierarchy.Scenario, position int) error

	// UpsertEncounterSetScenario links an encounter set to a scenario at
	// the given position.
	UpsertEncounterSetScenario(ctx context.Context, encounterCode, scenarioCode string, position int) error

	// ListCampaigns rebuilds the hierarchy in stored order.
	ListCampaigns(ctx context.Context) ([]hierarchy.Campaign, error)

	// DeleteAll removes the whole hierarchy.
	DeleteAll(ctx context.Context) error
}

type campaignRepository struct {
	db DBTX
}

// NewCampaignRepository creates a new campaign repository.
func NewCampaignRepository(db DBTX) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) UpsertCampaign(ctx context.Context, code, name string, position int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (campaign_code, campaign_name, position) VALUES (?, ?, ?)
		ON CONFLICT(campaign_code) DO UPDATE SET campaign_name = excluded.campaign_name
	`, code, name, position)
	if err != nil {
		return fmt.Errorf("failed to upsert campaign %s: %w", code, err)
	}
	return nil
}

func (r *campaignRepository) UpsertScenario(ctx context.Context, campaignCode string, s hierarchy.Scenario, position int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scenarios (scenario_code, scenario_name, scenario_prefix, campaign_code, position)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(scenario_code) DO UPDATE SET
			scenario_name = excluded.scenario_name,
			scenario_prefix = excluded.scenario_prefix
	`, s.Code, s.Name, nullText(s.Prefix), campaignCode, position)
	if err != nil {
		return fmt.Errorf("failed to upsert scenario %s: %w", s.Code, err)
	}
	return nil
}

func (r *campaignRepository) UpsertEncounterSetScenario(ctx context.Context, encounterCode, scenarioCode string, position int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO encounter_sets_to_scenarios (encounter_code, scenario_code, position) VALUES (?, ?, ?)
		ON CONFLICT(encounter_code, scenario_code) DO NOTHING
	`, encounterCode, scenarioCode, position)
	if err != nil {
		return fmt.Errorf("failed to link encounter set %s to scenario %s: %w", encounterCode, scenarioCode, err)
	}
	return nil
}

func (r *campaignRepository) ListCampaigns(ctx context.Context) ([]hierarchy.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.campaign_code, c.campaign_name,
			s.scenario_code, s.scenario_name, s.scenario_prefix,
			l.encounter_code
		FROM campaigns c
		LEFT JOIN scenarios s ON s.campaign_code = c.campaign_code
		LEFT JOIN encounter_sets_to_scenarios l ON l.scenario_code = s.scenario_code
		ORDER BY c.position, s.position, l.position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	campaigns := []hierarchy.Campaign{}
	for rows.Next() {
		var (
			campaignCode, campaignName         string
			scenarioCode, scenarioName, prefix sql.NullString
			encounterCode                      sql.NullString
		)
		if err := rows.Scan(&campaignCode, &campaignName, &scenarioCode, &scenarioName, &prefix, &encounterCode); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}

		if n := len(campaigns); n == 0 || campaigns[n-1].Code != campaignCode {
			campaigns = append(campaigns, hierarchy.Campaign{Code: campaignCode, Name: campaignName, Scenarios: []hierarchy.Scenario{}})
		}
		c := &campaigns[len(campaigns)-1]
		if !scenarioCode.Valid {
			continue
		}

		if n := len(c.Scenarios); n == 0 || c.Scenarios[n-1].Code != scenarioCode.String {
			c.Scenarios = append(c.Scenarios, hierarchy.Scenario{
				Code:           scenarioCode.String,
				Name:           scenarioName.String,
				Prefix:         prefix.String,
				EncounterCodes: []string{},
			})
		}
		s := &c.Scenarios[len(c.Scenarios)-1]
		if encounterCode.Valid {
			s.EncounterCodes = append(s.EncounterCodes, encounterCode.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
	}
	return campaigns, nil
}

func (r *campaignRepository) DeleteAll(ctx context.Context) error {
	for _, table := range []string{"encounter_sets_to_scenarios", "scenarios", "campaigns"} {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
