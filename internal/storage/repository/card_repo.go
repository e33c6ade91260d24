package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
)

// CardRepository stores export records, keeping the full record as JSON
// next to the queryable columns.
type CardRepository interface {
	// UpsertPack saves a pack.
	UpsertPack(ctx context.Context, code, name string) error

	// UpsertEncounterSet saves an encounter set summary.
	UpsertEncounterSet(ctx context.Context, code, name, imageURL string, cardCount int) error

	// UpsertCard saves a record. seq orders the corpus; a record whose
	// code is already stored keeps its original seq.
	UpsertCard(ctx context.Context, seq int, raw cards.RawCard) error

	// ListRawCards returns every stored record in corpus order.
	ListRawCards(ctx context.Context) ([]cards.RawCard, error)

	// Count returns the number of stored cards.
	Count(ctx context.Context) (int, error)

	// DeleteAll removes every card, encounter set and pack.
	DeleteAll(ctx context.Context) error
}

type cardRepository struct {
	db DBTX
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db DBTX) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) UpsertPack(ctx context.Context, code, name string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO packs (pack_code, pack_name) VALUES (?, ?)
		ON CONFLICT(pack_code) DO UPDATE SET pack_name = excluded.pack_name
	`, code, name)
	if err != nil {
		return fmt.Errorf("failed to upsert pack %s: %w", code, err)
	}
	return nil
}

func (r *cardRepository) UpsertEncounterSet(ctx context.Context, code, name, imageURL string, cardCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO encounter_sets (encounter_code, encounter_name, image_url, card_count) VALUES (?, ?, ?, ?)
		ON CONFLICT(encounter_code) DO UPDATE SET
			encounter_name = excluded.encounter_name,
			image_url = excluded.image_url,
			card_count = excluded.card_count
	`, code, name, nullText(imageURL), cardCount)
	if err != nil {
		return fmt.Errorf("failed to upsert encounter set %s: %w", code, err)
	}
	return nil
}

func (r *cardRepository) UpsertCard(ctx context.Context, seq int, raw cards.RawCard) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal card %s: %w", raw.Code, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cards (
			card_code, seq, card_name, real_name, type_code, type_name, faction_code, faction_name,
			pack_code, encounter_code, encounter_position, position, quantity, traits, text, imagesrc,
			health, health_per_investigator, enemy_fight, enemy_evade, enemy_damage, enemy_horror,
			shroud, clues, clues_fixed, victory, linked_to_code, raw_data, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(card_code) DO UPDATE SET
			card_name = excluded.card_name,
			real_name = excluded.real_name,
			type_code = excluded.type_code,
			type_name = excluded.type_name,
			faction_code = excluded.faction_code,
			faction_name = excluded.faction_name,
			pack_code = excluded.pack_code,
			encounter_code = excluded.encounter_code,
			encounter_position = excluded.encounter_position,
			position = excluded.position,
			quantity = excluded.quantity,
			traits = excluded.traits,
			text = excluded.text,
			imagesrc = excluded.imagesrc,
			health = excluded.health,
			health_per_investigator = excluded.health_per_investigator,
			enemy_fight = excluded.enemy_fight,
			enemy_evade = excluded.enemy_evade,
			enemy_damage = excluded.enemy_damage,
			enemy_horror = excluded.enemy_horror,
			shroud = excluded.shroud,
			clues = excluded.clues,
			clues_fixed = excluded.clues_fixed,
			victory = excluded.victory,
			linked_to_code = excluded.linked_to_code,
			raw_data = excluded.raw_data,
			updated_at = excluded.updated_at
	`,
		raw.Code, seq, raw.Name, nullText(raw.RealName), raw.TypeCode, raw.TypeName,
		nullText(raw.FactionCode), nullText(raw.FactionName),
		nullText(raw.PackCode), nullString(raw.EncounterCode), nullInt(raw.EncounterPosition),
		raw.Position, nullInt(raw.Quantity), nullString(raw.Traits), nullString(raw.Text), nullString(raw.ImageSrc),
		nullInt(raw.Health), nullBool(raw.HealthPerInvestigator), nullInt(raw.EnemyFight), nullInt(raw.EnemyEvade),
		nullInt(raw.EnemyDamage), nullInt(raw.EnemyHorror),
		nullInt(raw.Shroud), nullInt(raw.Clues), nullBool(raw.CluesFixed), nullInt(raw.Victory),
		nullString(raw.LinkedToCode), string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert card %s: %w", raw.Code, err)
	}
	return nil
}

func (r *cardRepository) ListRawCards(ctx context.Context) ([]cards.RawCard, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT card_code, raw_data FROM cards ORDER BY seq, card_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []cards.RawCard
	for rows.Next() {
		var code, data string
		if err := rows.Scan(&code, &data); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		raw, err := cards.DecodeRawCard([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", code, err)
		}
		out = append(out, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}
	return out, nil
}

func (r *cardRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}

func (r *cardRepository) DeleteAll(ctx context.Context) error {
	for _, table := range []string{"cards", "encounter_sets", "packs"} {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
