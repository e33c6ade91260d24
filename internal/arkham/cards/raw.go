package cards

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// RawCard is one record of the public card export. Nullable fields are
// pointers so that a missing value stays distinguishable from zero.
type RawCard struct {
	Code                  string   `json:"code" yaml:"code"`
	Name                  string   `json:"name" yaml:"name"`
	RealName              string   `json:"real_name,omitempty" yaml:"real_name,omitempty"`
	Subname               *string  `json:"subname,omitempty" yaml:"subname,omitempty"`
	TypeCode              string   `json:"type_code" yaml:"type_code"`
	TypeName              string   `json:"type_name" yaml:"type_name"`
	FactionCode           string   `json:"faction_code,omitempty" yaml:"faction_code,omitempty"`
	FactionName           string   `json:"faction_name,omitempty" yaml:"faction_name,omitempty"`
	PackCode              string   `json:"pack_code,omitempty" yaml:"pack_code,omitempty"`
	PackName              string   `json:"pack_name,omitempty" yaml:"pack_name,omitempty"`
	EncounterCode         *string  `json:"encounter_code,omitempty" yaml:"encounter_code,omitempty"`
	EncounterName         *string  `json:"encounter_name,omitempty" yaml:"encounter_name,omitempty"`
	EncounterPosition     *int     `json:"encounter_position,omitempty" yaml:"encounter_position,omitempty"`
	Position              int      `json:"position" yaml:"position"`
	Quantity              *int     `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Traits                *string  `json:"traits,omitempty" yaml:"traits,omitempty"`
	Text                  *string  `json:"text,omitempty" yaml:"text,omitempty"`
	Flavor                *string  `json:"flavor,omitempty" yaml:"flavor,omitempty"`
	BackName              *string  `json:"back_name,omitempty" yaml:"back_name,omitempty"`
	BackText              *string  `json:"back_text,omitempty" yaml:"back_text,omitempty"`
	BackFlavor            *string  `json:"back_flavor,omitempty" yaml:"back_flavor,omitempty"`
	ImageSrc              *string  `json:"imagesrc,omitempty" yaml:"imagesrc,omitempty"`
	BackImageSrc          *string  `json:"backimagesrc,omitempty" yaml:"backimagesrc,omitempty"`
	DoubleSided           *bool    `json:"double_sided,omitempty" yaml:"double_sided,omitempty"`
	IsUnique              *bool    `json:"is_unique,omitempty" yaml:"is_unique,omitempty"`
	Health                *int     `json:"health,omitempty" yaml:"health,omitempty"`
	HealthPerInvestigator *bool    `json:"health_per_investigator,omitempty" yaml:"health_per_investigator,omitempty"`
	EnemyFight            *int     `json:"enemy_fight,omitempty" yaml:"enemy_fight,omitempty"`
	EnemyEvade            *int     `json:"enemy_evade,omitempty" yaml:"enemy_evade,omitempty"`
	EnemyDamage           *int     `json:"enemy_damage,omitempty" yaml:"enemy_damage,omitempty"`
	EnemyHorror           *int     `json:"enemy_horror,omitempty" yaml:"enemy_horror,omitempty"`
	Shroud                *int     `json:"shroud,omitempty" yaml:"shroud,omitempty"`
	Clues                 *int     `json:"clues,omitempty" yaml:"clues,omitempty"`
	CluesFixed            *bool    `json:"clues_fixed,omitempty" yaml:"clues_fixed,omitempty"`
	Victory               *int     `json:"victory,omitempty" yaml:"victory,omitempty"`
	LinkedToCode          *string  `json:"linked_to_code,omitempty" yaml:"linked_to_code,omitempty"`
	LinkedCard            *RawCard `json:"linked_card,omitempty" yaml:"linked_card,omitempty"`
}

// keyAliases maps snake-cased camelCase keys onto the export's spelling
// where the two disagree.
var keyAliases = map[string]string{
	"image_src":      "imagesrc",
	"image_url":      "imagesrc",
	"back_image_src": "backimagesrc",
	"back_image_url": "backimagesrc",
	"enemy_victory":  "victory",
}

// DecodeRawCards decodes a JSON array of export records. Keys may be
// snake_case (the export's own form) or camelCase.
func DecodeRawCards(data []byte) ([]RawCard, error) {
	var objects []map[string]json.RawMessage
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("failed to decode card export: %w", err)
	}

	out := make([]RawCard, 0, len(objects))
	for i, obj := range objects {
		raw, err := decodeRawObject(obj)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

// DecodeRawCard decodes a single export record.
func DecodeRawCard(data []byte) (RawCard, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return RawCard{}, fmt.Errorf("failed to decode card: %w", err)
	}
	return decodeRawObject(obj)
}

func decodeRawObject(obj map[string]json.RawMessage) (RawCard, error) {
	normalized, err := normalizeKeys(obj)
	if err != nil {
		return RawCard{}, err
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return RawCard{}, err
	}
	var raw RawCard
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawCard{}, err
	}
	return raw, nil
}

func normalizeKeys(obj map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(obj))
	for key, value := range obj {
		name := SnakeCase(key)
		if alias, ok := keyAliases[name]; ok {
			name = alias
		}
		if name == "linked_card" && string(value) != "null" {
			var nested map[string]json.RawMessage
			if err := json.Unmarshal(value, &nested); err != nil {
				return nil, fmt.Errorf("linked_card: %w", err)
			}
			nested, err := normalizeKeys(nested)
			if err != nil {
				return nil, err
			}
			if value, err = json.Marshal(nested); err != nil {
				return nil, err
			}
		}
		// An explicit snake_case key beats a camelCase duplicate.
		if _, exists := out[name]; exists && key != name {
			continue
		}
		out[name] = value
	}
	return out, nil
}

// SnakeCase converts camelCase keys to snake_case and leaves snake_case untouched.
func SnakeCase(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToRaw converts a card back to its export record. Image URLs keep their
// absolute form.
func ToRaw(c *Card) RawCard {
	raw := RawCard{
		Code:                  c.Code,
		Name:                  c.Name,
		RealName:              c.RealName,
		Subname:               optString(c.Subname),
		TypeCode:              c.TypeCode,
		TypeName:              c.TypeName,
		FactionCode:           c.FactionCode,
		FactionName:           c.FactionName,
		PackCode:              c.PackCode,
		PackName:              c.PackName,
		EncounterCode:         optString(c.EncounterCode),
		EncounterName:         optString(c.EncounterName),
		Position:              c.Position,
		Quantity:              intPtr(c.Quantity),
		Traits:                optString(c.Traits),
		Text:                  optString(c.Text),
		Flavor:                optString(c.Flavor),
		BackName:              optString(c.BackName),
		BackText:              optString(c.BackText),
		BackFlavor:            optString(c.BackFlavor),
		ImageSrc:              optString(c.ImageURL),
		BackImageSrc:          optString(c.BackImageURL),
		DoubleSided:           boolPtr(c.DoubleSided),
		IsUnique:              boolPtr(c.IsUnique),
		Health:                c.Health.Raw(),
		HealthPerInvestigator: boolPtr(c.HealthPerInvestigator),
		EnemyFight:            c.Fight.Raw(),
		EnemyEvade:            c.Evade.Raw(),
		EnemyDamage:           c.Damage.Raw(),
		EnemyHorror:           c.Horror.Raw(),
		Shroud:                c.Shroud.Raw(),
		Clues:                 c.Clues.Raw(),
		CluesFixed:            boolPtr(c.CluesFixed),
		Victory:               c.Victory.Raw(),
		LinkedToCode:          optString(c.LinkedToCode),
	}
	if c.EncounterPosition != 0 {
		raw.EncounterPosition = intPtr(c.EncounterPosition)
	}
	if c.LinkedCard != nil {
		linked := ToRaw(c.LinkedCard)
		raw.LinkedCard = &linked
	}
	return raw
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }
