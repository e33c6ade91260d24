// Package cards models encounter cards as published by the public card
// export and indexes them into an immutable corpus.
package cards

import (
	"errors"
	"fmt"
	"strings"
)

// ImageBase is prepended to the relative image paths found in the export.
const ImageBase = "https://arkhamdb.com"

// Card type codes the browser cares about.
const (
	TypeEnemy    = "enemy"
	TypeLocation = "location"
)

var (
	// ErrMissingCode is returned when an export record has no card code.
	ErrMissingCode = errors.New("card has no code")
	// ErrMissingType is returned when an export record has no type code.
	ErrMissingType = errors.New("card has no type code")
)

// Card is a single printed card.
type Card struct {
	Code              string `json:"code"`
	Name              string `json:"name"`
	RealName          string `json:"realName,omitempty"`
	Subname           string `json:"subname,omitempty"`
	TypeCode          string `json:"typeCode"`
	TypeName          string `json:"typeName"`
	FactionCode       string `json:"factionCode,omitempty"`
	FactionName       string `json:"factionName,omitempty"`
	PackCode          string `json:"packCode,omitempty"`
	PackName          string `json:"packName,omitempty"`
	EncounterCode     string `json:"encounterCode,omitempty"`
	EncounterName     string `json:"encounterName,omitempty"`
	EncounterPosition int    `json:"encounterPosition,omitempty"`
	Position          int    `json:"position"`
	Quantity          int    `json:"quantity"`
	Traits            string `json:"traits,omitempty"`
	Text              string `json:"text,omitempty"`
	Flavor            string `json:"flavor,omitempty"`
	BackName          string `json:"backName,omitempty"`
	BackText          string `json:"backText,omitempty"`
	BackFlavor        string `json:"backFlavor,omitempty"`
	ImageURL          string `json:"imageUrl,omitempty"`
	BackImageURL      string `json:"backImageUrl,omitempty"`
	DoubleSided       bool   `json:"doubleSided"`
	IsUnique          bool   `json:"isUnique"`

	Health                Stat `json:"health"`
	HealthPerInvestigator bool `json:"healthPerInvestigator,omitempty"`
	Fight                 Stat `json:"enemyFight"`
	Evade                 Stat `json:"enemyEvade"`
	Damage                Stat `json:"enemyDamage"`
	Horror                Stat `json:"enemyHorror"`
	Shroud                Stat `json:"shroud"`
	Clues                 Stat `json:"clues"`
	CluesFixed            bool `json:"cluesFixed,omitempty"`
	Victory               Stat `json:"victory"`

	// LinkedToCode names the card this one is the other face of.
	LinkedToCode string `json:"linkedToCode,omitempty"`
	// LinkedCard is the embedded back face carried by the export.
	LinkedCard *Card `json:"linkedCard,omitempty"`
}

// IsEnemy reports whether the card is an enemy.
func (c *Card) IsEnemy() bool { return c.TypeCode == TypeEnemy }

// IsLocation reports whether the card is a location.
func (c *Card) IsLocation() bool { return c.TypeCode == TypeLocation }

// HasEncounter reports whether the card belongs to an encounter set.
func (c *Card) HasEncounter() bool { return c.EncounterCode != "" }

// TraitList returns the card's parsed traits.
func (c *Card) TraitList() []string { return ParseTraits(c.Traits) }

// ParseTraits splits a trait line such as "Elite. Abomination." into
// its individual traits.
func ParseTraits(s string) []string {
	parts := strings.Split(s, ". ")
	traits := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(p), "."))
		if p != "" {
			traits = append(traits, p)
		}
	}
	return traits
}

// FromRaw converts an export record into a Card.
func FromRaw(raw RawCard) (*Card, error) {
	if raw.Code == "" {
		return nil, ErrMissingCode
	}
	if raw.TypeCode == "" {
		return nil, fmt.Errorf("card %s: %w", raw.Code, ErrMissingType)
	}

	card := fromRawFace(raw)
	if raw.LinkedCard != nil {
		card.LinkedCard = fromRawFace(*raw.LinkedCard)
	}
	return card, nil
}

func fromRawFace(raw RawCard) *Card {
	quantity := 1
	if raw.Quantity != nil {
		quantity = *raw.Quantity
	}

	return &Card{
		Code:                  raw.Code,
		Name:                  raw.Name,
		RealName:              raw.RealName,
		Subname:               deref(raw.Subname),
		TypeCode:              raw.TypeCode,
		TypeName:              raw.TypeName,
		FactionCode:           raw.FactionCode,
		FactionName:           raw.FactionName,
		PackCode:              raw.PackCode,
		PackName:              raw.PackName,
		EncounterCode:         deref(raw.EncounterCode),
		EncounterName:         deref(raw.EncounterName),
		EncounterPosition:     derefInt(raw.EncounterPosition),
		Position:              raw.Position,
		Quantity:              quantity,
		Traits:                deref(raw.Traits),
		Text:                  deref(raw.Text),
		Flavor:                deref(raw.Flavor),
		BackName:              deref(raw.BackName),
		BackText:              deref(raw.BackText),
		BackFlavor:            deref(raw.BackFlavor),
		ImageURL:              imageURL(deref(raw.ImageSrc)),
		BackImageURL:          imageURL(deref(raw.BackImageSrc)),
		DoubleSided:           derefBool(raw.DoubleSided),
		IsUnique:              derefBool(raw.IsUnique),
		Health:                NewStat(raw.Health),
		HealthPerInvestigator: derefBool(raw.HealthPerInvestigator),
		Fight:                 NewStat(raw.EnemyFight),
		Evade:                 NewStat(raw.EnemyEvade),
		Damage:                NewStat(raw.EnemyDamage),
		Horror:                NewStat(raw.EnemyHorror),
		Shroud:                NewStat(raw.Shroud),
		Clues:                 NewStat(raw.Clues),
		CluesFixed:            derefBool(raw.CluesFixed),
		Victory:               NewStat(raw.Victory),
		LinkedToCode:          deref(raw.LinkedToCode),
	}
}

func imageURL(src string) string {
	if src == "" || strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	return ImageBase + src
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func derefBool(b *bool) bool {
	return b != nil && *b
}
