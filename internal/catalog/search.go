package catalog

import (
	"slices"
	"strings"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/hierarchy"
)

// EntryType names what a search entry points at.
type EntryType string

const (
	EntryCard      EntryType = "card"
	EntryEncounter EntryType = "encounter"
	EntryScenario  EntryType = "scenario"
	EntryCampaign  EntryType = "campaign"
	EntryPack      EntryType = "pack"
	EntryTrait     EntryType = "trait"
)

// SearchEntry is one searchable item. Body holds the extra text matched
// by full-text search and is not exported to the static index.
type SearchEntry struct {
	ID       string    `json:"id"`
	Type     EntryType `json:"type"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	ImageURL string    `json:"imageUrl,omitempty"`
	TypeCode string    `json:"typeCode,omitempty"`
	PackName string    `json:"packName,omitempty"`
	Body     string    `json:"-"`
}

func newEntry(t EntryType, code, name, image string) SearchEntry {
	return SearchEntry{ID: string(t) + ":" + code, Type: t, Code: code, Name: name, ImageURL: image}
}

// SearchEntries lists the searchable items of the given types, all types
// when none are named. Entries are grouped by type in the order cards,
// encounters, scenarios, campaigns, packs, traits.
func (c *Catalog) SearchEntries(types ...EntryType) []SearchEntry {
	want := func(t EntryType) bool { return len(types) == 0 || slices.Contains(types, t) }
	var out []SearchEntry

	if want(EntryCard) {
		for _, card := range c.cards {
			e := newEntry(EntryCard, card.Code, card.Name, card.ImageURL)
			e.TypeCode = card.TypeCode
			e.PackName = card.PackName
			e.Body = cardBody(card)
			out = append(out, e)
		}
	}
	if want(EntryEncounter) {
		for _, set := range c.index.EncounterSets() {
			out = append(out, newEntry(EntryEncounter, set.Code, set.Name, set.ImageURL))
		}
	}
	if want(EntryScenario) || want(EntryCampaign) {
		seen := make(map[string]bool)
		var scenarios, campaigns []SearchEntry
		for _, campaign := range c.index.Campaigns() {
			campaignImage := ""
			for i, s := range campaign.Scenarios {
				image := c.scenarioImage(s)
				if i == 0 {
					campaignImage = image
				}
				if seen[s.Code] {
					continue
				}
				seen[s.Code] = true
				scenarios = append(scenarios, newEntry(EntryScenario, s.Code, s.Name, image))
			}
			campaigns = append(campaigns, newEntry(EntryCampaign, campaign.Code, campaign.Name, campaignImage))
		}
		if want(EntryScenario) {
			out = append(out, scenarios...)
		}
		if want(EntryCampaign) {
			out = append(out, campaigns...)
		}
	}
	if want(EntryPack) {
		seen := make(map[string]bool)
		for _, card := range c.cards {
			if card.PackCode == "" || seen[card.PackCode] {
				continue
			}
			seen[card.PackCode] = true
			out = append(out, newEntry(EntryPack, card.PackCode, card.PackName, c.packImage(card.PackCode)))
		}
	}
	if want(EntryTrait) {
		for _, opt := range c.index.Options().Traits {
			out = append(out, newEntry(EntryTrait, opt.Value, opt.Label, c.traitImage(opt.Value)))
		}
	}
	return out
}

func cardBody(card *cards.Card) string {
	parts := []string{card.RealName, card.Subname, card.Traits, card.Text, card.BackText, card.Flavor, card.BackFlavor}
	return strings.Join(slices.DeleteFunc(parts, func(s string) bool { return s == "" }), "\n")
}

func (c *Catalog) scenarioImage(s hierarchy.Scenario) string {
	for _, ec := range s.EncounterCodes {
		if set, ok := c.index.EncounterSet(ec); ok && set.ImageURL != "" {
			return set.ImageURL
		}
	}
	return ""
}

// packImage prefers a scenario card of the pack.
func (c *Catalog) packImage(pack string) string {
	fallback := ""
	for _, card := range c.cards {
		if card.PackCode != pack || card.ImageURL == "" {
			continue
		}
		if card.TypeCode == "scenario" {
			return card.ImageURL
		}
		if fallback == "" {
			fallback = card.ImageURL
		}
	}
	return fallback
}

func (c *Catalog) traitImage(trait string) string {
	for _, card := range c.cards {
		if card.ImageURL != "" && slices.Contains(card.TraitList(), trait) {
			return card.ImageURL
		}
	}
	return ""
}
