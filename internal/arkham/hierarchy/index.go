package hierarchy

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
)

// Index is the read-only product of resolving a corpus against the
// campaign hierarchy. Scenarios live in an arena addressed by position;
// encounter sets point into it by id.
type Index struct {
	campaigns []Campaign
	scenarios []ScenarioRef
	// scenarioCampaign[i] is the campaign index of scenario i.
	scenarioCampaign []int
	// encounterScenarios maps an encounter code to scenario ids in
	// hierarchy order.
	encounterScenarios map[string][]int
	campaignByCode     map[string]int
	scenarioByCode     map[string]int

	meta          MetaIndex
	options       FilterOptions
	encounterSets []EncounterSet
	encounterSet  map[string]int
}

// Build resolves every encounter-bearing card of the corpus to the
// campaigns and scenarios that use its encounter set, and derives the
// facet option lists.
func Build(corpus *cards.Corpus, campaigns []Campaign) *Index {
	idx := &Index{
		campaigns:          campaigns,
		encounterScenarios: make(map[string][]int),
		campaignByCode:     make(map[string]int, len(campaigns)),
		scenarioByCode:     make(map[string]int),
		meta:               make(MetaIndex),
		encounterSet:       make(map[string]int),
	}

	for ci, campaign := range campaigns {
		if _, ok := idx.campaignByCode[campaign.Code]; !ok {
			idx.campaignByCode[campaign.Code] = ci
		}
		for pos, scenario := range campaign.Scenarios {
			id := len(idx.scenarios)
			idx.scenarios = append(idx.scenarios, ScenarioRef{
				Scenario:     scenario,
				CampaignCode: campaign.Code,
				CampaignName: campaign.Name,
				Position:     pos,
			})
			idx.scenarioCampaign = append(idx.scenarioCampaign, ci)
			if _, ok := idx.scenarioByCode[scenario.Code]; !ok {
				idx.scenarioByCode[scenario.Code] = id
			}
			for _, ec := range scenario.EncounterCodes {
				ids := idx.encounterScenarios[ec]
				if !slices.Contains(ids, id) {
					idx.encounterScenarios[ec] = append(ids, id)
				}
			}
		}
	}

	for _, code := range corpus.EncounterCodes() {
		members := corpus.ByEncounter(code)
		set := EncounterSet{Code: code, Name: members[0].EncounterName, CardCount: len(members)}
		for _, c := range members {
			if c.ImageURL != "" {
				set.ImageURL = c.ImageURL
				break
			}
		}
		idx.encounterSet[code] = len(idx.encounterSets)
		idx.encounterSets = append(idx.encounterSets, set)
	}

	for _, card := range corpus.Cards() {
		if !card.HasEncounter() {
			continue
		}
		idx.meta[card.Code] = idx.resolve(card)
	}

	idx.options = idx.buildOptions(corpus)
	return idx
}

func (idx *Index) resolve(card *cards.Card) CardMeta {
	ids := idx.encounterScenarios[card.EncounterCode]
	meta := CardMeta{
		CampaignCodes: make([]string, 0, len(ids)),
		ScenarioCodes: make([]string, 0, len(ids)),
		EncounterCode: card.EncounterCode,
		Traits:        card.TraitList(),
	}
	for _, id := range ids {
		sc := idx.scenarios[id].Code
		if !slices.Contains(meta.ScenarioCodes, sc) {
			meta.ScenarioCodes = append(meta.ScenarioCodes, sc)
		}
		cc := idx.campaigns[idx.scenarioCampaign[id]].Code
		if !slices.Contains(meta.CampaignCodes, cc) {
			meta.CampaignCodes = append(meta.CampaignCodes, cc)
		}
	}
	return meta
}

func (idx *Index) buildOptions(corpus *cards.Corpus) FilterOptions {
	opts := FilterOptions{
		Campaigns:  []Option{},
		Scenarios:  []ScenarioOption{},
		Encounters: []Option{},
		Traits:     []Option{},
		Types:      []Option{},
	}

	// Scenarios and campaigns are offered only when at least one card
	// can be reached through them.
	seenScenario := make(map[string]bool)
	reachableCampaign := make(map[string]bool)
	for _, ref := range idx.scenarios {
		if seenScenario[ref.Code] {
			continue
		}
		reachable := false
		for _, ec := range ref.EncounterCodes {
			if _, ok := idx.encounterSet[ec]; ok {
				reachable = true
				break
			}
		}
		if !reachable {
			continue
		}
		seenScenario[ref.Code] = true
		reachableCampaign[ref.CampaignCode] = true
		opts.Scenarios = append(opts.Scenarios, ScenarioOption{
			Option:         Option{Label: ref.Name, Value: ref.Code},
			CampaignCode:   ref.CampaignCode,
			EncounterCodes: slices.Clone(ref.EncounterCodes),
		})
	}
	seenCampaign := make(map[string]bool)
	for _, c := range idx.campaigns {
		if reachableCampaign[c.Code] && !seenCampaign[c.Code] {
			seenCampaign[c.Code] = true
			opts.Campaigns = append(opts.Campaigns, Option{Label: c.Name, Value: c.Code})
		}
	}

	for _, set := range idx.encounterSets {
		label := set.Name
		if label == "" {
			label = set.Code
		}
		opts.Encounters = append(opts.Encounters, Option{Label: label, Value: set.Code})
	}

	seenTrait := make(map[string]bool)
	seenType := make(map[string]bool)
	for _, card := range corpus.Cards() {
		meta, ok := idx.meta[card.Code]
		if !ok {
			continue
		}
		for _, t := range meta.Traits {
			if !seenTrait[t] {
				seenTrait[t] = true
				opts.Traits = append(opts.Traits, Option{Label: t, Value: t})
			}
		}
		if !seenType[card.TypeCode] {
			seenType[card.TypeCode] = true
			label := card.TypeName
			if label == "" {
				label = card.TypeCode
			}
			opts.Types = append(opts.Types, Option{Label: label, Value: card.TypeCode})
		}
	}

	sortByLabel(opts.Encounters)
	sortByLabel(opts.Traits)
	sortByLabel(opts.Types)
	return opts
}

func sortByLabel(options []Option) {
	col := collate.New(language.English, collate.Loose, collate.Numeric)
	slices.SortStableFunc(options, func(a, b Option) int {
		return col.CompareString(a.Label, b.Label)
	})
}

// Meta returns the CardMeta of every encounter-bearing card.
func (idx *Index) Meta() MetaIndex { return idx.meta }

// CardMeta returns the CardMeta of a single card.
func (idx *Index) CardMeta(code string) (CardMeta, bool) {
	m, ok := idx.meta[code]
	return m, ok
}

// Options returns the unconstrained facet option lists.
func (idx *Index) Options() FilterOptions { return idx.options }

// Campaigns returns the hierarchy in its configured order.
func (idx *Index) Campaigns() []Campaign { return idx.campaigns }

// Campaign looks up a campaign by code.
func (idx *Index) Campaign(code string) (Campaign, bool) {
	i, ok := idx.campaignByCode[code]
	if !ok {
		return Campaign{}, false
	}
	return idx.campaigns[i], true
}

// Scenario looks up a scenario by code.
func (idx *Index) Scenario(code string) (ScenarioRef, bool) {
	id, ok := idx.scenarioByCode[code]
	if !ok {
		return ScenarioRef{}, false
	}
	return idx.scenarios[id], true
}

// ScenariosForEncounter returns every scenario using an encounter set.
func (idx *Index) ScenariosForEncounter(code string) []ScenarioRef {
	ids := idx.encounterScenarios[code]
	out := make([]ScenarioRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, idx.scenarios[id])
	}
	return out
}

// EncounterSets returns the encounter sets of the corpus in first-seen order.
func (idx *Index) EncounterSets() []EncounterSet { return idx.encounterSets }

// EncounterSet looks up an encounter set by code.
func (idx *Index) EncounterSet(code string) (EncounterSet, bool) {
	i, ok := idx.encounterSet[code]
	if !ok {
		return EncounterSet{}, false
	}
	return idx.encounterSets[i], true
}
