package browse

import (
	"slices"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/hierarchy"
)

// ScenarioOptions returns the scenarios offered under a campaign selection.
func ScenarioOptions(selectedCampaigns []Option, all []ScenarioOption) []ScenarioOption {
	if len(selectedCampaigns) == 0 {
		return slices.Clone(all)
	}
	codes := setOf(selectedCampaigns)
	out := make([]ScenarioOption, 0, len(all))
	for _, s := range all {
		if codes.has(s.CampaignCode) {
			out = append(out, s)
		}
	}
	return out
}

// ActiveScenarios returns the scenarios a selection narrows the encounter
// facet to: the selected scenarios if any, otherwise every scenario of the
// selected campaigns. The boolean is false when neither facet has a
// selection and the encounter facet is unconstrained.
func ActiveScenarios(selectedCampaigns, selectedScenarios []Option, all []ScenarioOption) ([]ScenarioOption, bool) {
	switch {
	case len(selectedScenarios) > 0:
		codes := setOf(selectedScenarios)
		out := make([]ScenarioOption, 0, len(selectedScenarios))
		for _, s := range all {
			if codes.has(s.Value) {
				out = append(out, s)
			}
		}
		return out, true
	case len(selectedCampaigns) > 0:
		return ScenarioOptions(selectedCampaigns, all), true
	default:
		return nil, false
	}
}

// ValidEncounterCodes returns the union of the encounter codes of the
// given scenarios.
func ValidEncounterCodes(active []ScenarioOption) map[string]bool {
	codes := make(map[string]bool)
	for _, s := range active {
		for _, ec := range s.EncounterCodes {
			codes[ec] = true
		}
	}
	return codes
}

// EncounterOptions returns the encounter sets offered under a campaign and
// scenario selection.
func EncounterOptions(selectedCampaigns, selectedScenarios []Option, allScenarios []ScenarioOption, allEncounters []Option) []Option {
	active, constrained := ActiveScenarios(selectedCampaigns, selectedScenarios, allScenarios)
	if !constrained {
		return slices.Clone(allEncounters)
	}
	return keepValues(allEncounters, ValidEncounterCodes(active))
}

// ValidTraits returns the traits of the cards admitted by the hierarchy
// part of a selection. The boolean is false when that part is empty.
func ValidTraits(campaigns, scenarios, encounters []Option, cs []*cards.Card, meta MetaIndex) (map[string]bool, bool) {
	sc := newScope(campaigns, scenarios, encounters)
	if sc.unconstrained() {
		return nil, false
	}
	traits := make(map[string]bool)
	sc.each(cs, meta, func(_ *cards.Card, m hierarchy.CardMeta) {
		for _, t := range m.Traits {
			traits[t] = true
		}
	})
	return traits, true
}

// TraitOptions returns the traits offered under a selection.
func TraitOptions(f Filters, cs []*cards.Card, meta MetaIndex, allTraits []Option) []Option {
	valid, constrained := ValidTraits(f.Campaigns, f.Scenarios, f.Encounters, cs, meta)
	if !constrained {
		return slices.Clone(allTraits)
	}
	return keepValues(allTraits, valid)
}

// TypeOptions returns the card types offered under a selection.
func TypeOptions(f Filters, cs []*cards.Card, meta MetaIndex, allTypes []Option) []Option {
	sc := newScope(f.Campaigns, f.Scenarios, f.Encounters)
	if sc.unconstrained() {
		return slices.Clone(allTypes)
	}
	available := make(map[string]bool)
	sc.each(cs, meta, func(c *cards.Card, _ hierarchy.CardMeta) {
		available[c.TypeCode] = true
	})
	return keepValues(allTypes, available)
}

func keepValues(options []Option, valid map[string]bool) []Option {
	out := make([]Option, 0, len(options))
	for _, o := range options {
		if valid[o.Value] {
			out = append(out, o)
		}
	}
	return out
}

// Offered holds the option lists shown for a selection.
type Offered struct {
	Campaigns  []Option         `json:"campaigns"`
	Scenarios  []ScenarioOption `json:"scenarios"`
	Encounters []Option         `json:"encounters"`
	Traits     []Option         `json:"traits"`
	Types      []Option         `json:"types"`
}

// Offer computes every facet's option list for a selection.
func Offer(f Filters, opts FilterOptions, cs []*cards.Card, meta MetaIndex) Offered {
	return Offered{
		Campaigns:  slices.Clone(opts.Campaigns),
		Scenarios:  ScenarioOptions(f.Campaigns, opts.Scenarios),
		Encounters: EncounterOptions(f.Campaigns, f.Scenarios, opts.Scenarios, opts.Encounters),
		Traits:     TraitOptions(f, cs, meta, opts.Traits),
		Types:      TypeOptions(f, cs, meta, opts.Types),
	}
}

// pruneTraits drops trait selections no admitted card carries.
func pruneTraits(traits, campaigns, scenarios, encounters []Option, cs []*cards.Card, meta MetaIndex) []Option {
	valid, constrained := ValidTraits(campaigns, scenarios, encounters, cs, meta)
	if !constrained {
		return slices.Clone(traits)
	}
	return keepValues(traits, valid)
}

func pruneEncounters(encounters, campaigns, scenarios []Option, all []ScenarioOption) []Option {
	active, constrained := ActiveScenarios(campaigns, scenarios, all)
	if !constrained {
		return slices.Clone(encounters)
	}
	return keepValues(encounters, ValidEncounterCodes(active))
}

// CascadeCampaignChange applies a new campaign selection and drops the
// scenario, encounter and trait selections it makes unreachable. The type
// selection is kept as is.
func CascadeCampaignChange(next []Option, current Filters, opts FilterOptions, cs []*cards.Card, meta MetaIndex) Filters {
	scenarios := slices.Clone(current.Scenarios)
	if len(next) > 0 {
		codes := setOf(next)
		scenarios = make([]Option, 0, len(current.Scenarios))
		for _, s := range current.Scenarios {
			if opt, ok := opts.FindScenario(s.Value); ok && codes.has(opt.CampaignCode) {
				scenarios = append(scenarios, s)
			}
		}
	}
	encounters := pruneEncounters(current.Encounters, next, scenarios, opts.Scenarios)
	traits := pruneTraits(current.Traits, next, scenarios, encounters, cs, meta)

	return Filters{
		Campaigns:  slices.Clone(next),
		Scenarios:  scenarios,
		Encounters: encounters,
		Traits:     traits,
		Types:      slices.Clone(current.Types),
	}
}

// CascadeScenarioChange applies a new scenario selection and drops the
// encounter and trait selections it makes unreachable.
func CascadeScenarioChange(next []Option, current Filters, opts FilterOptions, cs []*cards.Card, meta MetaIndex) Filters {
	encounters := pruneEncounters(current.Encounters, current.Campaigns, next, opts.Scenarios)
	traits := pruneTraits(current.Traits, current.Campaigns, next, encounters, cs, meta)

	return Filters{
		Campaigns:  slices.Clone(current.Campaigns),
		Scenarios:  slices.Clone(next),
		Encounters: encounters,
		Traits:     traits,
		Types:      slices.Clone(current.Types),
	}
}

// CascadeEncounterChange applies a new encounter selection and drops the
// trait selections it makes unreachable.
func CascadeEncounterChange(next []Option, current Filters, cs []*cards.Card, meta MetaIndex) Filters {
	return Filters{
		Campaigns:  slices.Clone(current.Campaigns),
		Scenarios:  slices.Clone(current.Scenarios),
		Encounters: slices.Clone(next),
		Traits:     pruneTraits(current.Traits, current.Campaigns, current.Scenarios, next, cs, meta),
		Types:      slices.Clone(current.Types),
	}
}
