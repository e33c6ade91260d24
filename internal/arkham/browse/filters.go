// Package browse implements the faceted card browser: option cascading
// between the campaign, scenario, encounter, trait and type facets, card
// filtering and the query-string form of a browser state.
package browse

import (
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/hierarchy"
)

type (
	Option         = hierarchy.Option
	ScenarioOption = hierarchy.ScenarioOption
	FilterOptions  = hierarchy.FilterOptions
	MetaIndex      = hierarchy.MetaIndex
)

// Filters is the current selection of every facet.
type Filters struct {
	Campaigns  []Option `json:"campaigns"`
	Scenarios  []Option `json:"scenarios"`
	Encounters []Option `json:"encounters"`
	Traits     []Option `json:"traits"`
	Types      []Option `json:"types"`
}

// IsEmpty reports whether no facet has a selection.
func (f Filters) IsEmpty() bool {
	return len(f.Campaigns) == 0 && len(f.Scenarios) == 0 && len(f.Encounters) == 0 &&
		len(f.Traits) == 0 && len(f.Types) == 0
}

// StatFilters maps a stat name to its threshold: a decimal integer or "?".
type StatFilters map[cards.StatName]string

// ViewMode selects between the card grid and the statistics view.
type ViewMode string

const (
	ViewCards ViewMode = "cards"
	ViewStats ViewMode = "stats"
)

type valueSet map[string]struct{}

func setOf(options []Option) valueSet {
	s := make(valueSet, len(options))
	for _, o := range options {
		s[o.Value] = struct{}{}
	}
	return s
}

func (s valueSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s valueSet) hasAny(values []string) bool {
	for _, v := range values {
		if s.has(v) {
			return true
		}
	}
	return false
}

// scope is the hierarchy part of a selection; the trait and type facets
// are narrowed by it.
type scope struct {
	campaigns, scenarios, encounters valueSet
}

func newScope(campaigns, scenarios, encounters []Option) scope {
	return scope{campaigns: setOf(campaigns), scenarios: setOf(scenarios), encounters: setOf(encounters)}
}

func (s scope) unconstrained() bool {
	return len(s.campaigns) == 0 && len(s.scenarios) == 0 && len(s.encounters) == 0
}

func (s scope) admits(meta hierarchy.CardMeta) bool {
	if len(s.campaigns) > 0 && !s.campaigns.hasAny(meta.CampaignCodes) {
		return false
	}
	if len(s.scenarios) > 0 && !s.scenarios.hasAny(meta.ScenarioCodes) {
		return false
	}
	if len(s.encounters) > 0 && !s.encounters.has(meta.EncounterCode) {
		return false
	}
	return true
}

// each calls fn for every card with meta that the scope admits.
func (s scope) each(cs []*cards.Card, meta MetaIndex, fn func(*cards.Card, hierarchy.CardMeta)) {
	for _, c := range cs {
		m, ok := meta[c.Code]
		if !ok || !s.admits(m) {
			continue
		}
		fn(c, m)
	}
}
