package browse

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
)

// Facet query parameters.
const (
	ParamCampaign  = "campaign"
	ParamScenario  = "scenario"
	ParamEncounter = "encounter"
	ParamTrait     = "trait"
	ParamType      = "type"
	ParamView      = "view"
)

// State is everything a browser query string carries.
type State struct {
	Filters Filters     `json:"filters"`
	View    ViewMode    `json:"view"`
	Stats   StatFilters `json:"stats"`
}

func parseQuery(query string) url.Values {
	// Malformed pairs are skipped; ParseQuery keeps the rest.
	values, _ := url.ParseQuery(strings.TrimPrefix(query, "?"))
	return values
}

// ParseURL resolves the facet parameters of a query string against the
// option lists. Unknown values are dropped; the query's order is kept.
func ParseURL(query string, opts FilterOptions) Filters {
	params := parseQuery(query)

	scenarios := make([]Option, 0, len(opts.Scenarios))
	for _, s := range opts.Scenarios {
		scenarios = append(scenarios, s.Option)
	}

	return Filters{
		Campaigns:  resolve(params.Get(ParamCampaign), opts.Campaigns),
		Scenarios:  resolve(params.Get(ParamScenario), scenarios),
		Encounters: resolve(params.Get(ParamEncounter), opts.Encounters),
		Traits:     resolve(params.Get(ParamTrait), opts.Traits),
		Types:      resolve(params.Get(ParamType), opts.Types),
	}
}

func resolve(raw string, options []Option) []Option {
	out := []Option{}
	if raw == "" {
		return out
	}
	byValue := make(map[string]Option, len(options))
	for _, o := range options {
		byValue[o.Value] = o
	}
	seen := make(map[string]bool)
	for _, v := range strings.Split(raw, ",") {
		o, ok := byValue[v]
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, o)
	}
	return out
}

// ParseStatFilters reads the stat threshold parameters of a query string.
func ParseStatFilters(query string) StatFilters {
	params := parseQuery(query)
	out := make(StatFilters)
	for _, rule := range cards.Rules() {
		if !params.Has(rule.Param) {
			continue
		}
		out[rule.Name] = params.Get(rule.Param)
	}
	return out
}

// ParseViewMode reads the view flag of a query string.
func ParseViewMode(query string) ViewMode {
	if parseQuery(query).Get(ParamView) == string(ViewStats) {
		return ViewStats
	}
	return ViewCards
}

// ParseState reads a whole browser state from a query string.
func ParseState(query string, opts FilterOptions) State {
	return State{
		Filters: ParseURL(query, opts),
		View:    ParseViewMode(query),
		Stats:   ParseStatFilters(query),
	}
}

// ToURL renders a browser state as a query string starting with "?".
// An empty state renders as pathname.
func ToURL(f Filters, view ViewMode, stats StatFilters, pathname string) string {
	params := url.Values{}
	setList(params, ParamCampaign, f.Campaigns)
	setList(params, ParamScenario, f.Scenarios)
	setList(params, ParamEncounter, f.Encounters)
	setList(params, ParamTrait, f.Traits)
	setList(params, ParamType, f.Types)
	if view == ViewStats {
		params.Set(ParamView, string(ViewStats))
	}
	for name, value := range stats {
		if rule, ok := cards.Rule(name); ok {
			params.Set(rule.Param, value)
		}
	}

	encoded := params.Encode()
	if encoded == "" {
		return pathname
	}
	return "?" + encoded
}

// URL renders the state with ToURL.
func (s State) URL(pathname string) string {
	return ToURL(s.Filters, s.View, s.Stats, pathname)
}

func setList(params url.Values, key string, selected []Option) {
	if len(selected) == 0 {
		return
	}
	values := make([]string, 0, len(selected))
	for _, o := range selected {
		values = append(values, o.Value)
	}
	params.Set(key, strings.Join(values, ","))
}

// StatChipLabel is the short text describing an active stat threshold.
func StatChipLabel(name cards.StatName, value string) string {
	switch name {
	case cards.CluesPerInvestigator:
		return fmt.Sprintf("clues/inv = %s", value)
	case cards.EnemyVictory:
		return fmt.Sprintf("enemy victory = %s", value)
	case cards.LocationVictory:
		return fmt.Sprintf("location victory = %s", value)
	default:
		return fmt.Sprintf("%s = %s", strings.ToLower(string(name)), value)
	}
}
