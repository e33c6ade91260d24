// Package hierarchy resolves each encounter card's place in the
// campaign → scenario → encounter set tree and derives the option lists
// offered by the card browser.
package hierarchy

// Campaign is an ordered group of scenarios.
type Campaign struct {
	Code      string     `json:"campaignCode" yaml:"campaignCode"`
	Name      string     `json:"campaignName" yaml:"campaignName"`
	Scenarios []Scenario `json:"scenarios" yaml:"scenarios"`
}

// Scenario is a playable unit built from encounter sets. An encounter set
// may appear in several scenarios.
type Scenario struct {
	Code           string   `json:"scenarioCode" yaml:"scenarioCode"`
	Name           string   `json:"scenarioName" yaml:"scenarioName"`
	Prefix         string   `json:"scenarioPrefix,omitempty" yaml:"scenarioPrefix,omitempty"`
	EncounterCodes []string `json:"encounterCodes" yaml:"encounterCodes"`
}

// CardMeta is a card's resolved position in the hierarchy.
type CardMeta struct {
	CampaignCodes []string `json:"campaignCodes"`
	ScenarioCodes []string `json:"scenarioCodes"`
	EncounterCode string   `json:"encounterCode"`
	Traits        []string `json:"traits"`
}

// MetaIndex maps card codes to their CardMeta.
type MetaIndex map[string]CardMeta

// Option is a selectable facet value.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ScenarioOption is a scenario facet value with its parent campaign and
// the encounter sets it uses.
type ScenarioOption struct {
	Option
	CampaignCode   string   `json:"campaignCode"`
	EncounterCodes []string `json:"encounterCodes"`
}

// FilterOptions holds the full, unconstrained option list of every facet.
type FilterOptions struct {
	Campaigns  []Option         `json:"campaigns"`
	Scenarios  []ScenarioOption `json:"scenarios"`
	Encounters []Option         `json:"encounters"`
	Traits     []Option         `json:"traits"`
	Types      []Option         `json:"types"`
}

// FindScenario returns the scenario option with the given code.
func (o FilterOptions) FindScenario(code string) (ScenarioOption, bool) {
	for _, s := range o.Scenarios {
		if s.Value == code {
			return s, true
		}
	}
	return ScenarioOption{}, false
}

// EncounterSet summarises one encounter set of the corpus.
type EncounterSet struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl,omitempty"`
	CardCount int    `json:"cardCount"`
}

// ScenarioRef places a scenario inside its campaign.
type ScenarioRef struct {
	Scenario
	CampaignCode string `json:"campaignCode"`
	CampaignName string `json:"campaignName"`
	Position     int    `json:"position"`
}
