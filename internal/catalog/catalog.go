// Package catalog bundles a card corpus with its hierarchy index and
// answers the browser's questions against that snapshot.
package catalog

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/browse"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/hierarchy"
	"github.com/ramonehamilton/otherworld-codex/internal/stats"
)

// ErrNotFound is returned when a code names nothing in the catalog.
var ErrNotFound = errors.New("not found")

// Catalog is an immutable snapshot of the card data.
type Catalog struct {
	corpus  *cards.Corpus
	index   *hierarchy.Index
	cards   []*cards.Card
	BuiltAt time.Time
}

// New indexes a corpus against a campaign hierarchy.
func New(corpus *cards.Corpus, campaigns []hierarchy.Campaign) *Catalog {
	return &Catalog{
		corpus:  corpus,
		index:   hierarchy.Build(corpus, campaigns),
		cards:   corpus.Cards(),
		BuiltAt: time.Now(),
	}
}

// FromRaw builds a catalog from export records.
func FromRaw(raw []cards.RawCard, campaigns []hierarchy.Campaign) (*Catalog, error) {
	corpus, err := cards.BuildCorpus(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to build corpus: %w", err)
	}
	return New(corpus, campaigns), nil
}

// Corpus returns the underlying corpus.
func (c *Catalog) Corpus() *cards.Corpus { return c.corpus }

// Index returns the hierarchy index.
func (c *Catalog) Index() *hierarchy.Index { return c.index }

// Options returns the unconstrained facet options.
func (c *Catalog) Options() hierarchy.FilterOptions { return c.index.Options() }

// State parses a browser query string against this catalog's options.
func (c *Catalog) State(query string) browse.State {
	return browse.ParseState(query, c.index.Options())
}

// Filter returns the cards matching a browser state.
func (c *Catalog) Filter(s browse.State) []*cards.Card {
	return browse.FilterCards(c.cards, c.index.Meta(), s.Filters, s.Stats)
}

// Offer returns the option lists shown for a selection.
func (c *Catalog) Offer(f browse.Filters) browse.Offered {
	return browse.Offer(f, c.index.Options(), c.cards, c.index.Meta())
}

// Summarize aggregates the cards matching a browser state.
func (c *Catalog) Summarize(s browse.State, mode stats.CountMode) stats.Summary {
	return stats.Summarize(c.Filter(s), mode)
}

// Facet names a cascading facet.
type Facet string

const (
	FacetCampaign  Facet = "campaign"
	FacetScenario  Facet = "scenario"
	FacetEncounter Facet = "encounter"
	FacetTrait     Facet = "trait"
	FacetType      Facet = "type"
)

// Change applies a new selection to one facet and cascades it to the
// facets below. Trait and type selections do not cascade.
func (c *Catalog) Change(facet Facet, next []hierarchy.Option, current browse.Filters) (browse.Filters, error) {
	opts := c.index.Options()
	meta := c.index.Meta()
	switch facet {
	case FacetCampaign:
		return browse.CascadeCampaignChange(next, current, opts, c.cards, meta), nil
	case FacetScenario:
		return browse.CascadeScenarioChange(next, current, opts, c.cards, meta), nil
	case FacetEncounter:
		return browse.CascadeEncounterChange(next, current, c.cards, meta), nil
	case FacetTrait:
		current.Traits = next
		return current, nil
	case FacetType:
		current.Types = next
		return current, nil
	default:
		return current, fmt.Errorf("unknown facet %q", facet)
	}
}

// CardDetail is a card with its resolved relations.
type CardDetail struct {
	*cards.Card
	LinkedFrom *cards.Card             `json:"linkedToCard,omitempty"`
	Meta       *hierarchy.CardMeta     `json:"meta,omitempty"`
	Scenarios  []hierarchy.ScenarioRef `json:"scenarios"`
}

// Card returns a card with its back-reference and hierarchy placement.
func (c *Catalog) Card(code string) (CardDetail, error) {
	card, ok := c.corpus.ByCode(code)
	if !ok {
		return CardDetail{}, fmt.Errorf("card %s: %w", code, ErrNotFound)
	}
	detail := CardDetail{Card: card, Scenarios: []hierarchy.ScenarioRef{}}
	if from, ok := c.corpus.LinkedFrom(code); ok {
		detail.LinkedFrom = from
	}
	if meta, ok := c.index.CardMeta(code); ok {
		detail.Meta = &meta
		detail.Scenarios = c.index.ScenariosForEncounter(card.EncounterCode)
	}
	return detail, nil
}

// EncounterDetail is an encounter set with its cards.
type EncounterDetail struct {
	hierarchy.EncounterSet
	Cards     []*cards.Card           `json:"cards"`
	Scenarios []hierarchy.ScenarioRef `json:"scenarios"`
}

// Encounter returns an encounter set with its cards and scenarios.
func (c *Catalog) Encounter(code string) (EncounterDetail, error) {
	set, ok := c.index.EncounterSet(code)
	if !ok {
		return EncounterDetail{}, fmt.Errorf("encounter set %s: %w", code, ErrNotFound)
	}
	return EncounterDetail{
		EncounterSet: set,
		Cards:        c.corpus.ByEncounter(code),
		Scenarios:    c.index.ScenariosForEncounter(code),
	}, nil
}

// ScenarioDetail is a scenario with its encounter sets.
type ScenarioDetail struct {
	hierarchy.ScenarioRef
	EncounterSets []hierarchy.EncounterSet `json:"encounterSets"`
}

// Scenario returns a scenario with the encounter sets it uses that exist in
// the corpus.
func (c *Catalog) Scenario(code string) (ScenarioDetail, error) {
	ref, ok := c.index.Scenario(code)
	if !ok {
		return ScenarioDetail{}, fmt.Errorf("scenario %s: %w", code, ErrNotFound)
	}
	detail := ScenarioDetail{ScenarioRef: ref, EncounterSets: []hierarchy.EncounterSet{}}
	for _, ec := range ref.EncounterCodes {
		if set, ok := c.index.EncounterSet(ec); ok {
			detail.EncounterSets = append(detail.EncounterSets, set)
		}
	}
	return detail, nil
}

// Campaign returns a campaign by code.
func (c *Catalog) Campaign(code string) (hierarchy.Campaign, error) {
	campaign, ok := c.index.Campaign(code)
	if !ok {
		return hierarchy.Campaign{}, fmt.Errorf("campaign %s: %w", code, ErrNotFound)
	}
	return campaign, nil
}

// Holder publishes the current catalog to concurrent readers. A reload
// swaps the whole snapshot at once.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder returns a holder publishing c.
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.Store(c)
	return h
}

// Load returns the current catalog.
func (h *Holder) Load() *Catalog { return h.current.Load() }

// Store publishes a new catalog.
func (h *Holder) Store(c *Catalog) { h.current.Store(c) }
