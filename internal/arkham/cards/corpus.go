package cards

import (
	"fmt"
	"slices"
)

// Corpus is the immutable, ordered set of cards with its lookup indices.
type Corpus struct {
	cards       []*Card
	byCode      map[string]*Card
	byEncounter map[string][]*Card
	encounters  []string
	linkedFrom  map[string]string
}

// BuildCorpus converts export records and indexes them. It stops at the
// first record that violates the export's data contract.
func BuildCorpus(raw []RawCard) (*Corpus, error) {
	cards := make([]*Card, 0, len(raw))
	for i, r := range raw {
		card, err := FromRaw(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		cards = append(cards, card)
	}
	return NewCorpus(cards), nil
}

// NewCorpus indexes already converted cards. When two cards share a code
// the later one wins and takes the earlier one's place in corpus order.
func NewCorpus(cards []*Card) *Corpus {
	c := &Corpus{
		cards:       make([]*Card, 0, len(cards)),
		byCode:      make(map[string]*Card, len(cards)),
		byEncounter: make(map[string][]*Card),
		linkedFrom:  make(map[string]string),
	}

	slot := make(map[string]int, len(cards))
	for _, card := range cards {
		if i, ok := slot[card.Code]; ok {
			c.cards[i] = card
		} else {
			slot[card.Code] = len(c.cards)
			c.cards = append(c.cards, card)
		}
		c.byCode[card.Code] = card
	}

	for _, card := range c.cards {
		if card.EncounterCode != "" {
			if _, ok := c.byEncounter[card.EncounterCode]; !ok {
				c.encounters = append(c.encounters, card.EncounterCode)
			}
			c.byEncounter[card.EncounterCode] = append(c.byEncounter[card.EncounterCode], card)
		}
		if card.LinkedToCode != "" {
			if _, ok := c.byCode[card.LinkedToCode]; ok {
				c.linkedFrom[card.LinkedToCode] = card.Code
			}
		}
	}
	return c
}

// Len returns the number of cards.
func (c *Corpus) Len() int { return len(c.cards) }

// Cards returns the cards in corpus order. The slice is a copy; the cards
// themselves are shared and must not be modified.
func (c *Corpus) Cards() []*Card { return slices.Clone(c.cards) }

// ByCode looks a card up by its code.
func (c *Corpus) ByCode(code string) (*Card, bool) {
	card, ok := c.byCode[code]
	return card, ok
}

// ByEncounter returns the cards of an encounter set in corpus order.
func (c *Corpus) ByEncounter(code string) []*Card {
	return slices.Clone(c.byEncounter[code])
}

// EncounterCodes returns every encounter code in first-seen order.
func (c *Corpus) EncounterCodes() []string { return slices.Clone(c.encounters) }

// EncounterName returns the display name of an encounter set.
func (c *Corpus) EncounterName(code string) (string, bool) {
	list := c.byEncounter[code]
	if len(list) == 0 {
		return "", false
	}
	return list[0].EncounterName, true
}

// LinkedFrom returns the card whose linked-to code names the given card.
func (c *Corpus) LinkedFrom(code string) (*Card, bool) {
	from, ok := c.linkedFrom[code]
	if !ok {
		return nil, false
	}
	return c.ByCode(from)
}
