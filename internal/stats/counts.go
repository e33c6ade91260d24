// Package stats aggregates filtered card lists into the counts,
// distributions and stat tables shown by the statistics view.
package stats

import (
	"fmt"
	"slices"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
)

// CountMode selects how much each card weighs in a count.
type CountMode string

const (
	// Unique counts every distinct card once.
	Unique CountMode = "unique"
	// Total counts every physical copy.
	Total CountMode = "total"
)

// ParseCountMode parses a count mode; the empty string means Total.
func ParseCountMode(s string) (CountMode, error) {
	switch CountMode(s) {
	case "", Total:
		return Total, nil
	case Unique:
		return Unique, nil
	default:
		return "", fmt.Errorf("unknown count mode %q", s)
	}
}

// Weight returns the card's weight under the mode.
func (m CountMode) Weight(c *cards.Card) int {
	if m == Total {
		return c.Quantity
	}
	return 1
}

// Entry is one labelled count.
type Entry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// tally accumulates weights per name and remembers first-seen order so
// that ties sort deterministically.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally { return &tally{counts: make(map[string]int)} }

func (t *tally) add(name string, w int) {
	if _, ok := t.counts[name]; !ok {
		t.order = append(t.order, name)
	}
	t.counts[name] += w
}

func (t *tally) entries() []Entry {
	out := make([]Entry, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, Entry{Name: name, Value: t.counts[name]})
	}
	slices.SortStableFunc(out, func(a, b Entry) int { return b.Value - a.Value })
	return out
}

// CountBy groups cards by key and returns the weighted counts, largest
// first. Cards with an empty key are skipped.
func CountBy(cs []*cards.Card, key func(*cards.Card) string, mode CountMode) []Entry {
	t := newTally()
	for _, c := range cs {
		k := key(c)
		if k == "" {
			continue
		}
		t.add(k, mode.Weight(c))
	}
	return t.entries()
}

// CountTraits counts every trait of every card, largest first.
func CountTraits(cs []*cards.Card, mode CountMode) []Entry {
	t := newTally()
	for _, c := range cs {
		w := mode.Weight(c)
		for _, trait := range c.TraitList() {
			t.add(trait, w)
		}
	}
	return t.entries()
}

// ByTypeName keys cards by their type's display name.
func ByTypeName(c *cards.Card) string { return c.TypeName }

// ByEncounterName keys cards by their encounter set's display name.
func ByEncounterName(c *cards.Card) string { return c.EncounterName }
