package browse

import (
	"strconv"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
)

// VariableThreshold selects cards whose stat is variable.
const VariableThreshold = "?"

// FilterCards returns the encounter cards matching a selection, in corpus
// order. Values within a facet are ORed and facets are ANDed. Every stat
// threshold must hold and restricts the result to the stat's card type.
// Unknown stat names are ignored.
func FilterCards(cs []*cards.Card, meta MetaIndex, f Filters, stats StatFilters) []*cards.Card {
	sc := newScope(f.Campaigns, f.Scenarios, f.Encounters)
	traits := setOf(f.Traits)
	types := setOf(f.Types)
	matchers := statMatchers(stats)

	out := make([]*cards.Card, 0)
	for _, c := range cs {
		if !c.HasEncounter() {
			continue
		}
		m, ok := meta[c.Code]
		if !ok || !sc.admits(m) {
			continue
		}
		if len(traits) > 0 && !traits.hasAny(m.Traits) {
			continue
		}
		if len(types) > 0 && !types.has(c.TypeCode) {
			continue
		}
		if !matchAll(matchers, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

type statMatcher func(*cards.Card) bool

func statMatchers(stats StatFilters) []statMatcher {
	out := make([]statMatcher, 0, len(stats))
	for name, threshold := range stats {
		rule, ok := cards.Rule(name)
		if !ok {
			continue
		}
		out = append(out, MatchStat(rule, threshold))
	}
	return out
}

func matchAll(matchers []statMatcher, c *cards.Card) bool {
	for _, m := range matchers {
		if !m(c) {
			return false
		}
	}
	return true
}

// MatchStat returns the predicate for a single stat threshold. "?" matches
// variable values (for victory, also missing ones); an integer matches cards in that numeric bucket; any
// other threshold matches nothing.
func MatchStat(rule cards.StatRule, threshold string) func(*cards.Card) bool {
	if threshold == VariableThreshold {
		return rule.MatchesVariable
	}
	n, err := strconv.Atoi(threshold)
	if err != nil {
		return func(*cards.Card) bool { return false }
	}
	return func(c *cards.Card) bool {
		if !rule.Applies(c) {
			return false
		}
		v, ok := rule.Value(c)
		return ok && v == n
	}
}
