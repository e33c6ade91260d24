package browse

import (
	"maps"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
)

// CellStat maps a stat-table cell to the stat it filters on. Both tables
// label their victory row "Victory"; the category tells them apart.
func CellStat(category, row string) (cards.StatName, bool) {
	name := cards.StatName(row)
	if row == "Victory" {
		switch category {
		case cards.TypeEnemy:
			name = cards.EnemyVictory
		case cards.TypeLocation:
			name = cards.LocationVictory
		}
	}
	rule, ok := cards.Rule(name)
	if !ok || rule.TypeCode != category {
		return "", false
	}
	return name, true
}

// SelectCell applies a click on a stat-table cell: the cell's threshold is
// added and the view switches to the card grid. Unknown cells, cells that
// are already active and "?" cells of rows without a "?" count leave the
// state unchanged.
func (s State) SelectCell(category, row, value string) State {
	name, ok := CellStat(category, row)
	if !ok || s.Stats[name] == value {
		return s
	}
	if rule, _ := cards.Rule(name); value == VariableThreshold && !rule.TalliesVariable() {
		return s
	}
	next := s
	next.Stats = maps.Clone(s.Stats)
	if next.Stats == nil {
		next.Stats = make(StatFilters)
	}
	next.Stats[name] = value
	next.View = ViewCards
	return next
}

// ClearStat removes one stat threshold.
func (s State) ClearStat(name cards.StatName) State {
	next := s
	next.Stats = maps.Clone(s.Stats)
	delete(next.Stats, name)
	return next
}
