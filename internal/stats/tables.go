package stats

import (
	"slices"
	"strconv"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
)

// VariableKey is the column holding variable values.
const VariableKey = "?"

// Distribution is the weighted histogram of one stat.
type Distribution struct {
	Buckets  map[int]int `json:"buckets"`
	Variable int         `json:"variable"`
}

// StatDistribution builds the histogram of a stat over the cards the rule
// applies to. Clue and victory rows never count "?" values.
func StatDistribution(cs []*cards.Card, rule cards.StatRule, mode CountMode) Distribution {
	d := Distribution{Buckets: make(map[int]int)}
	for _, c := range cs {
		if !rule.Applies(c) {
			continue
		}
		w := mode.Weight(c)
		if rule.Variable(c) {
			if rule.TalliesVariable() {
				d.Variable += w
			}
			continue
		}
		if v, ok := rule.Value(c); ok {
			d.Buckets[v] += w
		}
	}
	return d
}

// Row is one stat of a table. Cells holds a count for every table key.
type Row struct {
	Name  string         `json:"name"`
	Stat  cards.StatName `json:"stat"`
	Cells map[string]int `json:"cells"`
}

// Max returns the row's largest cell.
func (r Row) Max() int {
	m := 0
	for _, v := range r.Cells {
		m = max(m, v)
	}
	return m
}

// Intensity returns a cell's share of the row's largest cell, in [0, 1].
func (r Row) Intensity(key string) float64 {
	m := r.Max()
	if m == 0 {
		return 0
	}
	return float64(r.Cells[key]) / float64(m)
}

// Table is a dense stat × value matrix.
type Table struct {
	Keys []string `json:"keys"`
	Rows []Row    `json:"rows"`
}

// IsEmpty reports whether the table has no rows.
func (t Table) IsEmpty() bool { return len(t.Rows) == 0 }

// Row returns the row of a stat.
func (t Table) Row(stat cards.StatName) (Row, bool) {
	for _, r := range t.Rows {
		if r.Stat == stat {
			return r, true
		}
	}
	return Row{}, false
}

type rowDef struct {
	name string
	stat cards.StatName
}

var enemyRows = []rowDef{
	{"Health", cards.Health},
	{"Fight", cards.Fight},
	{"Evade", cards.Evade},
	{"Damage", cards.Damage},
	{"Horror", cards.Horror},
	{"Victory", cards.EnemyVictory},
}

var locationRows = []rowDef{
	{"Shroud", cards.Shroud},
	{"Clues", cards.Clues},
	{"Clues_pp", cards.CluesPerInvestigator},
	{"Victory", cards.LocationVictory},
}

// BuildEnemyTable tabulates health, fight, evade, damage, horror and
// victory over the enemies among the cards.
func BuildEnemyTable(cs []*cards.Card, mode CountMode) Table {
	return buildTable(cs, cards.TypeEnemy, enemyRows, mode)
}

// BuildLocationTable tabulates shroud, fixed clues, per-investigator clues
// and victory over the locations among the cards.
func BuildLocationTable(cs []*cards.Card, mode CountMode) Table {
	return buildTable(cs, cards.TypeLocation, locationRows, mode)
}

func buildTable(cs []*cards.Card, typeCode string, defs []rowDef, mode CountMode) Table {
	members := make([]*cards.Card, 0, len(cs))
	for _, c := range cs {
		if c.TypeCode == typeCode {
			members = append(members, c)
		}
	}
	if len(members) == 0 {
		return Table{Keys: []string{}, Rows: []Row{}}
	}

	dists := make([]Distribution, len(defs))
	values := make(map[int]bool)
	hasVariable := false
	for i, def := range defs {
		rule, _ := cards.Rule(def.stat)
		dists[i] = StatDistribution(members, rule, mode)
		for v := range dists[i].Buckets {
			values[v] = true
		}
		if dists[i].Variable > 0 {
			hasVariable = true
		}
	}

	sorted := make([]int, 0, len(values))
	for v := range values {
		sorted = append(sorted, v)
	}
	slices.Sort(sorted)

	keys := make([]string, 0, len(sorted)+1)
	if hasVariable {
		keys = append(keys, VariableKey)
	}
	for _, v := range sorted {
		keys = append(keys, strconv.Itoa(v))
	}

	rows := make([]Row, 0, len(defs))
	for i, def := range defs {
		cells := make(map[string]int, len(keys))
		for _, v := range sorted {
			cells[strconv.Itoa(v)] = dists[i].Buckets[v]
		}
		if hasVariable {
			cells[VariableKey] = dists[i].Variable
		}
		rows = append(rows, Row{Name: def.name, Stat: def.stat, Cells: cells})
	}
	return Table{Keys: keys, Rows: rows}
}

// Summary is everything the statistics view shows for a card list.
type Summary struct {
	Mode       CountMode `json:"mode"`
	CardCount  int       `json:"cardCount"`
	Types      []Entry   `json:"types"`
	Encounters []Entry   `json:"encounters"`
	Traits     []Entry   `json:"traits"`
	Enemies    Table     `json:"enemies"`
	Locations  Table     `json:"locations"`
}

// Summarize aggregates a card list under a count mode.
func Summarize(cs []*cards.Card, mode CountMode) Summary {
	total := 0
	for _, c := range cs {
		total += mode.Weight(c)
	}
	return Summary{
		Mode:       mode,
		CardCount:  total,
		Types:      CountBy(cs, ByTypeName, mode),
		Encounters: CountBy(cs, ByEncounterName, mode),
		Traits:     CountTraits(cs, mode),
		Enemies:    BuildEnemyTable(cs, mode),
		Locations:  BuildLocationTable(cs, mode),
	}
}
