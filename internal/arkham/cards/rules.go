package cards

// StatName identifies a filterable stat. The two victory names read the
// same field but belong to different card types.
type StatName string

const (
	Health               StatName = "Health"
	Fight                StatName = "Fight"
	Evade                StatName = "Evade"
	Damage               StatName = "Damage"
	Horror               StatName = "Horror"
	EnemyVictory         StatName = "EnemyVictory"
	Shroud               StatName = "Shroud"
	Clues                StatName = "Clues"
	CluesPerInvestigator StatName = "Clues_pp"
	LocationVictory      StatName = "LocationVictory"
)

// StatRule classifies one stat of one card type: which bucket a card's
// value falls into and when the value counts as variable. The filter
// evaluator and the aggregation engine both read these rules.
type StatRule struct {
	Name StatName
	// TypeCode is the card type the stat applies to.
	TypeCode string
	// Param is the query parameter carrying a threshold for the stat.
	Param string
	// Label is the short display name.
	Label string

	get      func(*Card) Stat
	inSubset func(*Card) bool
	variable func(*Card) bool
	// wildcard selects cards for a "?" threshold when it differs from
	// variable.
	wildcard func(*Card) bool
	// untallied rows have no "?" count in the stat tables.
	untallied bool
	absentAs  *int
}

// Applies reports whether the card has the rule's type and belongs to the
// rule's subset (clue rules split locations in two).
func (r StatRule) Applies(c *Card) bool {
	if c.TypeCode != r.TypeCode {
		return false
	}
	return r.inSubset == nil || r.inSubset(c)
}

// Variable reports whether the card's value counts as "?".
func (r StatRule) Variable(c *Card) bool { return r.variable(c) }

// MatchesVariable reports whether the card satisfies a "?" threshold. The
// subset of split rules is ignored, so a clue "?" selects every location
// whose clues are not fixed.
func (r StatRule) MatchesVariable(c *Card) bool {
	if c.TypeCode != r.TypeCode {
		return false
	}
	if r.wildcard != nil {
		return r.wildcard(c)
	}
	return r.variable(c)
}

// TalliesVariable reports whether the stat's histogram counts "?" values.
func (r StatRule) TalliesVariable() bool { return !r.untallied }

// Value returns the numeric bucket of the card's value, if it has one.
func (r StatRule) Value(c *Card) (int, bool) {
	if r.Variable(c) {
		return 0, false
	}
	s := r.get(c)
	switch s.Kind {
	case Fixed:
		return s.Value, true
	case Absent:
		if r.absentAs != nil {
			return *r.absentAs, true
		}
	}
	return 0, false
}

// Stat returns the raw tagged value the rule reads.
func (r StatRule) Stat(c *Card) Stat { return r.get(c) }

var zero = 0

func notFixed(get func(*Card) Stat) func(*Card) bool {
	return func(c *Card) bool { return !get(c).IsFixed() }
}

func negative(get func(*Card) Stat) func(*Card) bool {
	return func(c *Card) bool { return get(c).IsVariable() }
}

func health(c *Card) Stat  { return c.Health }
func fight(c *Card) Stat   { return c.Fight }
func evade(c *Card) Stat   { return c.Evade }
func damage(c *Card) Stat  { return c.Damage }
func horror(c *Card) Stat  { return c.Horror }
func shroud(c *Card) Stat  { return c.Shroud }
func clues(c *Card) Stat   { return c.Clues }
func victory(c *Card) Stat { return c.Victory }

func fixedClues(c *Card) bool {
	if c.CluesFixed {
		return true
	}
	n, ok := c.Clues.Int()
	return ok && n == 0
}

func perInvestigatorClues(c *Card) bool {
	n, ok := c.Clues.Int()
	return !c.CluesFixed && ok && n > 0
}

var statRules = []StatRule{
	{
		Name: Health, TypeCode: TypeEnemy, Param: "health", Label: "Health",
		get: health,
		variable: func(c *Card) bool {
			return !c.Health.IsFixed() || c.HealthPerInvestigator
		},
	},
	{Name: Fight, TypeCode: TypeEnemy, Param: "fight", Label: "Fight", get: fight, variable: notFixed(fight)},
	{Name: Evade, TypeCode: TypeEnemy, Param: "evade", Label: "Evade", get: evade, variable: notFixed(evade)},
	{Name: Damage, TypeCode: TypeEnemy, Param: "damage", Label: "Damage", get: damage, variable: negative(damage)},
	{Name: Horror, TypeCode: TypeEnemy, Param: "horror", Label: "Horror", get: horror, variable: negative(horror)},
	{
		Name: EnemyVictory, TypeCode: TypeEnemy, Param: "victory", Label: "Victory",
		get: victory, variable: negative(victory), wildcard: notFixed(victory), untallied: true, absentAs: &zero,
	},
	{Name: Shroud, TypeCode: TypeLocation, Param: "shroud", Label: "Shroud", get: shroud, variable: notFixed(shroud)},
	{
		Name: Clues, TypeCode: TypeLocation, Param: "clues", Label: "Clues",
		get: clues, variable: notFixed(clues), inSubset: fixedClues, untallied: true,
	},
	{
		Name: CluesPerInvestigator, TypeCode: TypeLocation, Param: "clues_pp", Label: "Clues per investigator",
		get: clues, variable: notFixed(clues), inSubset: perInvestigatorClues, untallied: true,
	},
	{
		Name: LocationVictory, TypeCode: TypeLocation, Param: "loc_victory", Label: "Victory",
		get: victory, variable: negative(victory), wildcard: notFixed(victory), untallied: true, absentAs: &zero,
	},
}

var rulesByName = func() map[StatName]StatRule {
	m := make(map[StatName]StatRule, len(statRules))
	for _, r := range statRules {
		m[r.Name] = r
	}
	return m
}()

// Rule returns the rule for a stat name.
func Rule(name StatName) (StatRule, bool) {
	r, ok := rulesByName[name]
	return r, ok
}

// Rules returns every stat rule, enemy stats first.
func Rules() []StatRule {
	out := make([]StatRule, len(statRules))
	copy(out, statRules)
	return out
}
