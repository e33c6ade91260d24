package export

import (
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
)

// CardRow is one card flattened for spreadsheets. Stats print as on the
// card: a number, "?" or blank.
type CardRow struct {
	Code      string `csv:"code" json:"code"`
	Name      string `csv:"name" json:"name"`
	Type      string `csv:"type" json:"type"`
	Encounter string `csv:"encounter" json:"encounter,omitempty"`
	Pack      string `csv:"pack" json:"pack,omitempty"`
	Traits    string `csv:"traits" json:"traits,omitempty"`
	Quantity  int    `csv:"quantity" json:"quantity"`
	Health    string `csv:"health" json:"health,omitempty"`
	Fight     string `csv:"fight" json:"fight,omitempty"`
	Evade     string `csv:"evade" json:"evade,omitempty"`
	Damage    string `csv:"damage" json:"damage,omitempty"`
	Horror    string `csv:"horror" json:"horror,omitempty"`
	Shroud    string `csv:"shroud" json:"shroud,omitempty"`
	Clues     string `csv:"clues" json:"clues,omitempty"`
	Victory   string `csv:"victory" json:"victory,omitempty"`
}

// CardRows flattens a card list in order.
func CardRows(cs []*cards.Card) []CardRow {
	rows := make([]CardRow, 0, len(cs))
	for _, c := range cs {
		health := c.Health.String()
		if health != "" && c.HealthPerInvestigator {
			health += " per investigator"
		}
		clues := c.Clues.String()
		if clues != "" && c.TypeCode == cards.TypeLocation && !c.CluesFixed {
			clues += " per investigator"
		}
		rows = append(rows, CardRow{
			Code:      c.Code,
			Name:      c.Name,
			Type:      c.TypeName,
			Encounter: c.EncounterName,
			Pack:      c.PackName,
			Traits:    c.Traits,
			Quantity:  c.Quantity,
			Health:    health,
			Fight:     c.Fight.String(),
			Evade:     c.Evade.String(),
			Damage:    c.Damage.String(),
			Horror:    c.Horror.String(),
			Shroud:    c.Shroud.String(),
			Clues:     clues,
			Victory:   c.Victory.String(),
		})
	}
	return rows
}
