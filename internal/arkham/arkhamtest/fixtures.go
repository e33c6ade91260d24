// Package arkhamtest provides a small, hand-checked card world for tests.
package arkhamtest

import (
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/hierarchy"
)

// Card codes used by the fixture.
const (
	GhoulPriest     = "01116"
	Study           = "01111"
	Hallway         = "01112"
	Attic           = "01113"
	SwarmOfRats     = "01159"
	GhoulMinion     = "01160"
	RavenousGhoul   = "01161"
	AncientEvils    = "01166"
	WolfManDrew     = "01137"
	HuntingGhaunt   = "01172"
	PredatorOrPrey  = "01121a"
	PredatorBack    = "01121b"
	FacultyOffices  = "02055"
	YithianObserver = "02084"
	TheExperiment   = "02058"
	StrayRat        = "50036"
	RolandBanks     = "01001"
)

func enemy(code, name, encounter, traits string, qty int, health, fight, evade, dmg, horror, victory cards.Stat) *cards.Card {
	return &cards.Card{
		Code: code, Name: name, TypeCode: cards.TypeEnemy, TypeName: "Enemy",
		PackCode: packOf(encounter), PackName: packNameOf(encounter),
		EncounterCode: encounter, EncounterName: encounterNames[encounter],
		Traits: traits, Quantity: qty,
		Health: health, Fight: fight, Evade: evade, Damage: dmg, Horror: horror, Victory: victory,
	}
}

func location(code, name, encounter string, qty int, shroud, clues cards.Stat, fixed bool, victory cards.Stat) *cards.Card {
	return &cards.Card{
		Code: code, Name: name, TypeCode: cards.TypeLocation, TypeName: "Location",
		PackCode: packOf(encounter), PackName: packNameOf(encounter),
		EncounterCode: encounter, EncounterName: encounterNames[encounter],
		Traits: "Miskatonic.", Quantity: qty,
		Shroud: shroud, Clues: clues, CluesFixed: fixed, Victory: victory,
	}
}

var encounterNames = map[string]string{
	"the_gathering":            "The Gathering",
	"rats":                     "Rats",
	"ghouls":                   "Ghouls",
	"ancient_evils":            "Ancient Evils",
	"the_midnight_masks":       "The Midnight Masks",
	"cult_of_umordhoth":        "Cult of Umôrdhoth",
	"nightgaunts":              "Nightgaunts",
	"extracurricular_activity": "Extracurricular Activity",
	"sorcery":                  "Sorcery",
	"return_to_rats":           "Return to Rats",
}

func packOf(encounter string) string {
	switch encounter {
	case "extracurricular_activity", "sorcery":
		return "dwl"
	case "return_to_rats":
		return "rtnotz"
	default:
		return "core"
	}
}

func packNameOf(encounter string) string {
	switch packOf(encounter) {
	case "dwl":
		return "The Dunwich Legacy"
	case "rtnotz":
		return "Return to the Night of the Zealot"
	default:
		return "Core Set"
	}
}

var (
	fx  = cards.FixedStat
	vr  = cards.VariableStat
	abs = cards.AbsentStat
)

// Cards returns a fresh copy of the fixture cards in corpus order.
func Cards() []*cards.Card {
	priest := enemy(GhoulPriest, "Ghoul Priest", "the_gathering", "Humanoid. Monster. Ghoul. Elite.", 1, fx(5), fx(4), fx(4), fx(2), fx(2), fx(2))
	priest.HealthPerInvestigator = true
	priest.IsUnique = true
	priest.ImageURL = cards.ImageBase + "/bundles/cards/01116.png"

	predator := &cards.Card{
		Code: PredatorOrPrey, Name: "Predator or Prey?", TypeCode: "agenda", TypeName: "Agenda",
		PackCode: "core", PackName: "Core Set",
		EncounterCode: "the_midnight_masks", EncounterName: "The Midnight Masks", Quantity: 1,
	}
	predatorBack := &cards.Card{
		Code: PredatorBack, Name: "Time to Feed", TypeCode: "agenda", TypeName: "Agenda",
		PackCode: "core", PackName: "Core Set",
		EncounterCode: "the_midnight_masks", EncounterName: "The Midnight Masks", Quantity: 1,
		LinkedToCode: PredatorOrPrey,
	}

	evils := &cards.Card{
		Code: AncientEvils, Name: "Ancient Evils", TypeCode: "treachery", TypeName: "Treachery",
		PackCode: "core", PackName: "Core Set",
		EncounterCode: "ancient_evils", EncounterName: "Ancient Evils", Traits: "Omen.", Quantity: 3,
	}

	experiment := enemy(TheExperiment, "The Experiment", "extracurricular_activity", "Monster. Abomination. Elite.", 1, abs(), fx(4), fx(2), vr(), abs(), fx(2))

	roland := &cards.Card{
		Code: RolandBanks, Name: "Roland Banks", TypeCode: "investigator", TypeName: "Investigator",
		FactionCode: "guardian", FactionName: "Guardian", PackCode: "core", PackName: "Core Set",
		Quantity: 1, Health: fx(9),
	}

	return []*cards.Card{
		roland,
		priest,
		location(Study, "Study", "the_gathering", 1, fx(2), fx(2), false, abs()),
		location(Hallway, "Hallway", "the_gathering", 1, fx(1), fx(0), false, abs()),
		location(Attic, "Attic", "the_gathering", 1, fx(1), fx(2), false, fx(1)),
		enemy(SwarmOfRats, "Swarm of Rats", "rats", "Creature.", 3, fx(1), fx(1), fx(3), fx(1), fx(0), abs()),
		enemy(GhoulMinion, "Ghoul Minion", "ghouls", "Humanoid. Monster. Ghoul.", 3, fx(2), fx(2), fx(2), fx(1), fx(1), abs()),
		enemy(RavenousGhoul, "Ravenous Ghoul", "ghouls", "Humanoid. Monster. Ghoul.", 1, fx(3), fx(3), fx(3), fx(1), fx(1), abs()),
		evils,
		predator,
		predatorBack,
		enemy(WolfManDrew, "\"Wolf-Man\" Drew", "cult_of_umordhoth", "Humanoid. Cultist.", 1, fx(4), fx(4), fx(2), fx(2), fx(0), fx(1)),
		enemy(HuntingGhaunt, "Hunting Nightgaunt", "nightgaunts", "Monster. Nightgaunt.", 2, fx(4), fx(3), fx(1), fx(1), fx(1), abs()),
		location(FacultyOffices, "Faculty Offices", "extracurricular_activity", 1, vr(), fx(1), true, fx(1)),
		enemy(YithianObserver, "Yithian Observer", "sorcery", "Monster. Yithian.", 2, fx(4), fx(4), fx(3), fx(1), fx(1), abs()),
		experiment,
		enemy(StrayRat, "Stray Rat", "return_to_rats", "Creature.", 2, fx(1), fx(1), fx(2), fx(1), fx(0), abs()),
	}
}

// Campaigns returns the fixture hierarchy. The House Always Wins uses no
// encounter set present in the corpus.
func Campaigns() []hierarchy.Campaign {
	return []hierarchy.Campaign{
		{
			Code: "notz", Name: "Night of the Zealot",
			Scenarios: []hierarchy.Scenario{
				{Code: "the_gathering", Name: "The Gathering", Prefix: "I",
					EncounterCodes: []string{"the_gathering", "rats", "ghouls", "ancient_evils"}},
				{Code: "the_midnight_masks", Name: "The Midnight Masks", Prefix: "II",
					EncounterCodes: []string{"the_midnight_masks", "cult_of_umordhoth", "nightgaunts", "ancient_evils"}},
			},
		},
		{
			Code: "dwl", Name: "The Dunwich Legacy",
			Scenarios: []hierarchy.Scenario{
				{Code: "extracurricular_activity", Name: "Extracurricular Activity", Prefix: "I-A",
					EncounterCodes: []string{"extracurricular_activity", "sorcery", "ancient_evils"}},
				{Code: "the_house_always_wins", Name: "The House Always Wins", Prefix: "I-B",
					EncounterCodes: []string{"the_house_always_wins", "bad_luck", "naomis_crew"}},
			},
		},
	}
}

// Corpus builds the fixture corpus.
func Corpus() *cards.Corpus { return cards.NewCorpus(Cards()) }

// Index builds the fixture hierarchy index.
func Index() (*cards.Corpus, *hierarchy.Index) {
	corpus := Corpus()
	return corpus, hierarchy.Build(corpus, Campaigns())
}

// RawCards returns the fixture as export records.
func RawCards() []cards.RawCard {
	list := Cards()
	out := make([]cards.RawCard, 0, len(list))
	for _, c := range list {
		out = append(out, cards.ToRaw(c))
	}
	return out
}

// Opt builds an option whose label equals its value.
func Opt(value string) hierarchy.Option {
	return hierarchy.Option{Label: value, Value: value}
}

// Opts builds options whose labels equal their values.
func Opts(values ...string) []hierarchy.Option {
	out := make([]hierarchy.Option, 0, len(values))
	for _, v := range values {
		out = append(out, Opt(v))
	}
	return out
}
