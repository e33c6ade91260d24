package browse_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/arkhamtest"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/browse"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/hierarchy"
)

type world struct {
	cards []*cards.Card
	meta  hierarchy.MetaIndex
	opts  hierarchy.FilterOptions
}

func newWorld() world {
	corpus, idx := arkhamtest.Index()
	return world{cards: corpus.Cards(), meta: idx.Meta(), opts: idx.Options()}
}

func codes(cs []*cards.Card) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Code)
	}
	return out
}

func values(options []hierarchy.Option) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.Value)
	}
	return out
}

func scenarioValues(options []hierarchy.ScenarioOption) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.Value)
	}
	return out
}

var opts = arkhamtest.Opts

func TestFilterCards(t *testing.T) {
	w := newWorld()

	tests := []struct {
		name    string
		filters browse.Filters
		stats   browse.StatFilters
		want    []string
	}{
		{
			name: "no filters returns every encounter card in order",
			want: []string{
				arkhamtest.GhoulPriest, arkhamtest.Study, arkhamtest.Hallway, arkhamtest.Attic,
				arkhamtest.SwarmOfRats, arkhamtest.GhoulMinion, arkhamtest.RavenousGhoul, arkhamtest.AncientEvils,
				arkhamtest.PredatorOrPrey, arkhamtest.PredatorBack, arkhamtest.WolfManDrew, arkhamtest.HuntingGhaunt,
				arkhamtest.FacultyOffices, arkhamtest.YithianObserver, arkhamtest.TheExperiment, arkhamtest.StrayRat,
			},
		},
		{
			name:    "campaign and type",
			filters: browse.Filters{Campaigns: opts("dwl"), Types: opts("enemy")},
			want:    []string{arkhamtest.YithianObserver, arkhamtest.TheExperiment},
		},
		{
			name:    "scenarios are ORed",
			filters: browse.Filters{Scenarios: opts("the_midnight_masks", "extracurricular_activity"), Types: opts("treachery")},
			want:    []string{arkhamtest.AncientEvils},
		},
		{
			name:    "traits are ORed and ANDed with encounters",
			filters: browse.Filters{Encounters: opts("ghouls", "rats"), Traits: opts("Creature", "Elite")},
			want:    []string{arkhamtest.SwarmOfRats},
		},
		{
			name:    "campaign outside the card's hierarchy",
			filters: browse.Filters{Campaigns: opts("notz"), Encounters: opts("return_to_rats")},
			want:    []string{},
		},
		{
			name:  "variable health includes per-investigator and missing health",
			stats: browse.StatFilters{cards.Health: "?"},
			want:  []string{arkhamtest.GhoulPriest, arkhamtest.TheExperiment},
		},
		{
			name:  "numeric health",
			stats: browse.StatFilters{cards.Health: "4"},
			want:  []string{arkhamtest.WolfManDrew, arkhamtest.HuntingGhaunt, arkhamtest.YithianObserver},
		},
		{
			name:  "stat thresholds are ANDed",
			stats: browse.StatFilters{cards.Health: "4", cards.Evade: "3"},
			want:  []string{arkhamtest.YithianObserver},
		},
		{
			name:  "variable damage",
			stats: browse.StatFilters{cards.Damage: "?"},
			want:  []string{arkhamtest.TheExperiment},
		},
		{
			name:  "missing horror matches neither zero nor variable",
			stats: browse.StatFilters{cards.Horror: "0"},
			want:  []string{arkhamtest.SwarmOfRats, arkhamtest.WolfManDrew, arkhamtest.StrayRat},
		},
		{
			name:  "missing victory counts as zero",
			stats: browse.StatFilters{cards.LocationVictory: "0"},
			want:  []string{arkhamtest.Study, arkhamtest.Hallway},
		},
		{
			name:  "fixed clues bucket",
			stats: browse.StatFilters{cards.Clues: "0"},
			want:  []string{arkhamtest.Hallway},
		},
		{
			name:  "per investigator clues bucket",
			stats: browse.StatFilters{cards.CluesPerInvestigator: "2"},
			want:  []string{arkhamtest.Study, arkhamtest.Attic},
		},
		{
			name:  "variable shroud",
			stats: browse.StatFilters{cards.Shroud: "?"},
			want:  []string{arkhamtest.FacultyOffices},
		},
		{
			name:  "non-numeric threshold matches nothing",
			stats: browse.StatFilters{cards.Fight: "abc"},
			want:  []string{},
		},
		{
			name:  "unknown stat is ignored",
			stats: browse.StatFilters{"Sanity": "3"},
			want: []string{
				arkhamtest.GhoulPriest, arkhamtest.Study, arkhamtest.Hallway, arkhamtest.Attic,
				arkhamtest.SwarmOfRats, arkhamtest.GhoulMinion, arkhamtest.RavenousGhoul, arkhamtest.AncientEvils,
				arkhamtest.PredatorOrPrey, arkhamtest.PredatorBack, arkhamtest.WolfManDrew, arkhamtest.HuntingGhaunt,
				arkhamtest.FacultyOffices, arkhamtest.YithianObserver, arkhamtest.TheExperiment, arkhamtest.StrayRat,
			},
		},
		{
			name:    "stat threshold excludes other types",
			filters: browse.Filters{Scenarios: opts("the_gathering")},
			stats:   browse.StatFilters{cards.Shroud: "1"},
			want:    []string{arkhamtest.Hallway, arkhamtest.Attic},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := browse.FilterCards(w.cards, w.meta, tt.filters, tt.stats)
			if diff := cmp.Diff(tt.want, codes(got)); diff != "" {
				t.Errorf("FilterCards mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterCards_VariableVictoryIncludesMissing(t *testing.T) {
	victory := func(n int) cards.Stat { return cards.NewStat(&n) }
	cs := []*cards.Card{
		{Code: "e1", TypeCode: cards.TypeEnemy, EncounterCode: "x"},
		{Code: "e2", TypeCode: cards.TypeEnemy, EncounterCode: "x", Victory: victory(1)},
		{Code: "e3", TypeCode: cards.TypeEnemy, EncounterCode: "x", Victory: victory(-1)},
		{Code: "l1", TypeCode: cards.TypeLocation, EncounterCode: "x"},
		{Code: "l2", TypeCode: cards.TypeLocation, EncounterCode: "x"},
	}
	meta := hierarchy.MetaIndex{}
	for _, c := range cs {
		meta[c.Code] = hierarchy.CardMeta{EncounterCode: "x"}
	}

	tests := []struct {
		name  string
		stats browse.StatFilters
		want  []string
	}{
		{"enemy victory ?", browse.StatFilters{cards.EnemyVictory: "?"}, []string{"e1", "e3"}},
		{"location victory ?", browse.StatFilters{cards.LocationVictory: "?"}, []string{"l1", "l2"}},
		{"missing victory still counts as zero", browse.StatFilters{cards.EnemyVictory: "0"}, []string{"e1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := browse.FilterCards(cs, meta, browse.Filters{}, tt.stats)
			if diff := cmp.Diff(tt.want, codes(got)); diff != "" {
				t.Errorf("FilterCards mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterCards_IdempotentAndPure(t *testing.T) {
	w := newWorld()
	before := make([]*cards.Card, len(w.cards))
	copy(before, w.cards)
	snapshot := make([]cards.Card, len(w.cards))
	for i, c := range w.cards {
		snapshot[i] = *c
	}

	f := browse.Filters{Encounters: opts("ghouls", "rats")}
	stats := browse.StatFilters{cards.Health: "?", cards.Fight: "2"}
	first := browse.FilterCards(w.cards, w.meta, f, stats)
	second := browse.FilterCards(w.cards, w.meta, f, stats)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated FilterCards differ (-first +second):\n%s", diff)
	}
	require.Len(t, w.cards, len(before))
	for i, c := range w.cards {
		assert.Same(t, before[i], c, "slice order changed at %d", i)
		if diff := cmp.Diff(snapshot[i], *c); diff != "" {
			t.Errorf("card %s mutated (-before +after):\n%s", c.Code, diff)
		}
	}
}

func TestFilterCards_MissingMetaExcluded(t *testing.T) {
	w := newWorld()
	meta := hierarchy.MetaIndex{}
	for k, v := range w.meta {
		if k != arkhamtest.GhoulPriest {
			meta[k] = v
		}
	}
	got := browse.FilterCards(w.cards, meta, browse.Filters{}, nil)
	assert.NotContains(t, codes(got), arkhamtest.GhoulPriest)
	assert.NotContains(t, codes(got), arkhamtest.RolandBanks)
}

func TestScenarioOptions(t *testing.T) {
	w := newWorld()
	assert.Equal(t, []string{"the_gathering", "the_midnight_masks", "extracurricular_activity"},
		scenarioValues(browse.ScenarioOptions(nil, w.opts.Scenarios)))
	assert.Equal(t, []string{"extracurricular_activity"},
		scenarioValues(browse.ScenarioOptions(opts("dwl"), w.opts.Scenarios)))
}

func TestActiveScenarios(t *testing.T) {
	w := newWorld()

	_, constrained := browse.ActiveScenarios(nil, nil, w.opts.Scenarios)
	assert.False(t, constrained)

	active, constrained := browse.ActiveScenarios(opts("notz"), nil, w.opts.Scenarios)
	require.True(t, constrained)
	assert.Equal(t, []string{"the_gathering", "the_midnight_masks"}, scenarioValues(active))

	active, constrained = browse.ActiveScenarios(opts("notz"), opts("extracurricular_activity"), w.opts.Scenarios)
	require.True(t, constrained)
	assert.Equal(t, []string{"extracurricular_activity"}, scenarioValues(active), "scenario selection wins over campaigns")
}

func TestEncounterOptions(t *testing.T) {
	w := newWorld()

	got := browse.EncounterOptions(nil, opts("extracurricular_activity"), w.opts.Scenarios, w.opts.Encounters)
	assert.Equal(t, []string{"ancient_evils", "extracurricular_activity", "sorcery"}, values(got))

	got = browse.EncounterOptions(nil, nil, w.opts.Scenarios, w.opts.Encounters)
	assert.Equal(t, values(w.opts.Encounters), values(got))
}

func TestTraitAndTypeOptions(t *testing.T) {
	w := newWorld()
	f := browse.Filters{Encounters: opts("ghouls")}

	assert.Equal(t, []string{"Ghoul", "Humanoid", "Monster"},
		values(browse.TraitOptions(f, w.cards, w.meta, w.opts.Traits)))
	assert.Equal(t, []string{"enemy"},
		values(browse.TypeOptions(f, w.cards, w.meta, w.opts.Types)))

	all := browse.TypeOptions(browse.Filters{Traits: opts("Ghoul")}, w.cards, w.meta, w.opts.Types)
	assert.Equal(t, values(w.opts.Types), values(all), "traits do not narrow the type facet")
}

func TestOffer_NoEmptyScenarioOffered(t *testing.T) {
	w := newWorld()
	for _, campaign := range w.opts.Campaigns {
		offered := browse.Offer(browse.Filters{Campaigns: []hierarchy.Option{campaign}}, w.opts, w.cards, w.meta)
		for _, s := range offered.Scenarios {
			got := browse.FilterCards(w.cards, w.meta, browse.Filters{Campaigns: []hierarchy.Option{campaign}, Scenarios: []hierarchy.Option{s.Option}}, nil)
			assert.NotEmpty(t, got, "scenario %s under %s", s.Value, campaign.Value)
		}
	}
}

func TestCascadeCampaignChange(t *testing.T) {
	w := newWorld()
	current := browse.Filters{
		Campaigns:  opts("notz"),
		Scenarios:  opts("the_gathering"),
		Encounters: opts("ghouls"),
		Traits:     opts("Ghoul"),
		Types:      opts("enemy"),
	}
	before := browse.Filters{
		Campaigns:  opts("notz"),
		Scenarios:  opts("the_gathering"),
		Encounters: opts("ghouls"),
		Traits:     opts("Ghoul"),
		Types:      opts("enemy"),
	}

	got := browse.CascadeCampaignChange(opts("dwl"), current, w.opts, w.cards, w.meta)

	want := browse.Filters{
		Campaigns:  opts("dwl"),
		Scenarios:  []hierarchy.Option{},
		Encounters: []hierarchy.Option{},
		Traits:     []hierarchy.Option{},
		Types:      opts("enemy"),
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("CascadeCampaignChange mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, before, current, "input filters must not be mutated")
}

func TestCascadeCampaignChange_Clear(t *testing.T) {
	w := newWorld()
	current := browse.Filters{
		Campaigns:  opts("notz"),
		Scenarios:  opts("the_gathering"),
		Encounters: opts("ghouls"),
		Traits:     opts("Ghoul"),
	}

	got := browse.CascadeCampaignChange(nil, current, w.opts, w.cards, w.meta)

	assert.Empty(t, got.Campaigns)
	assert.Equal(t, []string{"the_gathering"}, values(got.Scenarios))
	assert.Equal(t, []string{"ghouls"}, values(got.Encounters))
	assert.Equal(t, []string{"Ghoul"}, values(got.Traits))
}

func TestCascadeScenarioChange(t *testing.T) {
	w := newWorld()
	current := browse.Filters{
		Campaigns:  opts("notz"),
		Scenarios:  opts("the_gathering"),
		Encounters: opts("ghouls", "ancient_evils"),
		Traits:     opts("Ghoul", "Omen"),
		Types:      opts("location"),
	}

	got := browse.CascadeScenarioChange(opts("the_midnight_masks"), current, w.opts, w.cards, w.meta)

	assert.Equal(t, []string{"notz"}, values(got.Campaigns))
	assert.Equal(t, []string{"the_midnight_masks"}, values(got.Scenarios))
	assert.Equal(t, []string{"ancient_evils"}, values(got.Encounters))
	assert.Equal(t, []string{"Omen"}, values(got.Traits))
	assert.Equal(t, []string{"location"}, values(got.Types), "type selection is never pruned")
}

func TestCascadeScenarioChange_ClearFallsBackToCampaigns(t *testing.T) {
	w := newWorld()
	current := browse.Filters{
		Campaigns:  opts("dwl"),
		Scenarios:  opts("extracurricular_activity"),
		Encounters: opts("sorcery"),
	}
	got := browse.CascadeScenarioChange(nil, current, w.opts, w.cards, w.meta)
	assert.Equal(t, []string{"sorcery"}, values(got.Encounters))
}

func TestCascadeEncounterChange(t *testing.T) {
	w := newWorld()
	current := browse.Filters{
		Encounters: opts("ghouls"),
		Traits:     opts("Ghoul", "Creature"),
	}

	got := browse.CascadeEncounterChange(opts("rats"), current, w.cards, w.meta)

	assert.Equal(t, []string{"rats"}, values(got.Encounters))
	assert.Equal(t, []string{"Creature"}, values(got.Traits))
}

func TestURLRoundTrip(t *testing.T) {
	w := newWorld()
	enemy := w.opts.Types[1]
	require.Equal(t, "enemy", enemy.Value)

	states := []browse.State{
		{View: browse.ViewCards, Stats: browse.StatFilters{}},
		{
			Filters: browse.Filters{
				Campaigns: []hierarchy.Option{{Label: "Night of the Zealot", Value: "notz"}},
				Types:     []hierarchy.Option{enemy},
			},
			View:  browse.ViewStats,
			Stats: browse.StatFilters{cards.Health: "?", cards.EnemyVictory: "2"},
		},
		{
			Filters: browse.Filters{
				Scenarios:  []hierarchy.Option{{Label: "The Midnight Masks", Value: "the_midnight_masks"}, {Label: "The Gathering", Value: "the_gathering"}},
				Encounters: []hierarchy.Option{{Label: "Ghouls", Value: "ghouls"}},
				Traits:     []hierarchy.Option{{Label: "Ghoul", Value: "Ghoul"}, {Label: "Elite", Value: "Elite"}},
			},
			View:  browse.ViewCards,
			Stats: browse.StatFilters{cards.CluesPerInvestigator: "2", cards.LocationVictory: "0"},
		},
	}

	for _, s := range states {
		query := s.URL("/cards")
		got := browse.ParseState(query, w.opts)
		if diff := cmp.Diff(s, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("round trip of %q mismatch (-want +got):\n%s", query, diff)
		}
	}
}

func TestToURL(t *testing.T) {
	assert.Equal(t, "/cards", browse.ToURL(browse.Filters{}, browse.ViewCards, nil, "/cards"))
	assert.Equal(t, "?campaign=notz%2Cdwl&view=stats",
		browse.ToURL(browse.Filters{Campaigns: opts("notz", "dwl")}, browse.ViewStats, nil, "/"))
	assert.Equal(t, "?clues_pp=2&loc_victory=1",
		browse.ToURL(browse.Filters{}, browse.ViewCards, browse.StatFilters{cards.CluesPerInvestigator: "2", cards.LocationVictory: "1", "Bogus": "1"}, "/"))
}

func TestParseURL_DropsUnknownValues(t *testing.T) {
	w := newWorld()
	got := browse.ParseURL("?campaign=bogus,notz,notz&type=enemy&encounter=", w.opts)
	assert.Equal(t, []string{"notz"}, values(got.Campaigns))
	assert.Equal(t, "Night of the Zealot", got.Campaigns[0].Label)
	assert.Equal(t, []string{"enemy"}, values(got.Types))
	assert.Empty(t, got.Encounters)
}

func TestParseViewModeAndStats(t *testing.T) {
	assert.Equal(t, browse.ViewStats, browse.ParseViewMode("view=stats"))
	assert.Equal(t, browse.ViewCards, browse.ParseViewMode("?view=grid"))
	assert.Equal(t, browse.StatFilters{cards.Fight: "3", cards.Shroud: "?"},
		browse.ParseStatFilters("?fight=3&shroud=%3F&sanity=2"))
}

func TestStatChipLabel(t *testing.T) {
	assert.Equal(t, "clues/inv = 2", browse.StatChipLabel(cards.CluesPerInvestigator, "2"))
	assert.Equal(t, "enemy victory = 1", browse.StatChipLabel(cards.EnemyVictory, "1"))
	assert.Equal(t, "location victory = 0", browse.StatChipLabel(cards.LocationVictory, "0"))
	assert.Equal(t, "health = ?", browse.StatChipLabel(cards.Health, "?"))
}

func TestSelectCell(t *testing.T) {
	s := browse.State{View: browse.ViewStats, Stats: browse.StatFilters{cards.Fight: "2"}}

	next := s.SelectCell("enemy", "Victory", "1")
	assert.Equal(t, browse.ViewCards, next.View)
	assert.Equal(t, browse.StatFilters{cards.Fight: "2", cards.EnemyVictory: "1"}, next.Stats)
	assert.Equal(t, browse.StatFilters{cards.Fight: "2"}, s.Stats, "original state untouched")

	loc := s.SelectCell("location", "Victory", "0")
	assert.Equal(t, "0", loc.Stats[cards.LocationVictory])

	same := s.SelectCell("enemy", "Fight", "2")
	assert.Equal(t, browse.ViewStats, same.View, "active cell is a no-op")

	bogus := s.SelectCell("location", "Fight", "2")
	assert.Equal(t, s, bogus)

	noVariableColumn := s.SelectCell("location", "Clues", "?")
	assert.Equal(t, s, noVariableColumn, "clue rows have no ? cell")

	shroud := s.SelectCell("location", "Shroud", "?")
	assert.Equal(t, "?", shroud.Stats[cards.Shroud])

	cleared := next.ClearStat(cards.Fight)
	assert.Equal(t, browse.StatFilters{cards.EnemyVictory: "1"}, cleared.Stats)
}
