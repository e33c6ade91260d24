package hierarchy_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/arkhamtest"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/hierarchy"
)

func values(options []hierarchy.Option) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.Value)
	}
	return out
}

func TestBuild_CardMeta(t *testing.T) {
	_, idx := arkhamtest.Index()

	tests := []struct {
		name string
		code string
		want hierarchy.CardMeta
	}{
		{
			name: "set used by one scenario",
			code: arkhamtest.GhoulMinion,
			want: hierarchy.CardMeta{
				CampaignCodes: []string{"notz"},
				ScenarioCodes: []string{"the_gathering"},
				EncounterCode: "ghouls",
				Traits:        []string{"Humanoid", "Monster", "Ghoul"},
			},
		},
		{
			name: "set shared across campaigns",
			code: arkhamtest.AncientEvils,
			want: hierarchy.CardMeta{
				CampaignCodes: []string{"notz", "dwl"},
				ScenarioCodes: []string{"the_gathering", "the_midnight_masks", "extracurricular_activity"},
				EncounterCode: "ancient_evils",
				Traits:        []string{"Omen"},
			},
		},
		{
			name: "set outside the hierarchy",
			code: arkhamtest.StrayRat,
			want: hierarchy.CardMeta{
				CampaignCodes: []string{},
				ScenarioCodes: []string{},
				EncounterCode: "return_to_rats",
				Traits:        []string{"Creature"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := idx.CardMeta(tt.code)
			require.True(t, ok)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CardMeta(%s) mismatch (-want +got):\n%s", tt.code, diff)
			}
		})
	}

	_, ok := idx.CardMeta(arkhamtest.RolandBanks)
	assert.False(t, ok, "cards without an encounter set have no meta")
}

func TestBuild_MetaCoversEveryEncounterCard(t *testing.T) {
	corpus, idx := arkhamtest.Index()
	for _, c := range corpus.Cards() {
		_, ok := idx.Meta()[c.Code]
		assert.Equal(t, c.HasEncounter(), ok, c.Code)
	}
}

func TestBuild_Options(t *testing.T) {
	_, idx := arkhamtest.Index()
	opts := idx.Options()

	assert.Equal(t, []string{"notz", "dwl"}, values(opts.Campaigns))

	var scenarios []string
	for _, s := range opts.Scenarios {
		scenarios = append(scenarios, s.Value)
	}
	assert.Equal(t, []string{"the_gathering", "the_midnight_masks", "extracurricular_activity"}, scenarios,
		"scenarios without cards are not offered")

	assert.Equal(t, []string{
		"ancient_evils", "cult_of_umordhoth", "extracurricular_activity", "ghouls", "nightgaunts",
		"rats", "return_to_rats", "sorcery", "the_gathering", "the_midnight_masks",
	}, values(opts.Encounters))

	assert.Equal(t, []string{
		"Abomination", "Creature", "Cultist", "Elite", "Ghoul", "Humanoid",
		"Miskatonic", "Monster", "Nightgaunt", "Omen", "Yithian",
	}, values(opts.Traits))

	assert.Equal(t, []string{"agenda", "enemy", "location", "treachery"}, values(opts.Types))
	assert.Equal(t, "Enemy", opts.Types[1].Label)

	sc, ok := opts.FindScenario("the_midnight_masks")
	require.True(t, ok)
	assert.Equal(t, "notz", sc.CampaignCode)
}

func TestIndex_Lookups(t *testing.T) {
	_, idx := arkhamtest.Index()

	c, ok := idx.Campaign("dwl")
	require.True(t, ok)
	assert.Len(t, c.Scenarios, 2)

	s, ok := idx.Scenario("the_midnight_masks")
	require.True(t, ok)
	assert.Equal(t, "Night of the Zealot", s.CampaignName)
	assert.Equal(t, 1, s.Position)

	refs := idx.ScenariosForEncounter("ancient_evils")
	require.Len(t, refs, 3)
	assert.Equal(t, "dwl", refs[2].CampaignCode)

	set, ok := idx.EncounterSet("the_gathering")
	require.True(t, ok)
	assert.Equal(t, 4, set.CardCount)
	assert.Equal(t, cards.ImageBase+"/bundles/cards/01116.png", set.ImageURL)

	_, ok = idx.Scenario("missing")
	assert.False(t, ok)
}

func TestBuild_DuplicateScenarioReferences(t *testing.T) {
	corpus := cards.NewCorpus([]*cards.Card{
		{Code: "a", TypeCode: cards.TypeEnemy, EncounterCode: "shared"},
	})
	idx := hierarchy.Build(corpus, []hierarchy.Campaign{{
		Code: "c", Name: "C",
		Scenarios: []hierarchy.Scenario{
			{Code: "s1", Name: "S1", EncounterCodes: []string{"shared", "shared"}},
			{Code: "s2", Name: "S2", EncounterCodes: []string{"shared"}},
		},
	}})

	meta, ok := idx.CardMeta("a")
	require.True(t, ok)
	assert.Equal(t, []string{"c"}, meta.CampaignCodes)
	assert.Equal(t, []string{"s1", "s2"}, meta.ScenarioCodes)
}
