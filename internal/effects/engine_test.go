package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EconomyBench/internal/formula"
	"EconomyBench/internal/model"
)

func testCatalog(mods ...model.Modifier) *model.Catalog {
	return &model.Catalog{
		Assets: map[string]*model.Asset{
			"blog":  {ID: "blog", Name: "Blog", Tags: []string{"writing", "web"}},
			"vlog":  {ID: "vlog", Name: "Vlog", Tags: []string{"video", "web"}},
			"ebook": {ID: "ebook", Name: "E-Book", Tags: []string{"writing"}},
		},
		Hustles: map[string]*model.Hustle{
			"freelance":    {ID: "freelance", Tags: []string{"writing"}},
			"surveySprint": {ID: "surveySprint", Tags: []string{"survey"}},
		},
		Modifiers: mods,
	}
}

var hustles = []string{"freelance", "surveySprint"}

func TestResolve_IdentityForUntouchedEntities(t *testing.T) {
	cat := testCatalog(model.Modifier{Source: "cam", Target: "asset:vlog.income", Type: "multiplier", Formula: "2"})
	eff := Resolve(cat, []string{"blog", "ebook"}, []string{"cam"}, hustles)

	require.Len(t, eff.AssetEffects, 2)
	require.Len(t, eff.HustleEffects, 2)
	for _, e := range eff.AssetEffects {
		assert.Equal(t, 1.0, e.IncomeMult)
		assert.Equal(t, 0.0, e.IncomeFlat)
		assert.Equal(t, 1.0, e.SetupTimeMult)
		assert.Equal(t, 1.0, e.MaintenanceTimeMult)
		assert.Empty(t, e.SourceList())
	}
	assert.Zero(t, eff.TimeBonusMinutes)
	assert.Empty(t, eff.Skipped)
}

func TestResolve_OnlySelectedUpgradesApply(t *testing.T) {
	cat := testCatalog(
		model.Modifier{Source: "owned", Target: "asset:blog.income", Type: "multiplier", Formula: "1.5"},
		model.Modifier{Source: "notOwned", Target: "asset:blog.income", Type: "multiplier", Formula: "10"},
	)
	eff := Resolve(cat, []string{"blog"}, []string{"owned"}, nil)
	assert.InDelta(t, 1.5, eff.AssetEffects["blog"].IncomeMult, 1e-12)
	assert.Equal(t, []string{"owned"}, eff.AssetEffects["blog"].SourceList())

	none := Resolve(cat, []string{"blog"}, nil, nil)
	assert.Equal(t, 1.0, none.AssetEffects["blog"].IncomeMult)
}

func TestResolve_MultipliersCombineByProduct(t *testing.T) {
	a := model.Modifier{Source: "a", Target: "asset:blog.income", Type: "multiplier", Formula: "income * 1.25"}
	b := model.Modifier{Source: "b", Target: "assets[tag=web].income", Type: "multiplier", Formula: "1 + 0.6"}

	forward := Resolve(testCatalog(a, b), []string{"blog"}, []string{"a", "b"}, nil)
	reverse := Resolve(testCatalog(b, a), []string{"blog"}, []string{"b", "a"}, nil)

	assert.InDelta(t, 1.25*1.6, forward.AssetEffects["blog"].IncomeMult, 1e-12)
	assert.InDelta(t, forward.AssetEffects["blog"].IncomeMult, reverse.AssetEffects["blog"].IncomeMult, 1e-12)
	assert.Equal(t, []string{"a", "b"}, forward.AssetEffects["blog"].SourceList())
}

func TestResolve_FlatIncomeAndTimeAttributes(t *testing.T) {
	cat := testCatalog(
		model.Modifier{Source: "kit", Target: "asset:blog.income", Type: "flat", Formula: "income + 3"},
		model.Modifier{Source: "kit", Target: "asset:blog.income", Type: "add", Formula: "2"},
		model.Modifier{Source: "kit", Target: "asset:blog.setup_time", Type: "multiplier", Formula: "0.5"},
		model.Modifier{Source: "kit", Target: "asset:blog.maintenance_time", Type: "multiplier", Formula: "0.8"},
		model.Modifier{Source: "tpl", Target: "asset:blog.setup_time", Type: "flat", Formula: "-30"},
	)
	e := Resolve(cat, []string{"blog"}, []string{"kit", "tpl"}, nil).AssetEffects["blog"]

	assert.InDelta(t, 5.0, e.IncomeFlat, 1e-12)
	assert.InDelta(t, 0.5, e.SetupTimeMult, 1e-12)
	assert.InDelta(t, 0.8, e.MaintenanceTimeMult, 1e-12)
	assert.Equal(t, []string{"kit", "tpl"}, e.SourceList(), "flat time modifiers still attribute their source")
	assert.InDelta(t, 25.0, e.AdjustIncome(20), 1e-12)
}

func TestResolve_HustleAttributes(t *testing.T) {
	cat := testCatalog(
		model.Modifier{Source: "laptop", Target: "hustle:freelance.setup_time", Type: "multiplier", Formula: "0.75"},
		model.Modifier{Source: "laptop", Target: "hustles[tag=writing].income", Type: "multiplier", Formula: "1.1"},
		model.Modifier{Source: "laptop", Target: "hustle:freelance.maintenance_time", Type: "multiplier", Formula: "0"},
	)
	eff := Resolve(cat, nil, []string{"laptop"}, hustles)
	fl := eff.HustleEffects["freelance"]
	assert.InDelta(t, 0.75, fl.SetupTimeMult, 1e-12)
	assert.InDelta(t, 1.1, fl.IncomeMult, 1e-12)
	assert.Equal(t, 1.0, fl.MaintenanceTimeMult)
	assert.Equal(t, 1.0, eff.HustleEffects["surveySprint"].IncomeMult)
}

func TestResolve_TimeBonus(t *testing.T) {
	cat := testCatalog(
		model.Modifier{Source: "coffee", Target: "state:time.bonus", Type: "flat", Formula: "minutes + 30"},
		model.Modifier{Source: "desk", Target: "state:time.bonus", Type: "add", Formula: "15"},
		model.Modifier{Source: "desk", Target: "state:time.bonus", Type: "multiplier", Formula: "2"},
	)
	eff := Resolve(cat, nil, []string{"coffee", "desk"}, nil)
	assert.InDelta(t, 45.0, eff.TimeBonusMinutes, 1e-12)
	assert.Equal(t, []string{"coffee", "desk"}, eff.TimeBonusSourceList())
}

func TestResolve_UnknownTargetsAreNoOps(t *testing.T) {
	cat := testCatalog(
		model.Modifier{Source: "u", Target: "asset:podcast.income", Type: "multiplier", Formula: "3"},
		model.Modifier{Source: "u", Target: "assets[color=red].income", Type: "multiplier", Formula: "3"},
		model.Modifier{Source: "u", Target: "player.cash", Type: "flat", Formula: "100"},
		model.Modifier{Source: "u", Target: "asset:blog.quality", Type: "multiplier", Formula: "3"},
		model.Modifier{Source: "u", Target: "asset:blog", Type: "multiplier", Formula: "3"},
	)
	eff := Resolve(cat, []string{"blog"}, []string{"u"}, nil)
	assert.Equal(t, 1.0, eff.AssetEffects["blog"].IncomeMult)
	assert.Empty(t, eff.AssetEffects["blog"].SourceList())
	assert.Empty(t, eff.Skipped)
}

func TestResolve_BadFormulaSkipsOnlyThatApplication(t *testing.T) {
	cat := testCatalog(
		model.Modifier{Source: "bad", Target: "asset:blog.income", Type: "multiplier", Formula: "__import__('os')"},
		model.Modifier{Source: "zero", Target: "asset:blog.income", Type: "flat", Formula: "1 / 0"},
		model.Modifier{Source: "good", Target: "asset:blog.income", Type: "multiplier", Formula: "2"},
	)
	eff := Resolve(cat, []string{"blog"}, []string{"bad", "zero", "good"}, nil)

	blog := eff.AssetEffects["blog"]
	assert.InDelta(t, 2.0, blog.IncomeMult, 1e-12)
	assert.Zero(t, blog.IncomeFlat)
	assert.Equal(t, []string{"good"}, blog.SourceList())

	require.Len(t, eff.Skipped, 2)
	assert.ErrorIs(t, eff.Skipped[0].Err, formula.ErrInvalidFormula)
	assert.ErrorIs(t, eff.Skipped[1].Err, formula.ErrDivisionByZero)
	assert.Equal(t, "blog", eff.Skipped[0].EntityID)
}

func TestResolve_Idempotent(t *testing.T) {
	cat := testCatalog(
		model.Modifier{Source: "a", Target: "assets[tag=web].income", Type: "multiplier", Formula: "1.3"},
		model.Modifier{Source: "a", Target: "hustle:freelance.income", Type: "flat", Formula: "0 + 4"},
		model.Modifier{Source: "b", Target: "state:time.bonus", Type: "flat", Formula: "60"},
	)
	args := func() *model.UpgradeEffects {
		return Resolve(cat, []string{"blog", "vlog"}, []string{"a", "b"}, hustles)
	}
	assert.Equal(t, args(), args())
}

func TestResolve_DuplicateSelectionsApplyOnce(t *testing.T) {
	cat := testCatalog(model.Modifier{Source: "a", Target: "asset:blog.income", Type: "multiplier", Formula: "2"})
	eff := Resolve(cat, []string{"blog", "blog"}, []string{"a"}, nil)
	assert.InDelta(t, 2.0, eff.AssetEffects["blog"].IncomeMult, 1e-12)
}
