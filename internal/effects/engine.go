// Package effects folds the modifiers of purchased upgrades into per-entity
// effect records for one simulation run.
package effects

import (
	"EconomyBench/internal/formula"
	"EconomyBench/internal/model"
	"EconomyBench/internal/selector"
)

// Resolve aggregates every modifier whose source is in upgradeIDs.
//
// Every selected asset and hustle gets an entry, identity when untouched.
// Multipliers multiply into the running factor of their attribute; flat
// modifiers add into the income addend. Flat modifiers on setup or
// maintenance time only record their source. A modifier whose formula fails
// to evaluate is skipped for that target and reported in Skipped.
func Resolve(cat *model.Catalog, assetIDs, upgradeIDs, hustleIDs []string) *model.UpgradeEffects {
	out := model.NewUpgradeEffects()
	assetScope := selector.Scope{IDs: dedupe(assetIDs), Tags: cat.AssetTags}
	hustleScope := selector.Scope{IDs: dedupe(hustleIDs), Tags: cat.HustleTags}

	for _, id := range assetScope.IDs {
		out.AssetEffects[id] = model.NewEntityEffect()
	}
	for _, id := range hustleScope.IDs {
		out.HustleEffects[id] = model.NewEntityEffect()
	}

	selected := make(map[string]struct{}, len(upgradeIDs))
	for _, id := range upgradeIDs {
		selected[id] = struct{}{}
	}
	if len(selected) == 0 {
		return out
	}

	for _, mod := range cat.Modifiers {
		if _, ok := selected[mod.Source]; !ok {
			continue
		}
		target, ok := selector.ParseTarget(mod.Target)
		if !ok || !target.SupportsAttribute() {
			continue
		}

		switch target.Kind {
		case selector.KindAsset:
			res := selector.Resolve(selector.KindAsset, target.Selector, assetScope)
			for _, id := range res.IDs {
				apply(out, out.AssetEffects[id], mod, target.Attribute, id)
			}
		case selector.KindHustle:
			res := selector.Resolve(selector.KindHustle, target.Selector, hustleScope)
			for _, id := range res.IDs {
				apply(out, out.HustleEffects[id], mod, target.Attribute, id)
			}
		case selector.KindTimeState:
			if !mod.Type.IsFlat() {
				continue
			}
			eff, err := formula.Interpret(mod.Type, mod.Formula)
			if err != nil {
				out.Skipped = append(out.Skipped, skipped(mod, "", err))
				continue
			}
			out.TimeBonusMinutes += eff.Value
			out.TimeBonusSources[mod.Source] = struct{}{}
		}
	}
	return out
}

func apply(out *model.UpgradeEffects, effect *model.EntityEffect, mod model.Modifier, attribute, entityID string) {
	switch {
	case mod.Type == model.ModifierMultiplier:
		eff, err := formula.Interpret(mod.Type, mod.Formula)
		if err != nil {
			out.Skipped = append(out.Skipped, skipped(mod, entityID, err))
			return
		}
		switch attribute {
		case selector.AttrIncome:
			effect.IncomeMult *= eff.Value
		case selector.AttrSetupTime:
			effect.SetupTimeMult *= eff.Value
		case selector.AttrMaintenanceTime:
			effect.MaintenanceTimeMult *= eff.Value
		}
	case mod.Type.IsFlat():
		eff, err := formula.Interpret(mod.Type, mod.Formula)
		if err != nil {
			out.Skipped = append(out.Skipped, skipped(mod, entityID, err))
			return
		}
		if attribute == selector.AttrIncome {
			effect.IncomeFlat += eff.Value
		}
	}
	effect.AddSource(mod.Source)
}

func skipped(mod model.Modifier, entityID string, err error) model.SkippedModifier {
	return model.SkippedModifier{Modifier: mod, EntityID: entityID, Err: err, Reason: err.Error()}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
