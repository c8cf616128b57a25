package store

import (
	"fmt"

	"github.com/featherfall/duckhunt/internal/model"
)

// Field names shared by both backends. They double as the SQL column
// names, so a record round-trips through either backend unchanged.
var knownFields = map[string]struct{}{
	"xp":                        {},
	"ducks_shot":                {},
	"golden_ducks":              {},
	"misses":                    {},
	"accidents":                 {},
	"wild_fires":                {},
	"shots_fired":               {},
	"befriended_ducks":          {},
	"best_time":                 {},
	"total_reaction_time":       {},
	"last_duck_time":            {},
	"ammo":                      {},
	"magazines":                 {},
	"magazine_capacity":         {},
	"magazines_max":             {},
	"mag_upgrade_level":         {},
	"mag_capacity_level":        {},
	"confiscated":               {},
	"jammed":                    {},
	"sabotaged":                 {},
	"egged":                     {},
	"ap_shots":                  {},
	"explosive_shots":           {},
	"bread_uses":                {},
	"trigger_lock_until":        {},
	"trigger_lock_uses":         {},
	"grease_until":              {},
	"silencer_until":            {},
	"sunglasses_until":          {},
	"ducks_detector_until":      {},
	"ducks_detector_uses":       {},
	"mirror_until":              {},
	"sand_until":                {},
	"soaked_until":              {},
	"life_insurance_until":      {},
	"liability_insurance_until": {},
}

// ValidateFields rejects field sets naming columns the schema lacks.
func ValidateFields(fields map[string]any) error {
	for name := range fields {
		if _, ok := knownFields[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}
	return nil
}

// FieldsOf flattens a record into the full persisted field set. The
// engine saves the complete set after each validated mutation, so a
// retried save is idempotent.
func FieldsOf(r *model.Record) map[string]any {
	effectUntil := func(k model.EffectKind) int64 { return r.Effect(k).Until }
	return map[string]any{
		"xp":                        r.XP,
		"ducks_shot":                r.DucksShot,
		"golden_ducks":              r.GoldenDucks,
		"misses":                    r.Misses,
		"accidents":                 r.Accidents,
		"wild_fires":                r.WildFires,
		"shots_fired":               r.ShotsFired,
		"befriended_ducks":          r.BefriendedDucks,
		"best_time":                 r.BestTime,
		"total_reaction_time":       r.TotalReactionTime,
		"last_duck_time":            r.LastDuckTime,
		"ammo":                      r.Ammo,
		"magazines":                 r.Magazines,
		"magazine_capacity":         r.MagazineCapacity,
		"magazines_max":             r.MagazinesMax,
		"mag_upgrade_level":         r.MagUpgradeLevel,
		"mag_capacity_level":        r.MagCapacityLevel,
		"confiscated":               r.Confiscated,
		"jammed":                    r.Jammed,
		"sabotaged":                 r.Sabotaged,
		"egged":                     r.Egged,
		"ap_shots":                  r.APShots,
		"explosive_shots":           r.ExplosiveShots,
		"bread_uses":                r.BreadUses,
		"trigger_lock_until":        effectUntil(model.EffectTriggerLock),
		"trigger_lock_uses":         r.Effect(model.EffectTriggerLock).Uses,
		"grease_until":              effectUntil(model.EffectGrease),
		"silencer_until":            effectUntil(model.EffectSilencer),
		"sunglasses_until":          effectUntil(model.EffectSunglasses),
		"ducks_detector_until":      effectUntil(model.EffectDucksDetector),
		"ducks_detector_uses":       r.Effect(model.EffectDucksDetector).Uses,
		"mirror_until":              effectUntil(model.EffectMirror),
		"sand_until":                effectUntil(model.EffectSand),
		"soaked_until":              effectUntil(model.EffectSoaked),
		"life_insurance_until":      effectUntil(model.EffectLifeInsurance),
		"liability_insurance_until": effectUntil(model.EffectLiabilityInsurance),
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// RecordFromFields rebuilds a record from a persisted field set.
// Unset fields stay zero; effects with neither expiry nor uses are
// dropped.
func RecordFromFields(network, channel, player string, fields map[string]any) *model.Record {
	r := model.NewRecord(network, channel, player)
	for name, v := range fields {
		switch name {
		case "xp":
			r.XP = asInt(v)
		case "ducks_shot":
			r.DucksShot = asInt(v)
		case "golden_ducks":
			r.GoldenDucks = asInt(v)
		case "misses":
			r.Misses = asInt(v)
		case "accidents":
			r.Accidents = asInt(v)
		case "wild_fires":
			r.WildFires = asInt(v)
		case "shots_fired":
			r.ShotsFired = asInt(v)
		case "befriended_ducks":
			r.BefriendedDucks = asInt(v)
		case "best_time":
			r.BestTime = asFloat(v)
		case "total_reaction_time":
			r.TotalReactionTime = asFloat(v)
		case "last_duck_time":
			r.LastDuckTime = asInt64(v)
		case "ammo":
			r.Ammo = asInt(v)
		case "magazines":
			r.Magazines = asInt(v)
		case "magazine_capacity":
			r.MagazineCapacity = asInt(v)
		case "magazines_max":
			r.MagazinesMax = asInt(v)
		case "mag_upgrade_level":
			r.MagUpgradeLevel = asInt(v)
		case "mag_capacity_level":
			r.MagCapacityLevel = asInt(v)
		case "confiscated":
			r.Confiscated = asBool(v)
		case "jammed":
			r.Jammed = asBool(v)
		case "sabotaged":
			r.Sabotaged = asBool(v)
		case "egged":
			r.Egged = asBool(v)
		case "ap_shots":
			r.APShots = asInt(v)
		case "explosive_shots":
			r.ExplosiveShots = asInt(v)
		case "bread_uses":
			r.BreadUses = asInt(v)
		case "trigger_lock_until":
			setUntil(r, model.EffectTriggerLock, asInt64(v))
		case "trigger_lock_uses":
			setUses(r, model.EffectTriggerLock, asInt(v))
		case "grease_until":
			setUntil(r, model.EffectGrease, asInt64(v))
		case "silencer_until":
			setUntil(r, model.EffectSilencer, asInt64(v))
		case "sunglasses_until":
			setUntil(r, model.EffectSunglasses, asInt64(v))
		case "ducks_detector_until":
			setUntil(r, model.EffectDucksDetector, asInt64(v))
		case "ducks_detector_uses":
			setUses(r, model.EffectDucksDetector, asInt(v))
		case "mirror_until":
			setUntil(r, model.EffectMirror, asInt64(v))
		case "sand_until":
			setUntil(r, model.EffectSand, asInt64(v))
		case "soaked_until":
			setUntil(r, model.EffectSoaked, asInt64(v))
		case "life_insurance_until":
			setUntil(r, model.EffectLifeInsurance, asInt64(v))
		case "liability_insurance_until":
			setUntil(r, model.EffectLiabilityInsurance, asInt64(v))
		}
	}
	// Drop empty effect entries so loaded records compare equal to
	// freshly built ones.
	for k, e := range r.Effects {
		if e.Until == 0 && e.Uses == 0 {
			delete(r.Effects, k)
		}
	}
	return r
}

func setUntil(r *model.Record, kind model.EffectKind, until int64) {
	e := r.Effects[kind]
	e.Until = until
	r.Effects[kind] = e
}

func setUses(r *model.Record, kind model.EffectKind, uses int) {
	e := r.Effects[kind]
	e.Uses = uses
	r.Effects[kind] = e
}
