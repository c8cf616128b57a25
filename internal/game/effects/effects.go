// Package effects computes the currently-active modifier set for a
// player-channel record. It is a pure function of (record, now): both the
// combat resolver and any stats display read the same truth from here.
package effects

import (
	"time"

	"github.com/featherfall/duckhunt/internal/data"
	"github.com/featherfall/duckhunt/internal/model"
)

// Modifiers is the effective modifier set at one instant.
type Modifiers struct {
	// AccuracyGapClose is the share of the remaining miss chance closed
	// by loaded special ammunition (0 when none is loaded).
	AccuracyGapClose float64

	// JamFactor multiplies the level-table jam chance. Grease halves it,
	// sand doubles it; both can be live at once.
	JamFactor float64

	// DamageBonus is extra damage per hit against a golden duck (special
	// ammunition punches through).
	DamageBonus int

	// DetectorActive means the player knows when no duck is present: a
	// no-target shot is refused outright instead of penalized.
	DetectorActive bool

	// LockoutActive means a trigger lock will absorb a no-target shot,
	// consuming one use.
	LockoutActive bool

	// ShootSuppressed means the player may befriend but not shoot
	// (egged until they change clothes).
	ShootSuppressed bool

	// Dazzled halves shooting accuracy (mirror without sunglasses).
	Dazzled bool

	// Soaked blocks hunting entirely until the effect expires.
	Soaked bool

	// SpecialAmmo reports AP or explosive charges loaded; such charges
	// burn on every shot fired, hit or miss.
	SpecialAmmo bool
}

// Compute derives the modifier set for r at now. Calling it twice with an
// identical record and timestamp yields identical results.
func Compute(r *model.Record, now time.Time) Modifiers {
	ts := now.Unix()

	m := Modifiers{JamFactor: 1.0}

	if r.APShots > 0 || r.ExplosiveShots > 0 {
		m.SpecialAmmo = true
		m.AccuracyGapClose = data.AccuracyGapClose
		m.DamageBonus = 1
	}

	if r.EffectActive(model.EffectGrease, ts) {
		m.JamFactor *= data.GreaseJamFactor
	}
	if r.EffectActive(model.EffectSand, ts) {
		m.JamFactor *= data.SandJamFactor
	}

	if det := r.Effect(model.EffectDucksDetector); det.Uses > 0 {
		m.DetectorActive = true
	}
	if lock := r.Effect(model.EffectTriggerLock); lock.ActiveAt(ts) && lock.Uses > 0 {
		m.LockoutActive = true
	}

	if r.EffectActive(model.EffectMirror, ts) && !r.EffectActive(model.EffectSunglasses, ts) {
		m.Dazzled = true
	}
	m.Soaked = r.EffectActive(model.EffectSoaked, ts)
	m.ShootSuppressed = r.Egged

	return m
}

// EffectiveAccuracy applies the modifier set to a base accuracy percentage
// and clamps the result to [0, 100).
func (m Modifiers) EffectiveAccuracy(base int) float64 {
	acc := float64(base)
	if m.AccuracyGapClose > 0 {
		acc += (100 - acc) * m.AccuracyGapClose
	}
	if m.Dazzled {
		acc *= data.MirrorAccuracyFactor
	}
	if acc < 0 {
		acc = 0
	}
	if acc >= 100 {
		acc = 99.9
	}
	return acc
}

// JamChance applies the modifier set to a base reliability percentage and
// returns the per-shot jam probability in [0, 1].
func (m Modifiers) JamChance(reliability int) float64 {
	chance := float64(100-reliability) / 100 * m.JamFactor
	if chance < 0 {
		chance = 0
	}
	if chance > 1 {
		chance = 1
	}
	return chance
}
