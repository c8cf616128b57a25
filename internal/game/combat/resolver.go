// Package combat resolves shoot and befriend attempts against the oldest
// duck in a channel. Every attempt walks the same gate sequence:
// ammo check, jam check, no-target check, accuracy roll, outcome.
package combat

import (
	"math/rand/v2"
	"time"

	"github.com/featherfall/duckhunt/internal/data"
	"github.com/featherfall/duckhunt/internal/game/effects"
	"github.com/featherfall/duckhunt/internal/game/level"
	"github.com/featherfall/duckhunt/internal/game/loot"
	"github.com/featherfall/duckhunt/internal/model"
)

// DuckSource is the slice of the duck registry the resolver needs.
type DuckSource interface {
	// WithOldest runs fn on the channel's oldest duck under the channel
	// lock; fn's return value removes the duck. Returns false when the
	// channel has no duck.
	WithOldest(network, channel string, fn func(d *model.Duck) bool) bool
}

// VictimPicker selects a random other present player for accidental hits.
// Returns "" when nobody qualifies.
type VictimPicker func(network, channel, exclude string) string

// Resolver applies the combat rules. The caller owns record locking and
// persistence; the resolver only mutates the record it is handed.
type Resolver struct {
	rng        *rand.Rand
	ducks      DuckSource
	pickVictim VictimPicker
}

// NewResolver builds a resolver around the given duck source and RNG.
func NewResolver(ducks DuckSource, rng *rand.Rand, pickVictim VictimPicker) *Resolver {
	return &Resolver{rng: rng, ducks: ducks, pickVictim: pickVictim}
}

func (cr *Resolver) outcome(r *model.Record, kind model.OutcomeKind) model.Outcome {
	return model.Outcome{
		Kind:    kind,
		Network: r.Network,
		Channel: r.Channel,
		Player:  r.Player,
		XP:      r.XP,
	}
}

// penalty samples a negative XP delta from [1, |tableValue|].
func (cr *Resolver) penalty(tableValue int) int {
	mag := -tableValue
	if mag <= 0 {
		return 0
	}
	return -(1 + cr.rng.IntN(mag))
}

// consumeSpecial burns one special-ammo charge if any are loaded.
// Explosive takes precedence over AP when both are held.
func consumeSpecial(r *model.Record) {
	if r.ExplosiveShots > 0 {
		r.ExplosiveShots--
		return
	}
	if r.APShots > 0 {
		r.APShots--
	}
}

// gate runs the shared pre-roll checks for shoot and befriend. Returns a
// terminal outcome, or nil when the attempt may proceed to its roll.
func (cr *Resolver) gate(r *model.Record, mods effects.Modifiers, shooting bool) *model.Outcome {
	if r.Confiscated {
		o := cr.outcome(r, model.OutcomeConfiscated)
		return &o
	}
	if mods.Soaked {
		o := cr.outcome(r, model.OutcomeSoaked)
		return &o
	}
	if shooting && mods.ShootSuppressed {
		// Egged players may befriend but not shoot.
		o := cr.outcome(r, model.OutcomeEgged)
		return &o
	}
	if r.Jammed {
		o := cr.outcome(r, model.OutcomeJammed)
		return &o
	}

	// AMMO_CHECK: auto-reload from a spare magazine; with none left the
	// attempt ends before anything else is rolled.
	if r.Ammo == 0 {
		if r.Magazines == 0 {
			o := cr.outcome(r, model.OutcomeEmptyMagazine)
			return &o
		}
		r.Magazines--
		r.Ammo = r.MagazineCapacity
	}

	// JAM_CHECK: sabotage forces the jam; otherwise roll against the
	// effective reliability. A jam consumes no ammo and needs an
	// explicit reload.
	lvl := level.For(r)
	if r.Sabotaged {
		r.Sabotaged = false
		r.Jammed = true
		o := cr.outcome(r, model.OutcomeJammed)
		return &o
	}
	if cr.rng.Float64() < mods.JamChance(lvl.Reliability) {
		r.Jammed = true
		o := cr.outcome(r, model.OutcomeJammed)
		return &o
	}

	return nil
}

// Shoot resolves one shot by r against its channel's oldest duck.
func (cr *Resolver) Shoot(r *model.Record, now time.Time) model.Outcome {
	mods := effects.Compute(r, now)
	if o := cr.gate(r, mods, true); o != nil {
		return *o
	}

	lvl := level.For(r)

	var out model.Outcome
	hadDuck := cr.ducks.WithOldest(r.Network, r.Channel, func(d *model.Duck) bool {
		var remove bool
		out, remove = cr.resolveShot(r, d, mods, lvl, now)
		return remove
	})
	if hadDuck {
		return out
	}

	// NO_TARGET_CHECK. A detector owner knows the sky is empty; a trigger
	// lock absorbs the pull at the cost of one use; anyone else free-fires.
	if mods.DetectorActive {
		return cr.outcome(r, model.OutcomeNoDuck)
	}
	if mods.LockoutActive {
		r.ConsumeEffectUse(model.EffectTriggerLock)
		return cr.outcome(r, model.OutcomeLocked)
	}
	return cr.wildFire(r, lvl, now)
}

// wildFire is a shot with no duck present: ammo burns, the shot always
// misses, and the stray bullet may find a bystander.
func (cr *Resolver) wildFire(r *model.Record, lvl data.Level, now time.Time) model.Outcome {
	r.ShotsFired++
	r.Ammo--
	consumeSpecial(r)
	r.WildFires++

	prevXP := r.XP
	delta := cr.penalty(lvl.WildFirePenalty)
	r.AddXP(delta)

	out := cr.outcome(r, model.OutcomeWildFire)
	out.XPDelta = delta

	if cr.rng.Float64() < data.WildFireChance {
		cr.applyAccident(r, lvl, &out, false, now)
	}

	out.Events = append(out.Events, level.Sync(r, prevXP)...)
	out.XP = r.XP
	return out
}

// resolveShot runs the accuracy roll against a present duck. Called under
// the channel lock; returning true removes the duck.
func (cr *Resolver) resolveShot(r *model.Record, d *model.Duck, mods effects.Modifiers, lvl data.Level, now time.Time) (model.Outcome, bool) {
	r.ShotsFired++
	r.Ammo--
	special := mods.SpecialAmmo
	consumeSpecial(r)

	acc := mods.EffectiveAccuracy(lvl.Accuracy)
	if cr.rng.Float64()*100 < acc {
		return cr.resolveHit(r, d, mods, now)
	}
	return cr.resolveMiss(r, d, lvl, special, now)
}

func (cr *Resolver) resolveHit(r *model.Record, d *model.Duck, mods effects.Modifiers, now time.Time) (model.Outcome, bool) {
	var events []model.Event
	if !d.Revealed {
		d.Revealed = true
		events = append(events, model.Event{Kind: model.EventGoldenRevealed})
	}

	damage := 1
	if d.Golden && mods.DamageBonus > 0 {
		damage += mods.DamageBonus
	}
	d.HP -= damage

	if d.Alive() {
		out := cr.outcome(r, model.OutcomeHit)
		out.Duck = &model.DuckInfo{ID: d.ID, Golden: d.Golden, HP: d.HP}
		out.Events = events
		return out, false
	}

	// Duck down: award XP, track reaction time, roll loot, re-level.
	prevXP := r.XP
	award := data.XPKill
	if d.Golden {
		award += data.XPGoldenBonus
		r.GoldenDucks++
	}
	r.DucksShot++
	r.AddXP(award)
	r.LastDuckTime = now.Unix()

	rt := now.Sub(d.SpawnedAt).Seconds()
	r.TotalReactionTime += rt
	if r.BestTime == 0 || rt < r.BestTime {
		r.BestTime = rt
	}

	if ev := loot.Roll(r, cr.rng, now); ev != nil {
		events = append(events, *ev)
	}
	events = append(events, level.Sync(r, prevXP)...)

	out := cr.outcome(r, model.OutcomeKilled)
	out.Duck = &model.DuckInfo{ID: d.ID, Golden: d.Golden, HP: 0}
	out.XPDelta = award
	out.XP = r.XP
	out.ReactionTime = rt
	out.Events = events
	return out, true
}

// resolveMiss applies the miss penalty, then the accidental-hit sub-rolls.
// Wild fire is rolled first; ricochet is rolled only when wild fire did
// not trigger and special ammunition was loaded, so at most one bystander
// is hit per miss. A clean loud miss may still frighten the duck away.
func (cr *Resolver) resolveMiss(r *model.Record, d *model.Duck, lvl data.Level, special bool, now time.Time) (model.Outcome, bool) {
	r.Misses++
	prevXP := r.XP
	delta := cr.penalty(lvl.MissPenalty)
	r.AddXP(delta)

	out := cr.outcome(r, model.OutcomeMissed)
	out.Duck = &model.DuckInfo{ID: d.ID, Golden: d.Golden, HP: d.HP}
	out.XPDelta = delta

	accident := false
	if cr.rng.Float64() < data.WildFireChance {
		accident = cr.applyAccident(r, lvl, &out, false, now)
	}
	if !accident && special {
		chance := data.RicochetChanceAP
		if r.ExplosiveShots > 0 {
			chance = data.RicochetChanceExplosive
		}
		if cr.rng.Float64() < chance {
			accident = cr.applyAccident(r, lvl, &out, true, now)
		}
	}

	remove := false
	if !accident {
		silenced := r.EffectActive(model.EffectSilencer, now.Unix())
		if !silenced && cr.rng.Float64() < data.FrightenChance {
			out.Kind = model.OutcomeFrightened
			remove = true
		}
	}

	out.Events = append(out.Events, level.Sync(r, prevXP)...)
	out.XP = r.XP
	return out, remove
}

// applyAccident redirects a miss into a random other present player.
// The shooter takes the accident penalty (halved under liability
// insurance) and loses the gun. Returns false when nobody was around.
func (cr *Resolver) applyAccident(r *model.Record, lvl data.Level, out *model.Outcome, ricochet bool, now time.Time) bool {
	victim := ""
	if cr.pickVictim != nil {
		victim = cr.pickVictim(r.Network, r.Channel, r.Player)
	}
	if victim == "" {
		return false
	}

	r.Accidents++
	delta := cr.penalty(lvl.AccidentPenalty)
	if r.EffectActive(model.EffectLiabilityInsurance, now.Unix()) {
		delta /= 2
	}
	r.AddXP(delta)
	r.Confiscated = true

	out.Kind = model.OutcomeAccident
	out.Victim = victim
	out.XPDelta += delta
	if ricochet {
		out.Events = append(out.Events, model.Event{Kind: model.EventRicochet, Player: victim})
	}
	out.Events = append(out.Events, model.Event{Kind: model.EventGunConfiscated, Player: r.Player})
	return true
}
