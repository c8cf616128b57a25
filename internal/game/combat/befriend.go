package combat

import (
	"time"

	"github.com/featherfall/duckhunt/internal/data"
	"github.com/featherfall/duckhunt/internal/game/effects"
	"github.com/featherfall/duckhunt/internal/game/level"
	"github.com/featherfall/duckhunt/internal/model"
)

// Befriend resolves one befriend attempt. It passes the same ammo and jam
// gates as a shot but substitutes the befriending roll: bread closes half
// the accuracy gap, golden ducks resist without it. A befriend attempt
// spends ammo like a shot but does not count as a shot fired.
func (cr *Resolver) Befriend(r *model.Record, now time.Time) model.Outcome {
	mods := effects.Compute(r, now)
	if o := cr.gate(r, mods, false); o != nil {
		return *o
	}

	lvl := level.For(r)

	var out model.Outcome
	hadDuck := cr.ducks.WithOldest(r.Network, r.Channel, func(d *model.Duck) bool {
		var remove bool
		out, remove = cr.resolveBefriend(r, d, lvl, now)
		return remove
	})
	if hadDuck {
		return out
	}

	// No duck to charm. Befriending into an empty sky is a safe no-op:
	// only live fire has a wild-fire path.
	return cr.outcome(r, model.OutcomeNoDuck)
}

func (cr *Resolver) resolveBefriend(r *model.Record, d *model.Duck, lvl data.Level, now time.Time) (model.Outcome, bool) {
	r.Ammo--

	chance := float64(lvl.Accuracy)
	usedBread := false
	if r.BreadUses > 0 {
		r.BreadUses--
		usedBread = true
		chance += (100 - chance) * data.BreadGapClose
	}
	if d.Golden && !usedBread {
		chance *= data.GoldenTameFactor
	}
	if chance >= 100 {
		chance = 99.9
	}

	if cr.rng.Float64()*100 < chance {
		return cr.resolveTame(r, d, now)
	}

	// A rebuffed duck can only take so much. One that already hissed
	// flees at the next miss, by anyone, at a steep cost.
	if d.Hissed {
		prevXP := r.XP
		r.AddXP(data.XPHissedFleePenalty)
		out := cr.outcome(r, model.OutcomeDuckFled)
		out.Duck = &model.DuckInfo{ID: d.ID, Golden: d.Golden, HP: d.HP}
		out.XPDelta = data.XPHissedFleePenalty
		out.Events = level.Sync(r, prevXP)
		out.XP = r.XP
		return out, true
	}

	out := cr.outcome(r, model.OutcomeBefriendMissed)
	out.Duck = &model.DuckInfo{ID: d.ID, Golden: d.Golden, HP: d.HP}
	if cr.rng.Float64() < data.HissChance {
		d.Hissed = true
		out.Events = append(out.Events, model.Event{Kind: model.EventDuckHissed})
	}
	return out, false
}

func (cr *Resolver) resolveTame(r *model.Record, d *model.Duck, now time.Time) (model.Outcome, bool) {
	var events []model.Event
	if !d.Revealed {
		d.Revealed = true
		events = append(events, model.Event{Kind: model.EventGoldenRevealed})
	}

	d.HP--
	if d.Alive() {
		out := cr.outcome(r, model.OutcomeTamed)
		out.Duck = &model.DuckInfo{ID: d.ID, Golden: d.Golden, HP: d.HP}
		out.Events = events
		return out, false
	}

	prevXP := r.XP
	award := data.XPBefriend
	if d.Golden {
		award += data.XPGoldenTameBonus
	}
	r.BefriendedDucks++
	r.AddXP(award)
	r.LastDuckTime = now.Unix()
	events = append(events, level.Sync(r, prevXP)...)

	out := cr.outcome(r, model.OutcomeBefriended)
	out.Duck = &model.DuckInfo{ID: d.ID, Golden: d.Golden, HP: 0}
	out.XPDelta = award
	out.XP = r.XP
	out.Events = events
	return out, true
}

// Reload clears a jam or swaps in a fresh magazine, whichever applies.
func (cr *Resolver) Reload(r *model.Record, now time.Time) model.Outcome {
	if r.Confiscated {
		return cr.outcome(r, model.OutcomeConfiscated)
	}
	if r.Jammed {
		r.Jammed = false
		return cr.outcome(r, model.OutcomeUnjammed)
	}
	if r.Ammo == 0 {
		if r.Magazines == 0 {
			return cr.outcome(r, model.OutcomeEmptyMagazine)
		}
		r.Magazines--
		r.Ammo = r.MagazineCapacity
		return cr.outcome(r, model.OutcomeReloaded)
	}
	return cr.outcome(r, model.OutcomeNothingToDo)
}
