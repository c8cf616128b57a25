// Package level maps experience to hunter levels and keeps ammunition
// capacity consistent across promotions and demotions.
package level

import (
	"log/slog"

	"github.com/featherfall/duckhunt/internal/data"
	"github.com/featherfall/duckhunt/internal/model"
)

// For returns the level properties for a record's current XP.
func For(r *model.Record) data.Level {
	return data.LevelFor(r.XP)
}

// Init sets up level-derived fields on a freshly created record: full
// capacity, full ammo, full magazines.
func Init(r *model.Record) {
	l := data.LevelFor(r.XP)
	r.MagazineCapacity = l.Clip + r.MagUpgradeLevel
	r.MagazinesMax = l.Clips + r.MagCapacityLevel
	r.Ammo = r.MagazineCapacity
	r.Magazines = r.MagazinesMax
}

// Sync recomputes capacity after an XP change. prevXP is the experience
// before the change. On a promotion a hunter who was at the old maximum is
// granted the new maximum, not left at the stale value; on a demotion ammo
// and magazines are re-clamped to the new cap in the same mutation.
// Returns promotion/demotion events for the caller to report.
func Sync(r *model.Record, prevXP int) []model.Event {
	oldLevel := data.LevelFor(prevXP)
	newLevel := data.LevelFor(r.XP)

	wasMaxAmmo := r.MagazineCapacity > 0 && r.Ammo >= r.MagazineCapacity
	wasMaxMags := r.MagazinesMax > 0 && r.Magazines >= r.MagazinesMax

	r.MagazineCapacity = newLevel.Clip + r.MagUpgradeLevel
	r.MagazinesMax = newLevel.Clips + r.MagCapacityLevel

	var events []model.Event
	switch {
	case newLevel.Level > oldLevel.Level:
		if wasMaxAmmo {
			r.Ammo = r.MagazineCapacity
		}
		if wasMaxMags {
			r.Magazines = r.MagazinesMax
		}
		events = append(events, model.Event{Kind: model.EventLevelUp, Level: newLevel.Level})
	case newLevel.Level < oldLevel.Level:
		events = append(events, model.Event{Kind: model.EventLevelDown, Level: newLevel.Level})
	}

	// Demotion (and any drift) must never leave ammo above the new cap.
	if r.ClampAmmo() && newLevel.Level >= oldLevel.Level {
		slog.Warn("ammo state clamped outside level change",
			"network", r.Network, "channel", r.Channel, "player", r.Player,
			"ammo", r.Ammo, "capacity", r.MagazineCapacity)
	}

	return events
}

// Backfill repairs records persisted with a zero magazine capacity by
// recomputing it from XP and purchased upgrades. Mirrors the one-off
// repair the original data needed; applied on every load so stale rows
// heal themselves.
func Backfill(r *model.Record) bool {
	if r.MagazineCapacity > 0 {
		return false
	}
	l := data.LevelFor(r.XP)
	r.MagazineCapacity = l.Clip + r.MagUpgradeLevel
	r.MagazinesMax = l.Clips + r.MagCapacityLevel
	r.ClampAmmo()
	return true
}
