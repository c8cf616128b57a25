// Package shop validates and executes catalog purchases, including
// target-directed items that modify another player's record.
package shop

import (
	"time"

	"github.com/featherfall/duckhunt/internal/data"
	"github.com/featherfall/duckhunt/internal/game/level"
	"github.com/featherfall/duckhunt/internal/model"
)

// Result is the structured outcome of a purchase attempt. On any outcome
// other than Purchased/Renewed no XP is spent and no state is mutated:
// validation happens before the deduction, so a refused purchase is a
// refund by construction.
type Result struct {
	Outcome model.OutcomeKind
	Item    *data.Item
	Price   int // actual XP charged (upgrades scale with level)
	Events  []model.Event
}

// Price returns the actual cost of item for buyer. Upgrade prices double
// per already-purchased level.
func Price(buyer *model.Record, item *data.Item) int {
	if item.Class != data.ClassUpgrade {
		return item.Price
	}
	lvl := buyer.MagUpgradeLevel
	if item.Slug == "magazine_upgrade" {
		lvl = buyer.MagCapacityLevel
	}
	price := item.Price
	for i := 0; i < lvl; i++ {
		price *= data.UpgradePriceFactor
	}
	return price
}

// Purchase validates and executes a purchase. target must be the resolved
// target record for other-directed items (presence in the channel is the
// caller's check) and nil otherwise. Target-directed effects persist to
// the target's own record, never the buyer's.
func Purchase(buyer, target *model.Record, itemID int, now time.Time) Result {
	item := data.ItemByID(itemID)
	if item == nil {
		return Result{Outcome: model.OutcomeUnknownItem}
	}

	if item.Target == data.TargetOther && target == nil {
		return Result{Outcome: model.OutcomeInvalidTarget, Item: item}
	}
	if item.Target == data.TargetSelf {
		target = buyer
	}

	price := Price(buyer, item)
	if buyer.XP < price {
		return Result{Outcome: model.OutcomeInsufficientXP, Item: item, Price: price}
	}

	outcome := Apply(buyer, target, item, now)
	if outcome != model.OutcomePurchased && outcome != model.OutcomeRenewed {
		return Result{Outcome: outcome, Item: item, Price: price}
	}

	prevXP := buyer.XP
	buyer.AddXP(-price)
	events := level.Sync(buyer, prevXP)

	return Result{Outcome: outcome, Item: item, Price: price, Events: events}
}

// Apply executes the item's effect without charging anyone. The loot
// engine reuses it so a dropped item behaves exactly like a zero-cost
// purchase, refresh semantics included.
func Apply(buyer, target *model.Record, item *data.Item, now time.Time) model.OutcomeKind {
	if target == nil {
		target = buyer
	}
	switch item.Class {
	case data.ClassInstant:
		return applyInstant(buyer, target, item, now)
	case data.ClassConsumable:
		return applyConsumable(target, item)
	case data.ClassTimed:
		return applyTimed(buyer, target, item, now)
	case data.ClassUpgrade:
		return applyUpgrade(buyer, item)
	}
	return model.OutcomeUnknownItem
}

func applyInstant(buyer, target *model.Record, item *data.Item, now time.Time) model.OutcomeKind {
	switch item.Slug {
	case "extra_bullet":
		if buyer.Ammo >= buyer.MagazineCapacity {
			return model.OutcomeNotApplicable
		}
		buyer.Ammo++
	case "extra_magazine":
		if buyer.Magazines >= buyer.MagazinesMax {
			return model.OutcomeNotApplicable
		}
		buyer.Magazines++
	case "repurchase_gun":
		if !buyer.Confiscated {
			return model.OutcomeNotApplicable
		}
		buyer.Confiscated = false
	case "spare_clothes":
		if !buyer.Egged {
			return model.OutcomeNotApplicable
		}
		buyer.Egged = false
	case "brush":
		if !buyer.EffectActive(model.EffectSand, now.Unix()) {
			return model.OutcomeNotApplicable
		}
		buyer.ClearEffect(model.EffectSand)
	case "sabotage":
		if target.Sabotaged {
			return model.OutcomeNotApplicable
		}
		target.Sabotaged = true
	case "rotten_egg":
		if target.Egged {
			return model.OutcomeNotApplicable
		}
		target.Egged = true
	default:
		return model.OutcomeUnknownItem
	}
	return model.OutcomePurchased
}

func applyConsumable(target *model.Record, item *data.Item) model.OutcomeKind {
	switch item.Slug {
	case "ap_ammo":
		if target.APShots > 0 {
			return model.OutcomeAlreadyOwned
		}
		target.APShots = item.Charges
	case "explosive_ammo":
		if target.ExplosiveShots > 0 {
			return model.OutcomeAlreadyOwned
		}
		target.ExplosiveShots = item.Charges
	case "bread":
		if target.BreadUses > 0 {
			return model.OutcomeAlreadyOwned
		}
		target.BreadUses = item.Charges
	default:
		return model.OutcomeUnknownItem
	}
	return model.OutcomePurchased
}

func applyTimed(buyer, target *model.Record, item *data.Item, now time.Time) model.OutcomeKind {
	kind := model.EffectKind(item.Effect)
	ts := now.Unix()

	// Detector uses accumulate across purchases; everything else refreshes.
	if kind == model.EffectDucksDetector {
		renewed := target.Effect(kind).Uses > 0
		target.AddEffectUses(kind, item.Charges)
		if renewed {
			return model.OutcomeRenewed
		}
		return model.OutcomePurchased
	}

	// Other-directed effects never stack or extend: an already-afflicted
	// target refunds the buyer instead of doubling up.
	if item.Target == data.TargetOther && target.EffectActive(kind, ts) {
		return model.OutcomeNotApplicable
	}

	until := now.Add(item.Duration).Unix()
	renewed := target.RefreshEffect(kind, until, ts)
	if item.Charges > 0 {
		e := target.Effect(kind)
		e.Uses = item.Charges // refreshed, not stacked
		target.Effects[kind] = e
	}
	if renewed {
		return model.OutcomeRenewed
	}
	return model.OutcomePurchased
}

func applyUpgrade(buyer *model.Record, item *data.Item) model.OutcomeKind {
	switch item.Slug {
	case "clip_upgrade":
		if buyer.MagUpgradeLevel >= data.MaxUpgradeLevel {
			return model.OutcomeNotApplicable
		}
		buyer.MagUpgradeLevel++
		buyer.MagazineCapacity++
	case "magazine_upgrade":
		if buyer.MagCapacityLevel >= data.MaxUpgradeLevel {
			return model.OutcomeNotApplicable
		}
		buyer.MagCapacityLevel++
		buyer.MagazinesMax++
	default:
		return model.OutcomeUnknownItem
	}
	return model.OutcomePurchased
}
