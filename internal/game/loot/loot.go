// Package loot rolls the weighted drop table on qualifying kills and
// applies the result as a zero-cost purchase.
package loot

import (
	"math/rand/v2"
	"time"

	"github.com/featherfall/duckhunt/internal/data"
	"github.com/featherfall/duckhunt/internal/game/shop"
	"github.com/featherfall/duckhunt/internal/model"
)

// Roll runs the drop chance for a qualifying kill (non-befriend,
// successful elimination). Returns nil when nothing dropped, or a loot
// event whose Item is empty when the duck carried only junk.
func Roll(r *model.Record, rng *rand.Rand, now time.Time) *model.Event {
	if rng.Float64() >= data.LootChance {
		return nil
	}

	slug := pick(rng)
	ev := &model.Event{Kind: model.EventLoot, Item: slug}
	if slug == "" {
		return ev
	}

	item := data.ItemBySlug(slug)
	if item == nil {
		return ev
	}
	// Applied exactly like a purchase, minus the price: refresh-not-stack
	// for timed drops, already-owned consumables are simply kept.
	shop.Apply(r, r, item, now)
	return ev
}

func pick(rng *rand.Rand) string {
	total := data.LootTotalWeight()
	roll := rng.IntN(total)
	for _, e := range data.LootTable {
		roll -= e.Weight
		if roll < 0 {
			return e.Item
		}
	}
	return ""
}
