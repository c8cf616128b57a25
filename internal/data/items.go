package data

import "time"

// TargetReq says who an item applies to.
type TargetReq string

const (
	TargetSelf  TargetReq = "self"
	TargetOther TargetReq = "other"
)

// ItemClass is the duration class of a catalog entry.
type ItemClass string

const (
	ClassInstant    ItemClass = "instant"
	ClassTimed      ItemClass = "timed"
	ClassConsumable ItemClass = "consumable"
	ClassUpgrade    ItemClass = "upgrade"
)

// Item is one purchasable catalog entry. Effect names the timed-effect
// kind a ClassTimed item grants (matching model.EffectKind values).
type Item struct {
	ID       int
	Slug     string
	Name     string
	Price    int // XP cost
	Target   TargetReq
	Class    ItemClass
	Duration time.Duration // ClassTimed only
	Effect   string        // ClassTimed only
	Charges  int           // charge count for consumables / uses-limited effects
}

// Items is the static shop catalog.
var Items = []Item{
	{ID: 1, Slug: "extra_bullet", Name: "Extra bullet", Price: 7, Target: TargetSelf, Class: ClassInstant},
	{ID: 2, Slug: "extra_magazine", Name: "Extra magazine", Price: 20, Target: TargetSelf, Class: ClassInstant},
	{ID: 3, Slug: "ap_ammo", Name: "AP ammo", Price: 15, Target: TargetSelf, Class: ClassConsumable, Charges: 20},
	{ID: 4, Slug: "explosive_ammo", Name: "Explosive ammo", Price: 25, Target: TargetSelf, Class: ClassConsumable, Charges: 20},
	{ID: 5, Slug: "repurchase_gun", Name: "Repurchase confiscated gun", Price: 40, Target: TargetSelf, Class: ClassInstant},
	{ID: 6, Slug: "grease", Name: "Grease", Price: 8, Target: TargetSelf, Class: ClassTimed, Duration: 24 * time.Hour, Effect: "grease"},
	{ID: 7, Slug: "trigger_lock", Name: "Trigger lock", Price: 24, Target: TargetSelf, Class: ClassTimed, Duration: 24 * time.Hour, Effect: "trigger_lock", Charges: 6},
	{ID: 8, Slug: "silencer", Name: "Silencer", Price: 5, Target: TargetSelf, Class: ClassTimed, Duration: 24 * time.Hour, Effect: "silencer"},
	{ID: 9, Slug: "sunglasses", Name: "Sunglasses", Price: 5, Target: TargetSelf, Class: ClassTimed, Duration: 24 * time.Hour, Effect: "sunglasses"},
	{ID: 10, Slug: "spare_clothes", Name: "Spare clothes", Price: 7, Target: TargetSelf, Class: ClassInstant},
	{ID: 11, Slug: "brush", Name: "Brush for gun", Price: 7, Target: TargetSelf, Class: ClassInstant},
	{ID: 12, Slug: "mirror", Name: "Mirror", Price: 7, Target: TargetOther, Class: ClassTimed, Duration: 24 * time.Hour, Effect: "mirror"},
	{ID: 13, Slug: "sand", Name: "Handful of sand", Price: 7, Target: TargetOther, Class: ClassTimed, Duration: 24 * time.Hour, Effect: "sand"},
	{ID: 14, Slug: "water_bucket", Name: "Water bucket", Price: 10, Target: TargetOther, Class: ClassTimed, Duration: time.Hour, Effect: "soaked"},
	{ID: 15, Slug: "sabotage", Name: "Sabotage", Price: 14, Target: TargetOther, Class: ClassInstant},
	{ID: 16, Slug: "life_insurance", Name: "Life insurance", Price: 10, Target: TargetSelf, Class: ClassTimed, Duration: 24 * time.Hour, Effect: "life_insurance"},
	{ID: 17, Slug: "liability_insurance", Name: "Liability insurance", Price: 12, Target: TargetSelf, Class: ClassTimed, Duration: 24 * time.Hour, Effect: "liability_insurance"},
	{ID: 18, Slug: "bread", Name: "Bread", Price: 50, Target: TargetSelf, Class: ClassConsumable, Charges: 20},
	{ID: 19, Slug: "ducks_detector", Name: "Ducks detector", Price: 50, Target: TargetSelf, Class: ClassTimed, Effect: "ducks_detector", Charges: 10},
	{ID: 20, Slug: "clip_upgrade", Name: "Upgraded clip", Price: 200, Target: TargetSelf, Class: ClassUpgrade},
	{ID: 21, Slug: "magazine_upgrade", Name: "Extra magazine pouch", Price: 150, Target: TargetSelf, Class: ClassUpgrade},
	{ID: 22, Slug: "rotten_egg", Name: "Rotten egg", Price: 5, Target: TargetOther, Class: ClassInstant},
}

// ItemByID returns the catalog entry for id, or nil.
func ItemByID(id int) *Item {
	for i := range Items {
		if Items[i].ID == id {
			return &Items[i]
		}
	}
	return nil
}

// ItemBySlug returns the catalog entry for slug, or nil.
func ItemBySlug(slug string) *Item {
	for i := range Items {
		if Items[i].Slug == slug {
			return &Items[i]
		}
	}
	return nil
}
