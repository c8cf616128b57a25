package shop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featherfall/duckhunt/internal/data"
	"github.com/featherfall/duckhunt/internal/game/level"
	"github.com/featherfall/duckhunt/internal/model"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newBuyer(xp int) *model.Record {
	r := model.NewRecord("libera", "#ducks", "alice")
	r.XP = xp
	level.Init(r)
	return r
}

func itemID(t *testing.T, slug string) int {
	t.Helper()
	it := data.ItemBySlug(slug)
	require.NotNil(t, it, "catalog is missing %q", slug)
	return it.ID
}

func TestCatalogEffectsAreKnownKinds(t *testing.T) {
	known := make(map[string]bool, len(model.EffectKinds))
	for _, k := range model.EffectKinds {
		known[string(k)] = true
	}
	for _, it := range data.Items {
		if it.Class == data.ClassTimed {
			assert.True(t, known[it.Effect], "item %q names unknown effect %q", it.Slug, it.Effect)
		}
	}
}

func TestPurchaseUnknownItem(t *testing.T) {
	buyer := newBuyer(1000)
	res := Purchase(buyer, nil, 9999, now)
	assert.Equal(t, model.OutcomeUnknownItem, res.Outcome)
	assert.Equal(t, 1000, buyer.XP)
}

func TestPurchaseInsufficientXP(t *testing.T) {
	buyer := newBuyer(3)
	res := Purchase(buyer, nil, itemID(t, "silencer"), now)
	assert.Equal(t, model.OutcomeInsufficientXP, res.Outcome)
	assert.Equal(t, 5, res.Price)
	assert.Equal(t, 3, buyer.XP)
}

func TestPurchaseTimedEffect(t *testing.T) {
	buyer := newBuyer(1000)
	res := Purchase(buyer, nil, itemID(t, "silencer"), now)

	assert.Equal(t, model.OutcomePurchased, res.Outcome)
	assert.Equal(t, 995, buyer.XP)
	assert.Equal(t, now.Add(24*time.Hour).Unix(), buyer.Effect(model.EffectSilencer).Until)

	// Buying again while live extends from the new purchase time.
	later := now.Add(time.Hour)
	res = Purchase(buyer, nil, itemID(t, "silencer"), later)
	assert.Equal(t, model.OutcomeRenewed, res.Outcome)
	assert.Equal(t, later.Add(24*time.Hour).Unix(), buyer.Effect(model.EffectSilencer).Until)
	assert.Equal(t, 990, buyer.XP, "a renewal still costs full price")
}

func TestPurchaseTriggerLockRefreshesUses(t *testing.T) {
	buyer := newBuyer(1000)
	Purchase(buyer, nil, itemID(t, "trigger_lock"), now)
	assert.Equal(t, 6, buyer.Effect(model.EffectTriggerLock).Uses)

	buyer.ConsumeEffectUse(model.EffectTriggerLock)
	buyer.ConsumeEffectUse(model.EffectTriggerLock)

	res := Purchase(buyer, nil, itemID(t, "trigger_lock"), now.Add(time.Hour))
	assert.Equal(t, model.OutcomeRenewed, res.Outcome)
	assert.Equal(t, 6, buyer.Effect(model.EffectTriggerLock).Uses, "uses refresh, they do not stack")
}

func TestPurchaseDetectorUsesAccumulate(t *testing.T) {
	buyer := newBuyer(1000)
	Purchase(buyer, nil, itemID(t, "ducks_detector"), now)
	assert.Equal(t, 10, buyer.Effect(model.EffectDucksDetector).Uses)

	res := Purchase(buyer, nil, itemID(t, "ducks_detector"), now)
	assert.Equal(t, model.OutcomeRenewed, res.Outcome)
	assert.Equal(t, 20, buyer.Effect(model.EffectDucksDetector).Uses)
}

func TestPurchaseConsumableNotStacking(t *testing.T) {
	buyer := newBuyer(1000)
	res := Purchase(buyer, nil, itemID(t, "ap_ammo"), now)
	require.Equal(t, model.OutcomePurchased, res.Outcome)
	assert.Equal(t, 20, buyer.APShots)

	res = Purchase(buyer, nil, itemID(t, "ap_ammo"), now)
	assert.Equal(t, model.OutcomeAlreadyOwned, res.Outcome)
	assert.Equal(t, 20, buyer.APShots)
	assert.Equal(t, 985, buyer.XP, "a refused purchase charges nothing")
}

func TestPurchaseInstantPreconditions(t *testing.T) {
	tests := []struct {
		name   string
		slug   string
		prep   func(r *model.Record)
		want   model.OutcomeKind
		verify func(t *testing.T, r *model.Record)
	}{
		{
			name: "extra bullet at full magazine refused",
			slug: "extra_bullet",
			prep: func(r *model.Record) {},
			want: model.OutcomeNotApplicable,
		},
		{
			name: "extra bullet tops up",
			slug: "extra_bullet",
			prep: func(r *model.Record) { r.Ammo-- },
			want: model.OutcomePurchased,
			verify: func(t *testing.T, r *model.Record) {
				assert.Equal(t, r.MagazineCapacity, r.Ammo)
			},
		},
		{
			name: "spare clothes without egg refused",
			slug: "spare_clothes",
			prep: func(r *model.Record) {},
			want: model.OutcomeNotApplicable,
		},
		{
			name: "spare clothes clean the egg",
			slug: "spare_clothes",
			prep: func(r *model.Record) { r.Egged = true },
			want: model.OutcomePurchased,
			verify: func(t *testing.T, r *model.Record) {
				assert.False(t, r.Egged)
			},
		},
		{
			name: "repurchase with gun in hand refused",
			slug: "repurchase_gun",
			prep: func(r *model.Record) {},
			want: model.OutcomeNotApplicable,
		},
		{
			name: "repurchase returns the gun",
			slug: "repurchase_gun",
			prep: func(r *model.Record) { r.Confiscated = true },
			want: model.OutcomePurchased,
			verify: func(t *testing.T, r *model.Record) {
				assert.False(t, r.Confiscated)
			},
		},
		{
			name: "brush without sand refused",
			slug: "brush",
			prep: func(r *model.Record) {},
			want: model.OutcomeNotApplicable,
		},
		{
			name: "brush scrubs the sand out",
			slug: "brush",
			prep: func(r *model.Record) {
				r.Effects[model.EffectSand] = model.TimedEffect{Until: now.Add(time.Hour).Unix()}
			},
			want: model.OutcomePurchased,
			verify: func(t *testing.T, r *model.Record) {
				assert.NotContains(t, r.Effects, model.EffectSand)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buyer := newBuyer(1000)
			tt.prep(buyer)
			res := Purchase(buyer, nil, itemID(t, tt.slug), now)
			assert.Equal(t, tt.want, res.Outcome)
			if tt.want != model.OutcomePurchased {
				assert.Equal(t, 1000, buyer.XP, "refused purchases never charge")
			}
			if tt.verify != nil {
				tt.verify(t, buyer)
			}
		})
	}
}

func TestPurchaseTargetDirected(t *testing.T) {
	buyer := newBuyer(1000)
	target := model.NewRecord("libera", "#ducks", "bob")
	level.Init(target)

	res := Purchase(buyer, nil, itemID(t, "sand"), now)
	assert.Equal(t, model.OutcomeInvalidTarget, res.Outcome, "other-directed items need a target")

	res = Purchase(buyer, target, itemID(t, "sand"), now)
	require.Equal(t, model.OutcomePurchased, res.Outcome)
	assert.True(t, target.EffectActive(model.EffectSand, now.Unix()), "the affliction lands on the target")
	assert.False(t, buyer.EffectActive(model.EffectSand, now.Unix()))
	assert.Equal(t, 993, buyer.XP, "the buyer pays")

	// An already-sanded gun cannot be sanded again.
	res = Purchase(buyer, target, itemID(t, "sand"), now)
	assert.Equal(t, model.OutcomeNotApplicable, res.Outcome)
	assert.Equal(t, 993, buyer.XP)
}

func TestPurchaseSabotage(t *testing.T) {
	buyer := newBuyer(1000)
	target := model.NewRecord("libera", "#ducks", "bob")
	level.Init(target)

	res := Purchase(buyer, target, itemID(t, "sabotage"), now)
	require.Equal(t, model.OutcomePurchased, res.Outcome)
	assert.True(t, target.Sabotaged)
	assert.False(t, buyer.Sabotaged)

	res = Purchase(buyer, target, itemID(t, "sabotage"), now)
	assert.Equal(t, model.OutcomeNotApplicable, res.Outcome)
}

func TestUpgradePriceDoubles(t *testing.T) {
	buyer := newBuyer(10_000)
	clip := data.ItemBySlug("clip_upgrade")
	require.NotNil(t, clip)

	assert.Equal(t, 200, Price(buyer, clip))

	res := Purchase(buyer, nil, clip.ID, now)
	require.Equal(t, model.OutcomePurchased, res.Outcome)
	assert.Equal(t, 200, res.Price)
	assert.Equal(t, 1, buyer.MagUpgradeLevel)

	assert.Equal(t, 400, Price(buyer, clip))
	res = Purchase(buyer, nil, clip.ID, now)
	require.Equal(t, model.OutcomePurchased, res.Outcome)
	assert.Equal(t, 400, res.Price)
}

func TestUpgradeCapped(t *testing.T) {
	buyer := newBuyer(1_000_000)
	buyer.MagUpgradeLevel = data.MaxUpgradeLevel
	res := Purchase(buyer, nil, itemID(t, "clip_upgrade"), now)
	assert.Equal(t, model.OutcomeNotApplicable, res.Outcome)
}

func TestUpgradeRaisesCapacityImmediately(t *testing.T) {
	buyer := newBuyer(10_000)
	capBefore := buyer.MagazineCapacity
	res := Purchase(buyer, nil, itemID(t, "clip_upgrade"), now)
	require.Equal(t, model.OutcomePurchased, res.Outcome)
	assert.Equal(t, capBefore+1, buyer.MagazineCapacity)
}
