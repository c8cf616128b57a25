package effects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/featherfall/duckhunt/internal/model"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func activeUntil(d time.Duration) model.TimedEffect {
	return model.TimedEffect{Until: now.Add(d).Unix()}
}

func TestComputeBaseline(t *testing.T) {
	r := model.NewRecord("libera", "#ducks", "alice")
	m := Compute(r, now)

	assert.Equal(t, 1.0, m.JamFactor)
	assert.Zero(t, m.AccuracyGapClose)
	assert.Zero(t, m.DamageBonus)
	assert.False(t, m.SpecialAmmo)
	assert.False(t, m.DetectorActive)
	assert.False(t, m.LockoutActive)
	assert.False(t, m.Dazzled)
	assert.False(t, m.Soaked)
	assert.False(t, m.ShootSuppressed)
}

func TestComputeSpecialAmmo(t *testing.T) {
	r := model.NewRecord("libera", "#ducks", "alice")
	r.APShots = 5

	m := Compute(r, now)
	assert.True(t, m.SpecialAmmo)
	assert.Equal(t, 0.25, m.AccuracyGapClose)
	assert.Equal(t, 1, m.DamageBonus)
}

func TestComputeJamFactorStacks(t *testing.T) {
	r := model.NewRecord("libera", "#ducks", "alice")
	r.Effects[model.EffectGrease] = activeUntil(time.Hour)
	assert.Equal(t, 0.5, Compute(r, now).JamFactor)

	// Sand thrown at a greased gun: both factors apply.
	r.Effects[model.EffectSand] = activeUntil(time.Hour)
	assert.Equal(t, 1.0, Compute(r, now).JamFactor)

	r.ClearEffect(model.EffectGrease)
	assert.Equal(t, 2.0, Compute(r, now).JamFactor)
}

func TestComputeExpiredEffectsIgnored(t *testing.T) {
	r := model.NewRecord("libera", "#ducks", "alice")
	r.Effects[model.EffectGrease] = activeUntil(-time.Minute)
	r.Effects[model.EffectSoaked] = activeUntil(-time.Second)

	m := Compute(r, now)
	assert.Equal(t, 1.0, m.JamFactor)
	assert.False(t, m.Soaked)
}

func TestComputeDazzle(t *testing.T) {
	r := model.NewRecord("libera", "#ducks", "alice")
	r.Effects[model.EffectMirror] = activeUntil(time.Hour)
	assert.True(t, Compute(r, now).Dazzled)

	// Sunglasses cancel the mirror without removing it.
	r.Effects[model.EffectSunglasses] = activeUntil(time.Hour)
	assert.False(t, Compute(r, now).Dazzled)
}

func TestComputeDetectorAndLockout(t *testing.T) {
	r := model.NewRecord("libera", "#ducks", "alice")
	r.AddEffectUses(model.EffectDucksDetector, 3)
	assert.True(t, Compute(r, now).DetectorActive)

	r.Effects[model.EffectTriggerLock] = model.TimedEffect{Until: now.Add(time.Hour).Unix(), Uses: 6}
	assert.True(t, Compute(r, now).LockoutActive)

	// A lock past its window is inert even with uses left.
	r.Effects[model.EffectTriggerLock] = model.TimedEffect{Until: now.Add(-time.Hour).Unix(), Uses: 6}
	assert.False(t, Compute(r, now).LockoutActive)
}

func TestComputeEgged(t *testing.T) {
	r := model.NewRecord("libera", "#ducks", "alice")
	r.Egged = true
	assert.True(t, Compute(r, now).ShootSuppressed)
}

func TestEffectiveAccuracy(t *testing.T) {
	tests := []struct {
		name string
		mods Modifiers
		base int
		want float64
	}{
		{name: "plain", mods: Modifiers{}, base: 55, want: 55},
		{name: "special ammo closes quarter gap", mods: Modifiers{AccuracyGapClose: 0.25}, base: 60, want: 70},
		{name: "dazzled halves", mods: Modifiers{Dazzled: true}, base: 80, want: 40},
		{name: "never reaches certainty", mods: Modifiers{AccuracyGapClose: 0.25}, base: 100, want: 99.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.mods.EffectiveAccuracy(tt.base), 1e-9)
		})
	}
}

func TestJamChance(t *testing.T) {
	m := Modifiers{JamFactor: 1.0}
	assert.InDelta(t, 0.15, m.JamChance(85), 1e-9)

	m.JamFactor = 0.5
	assert.InDelta(t, 0.075, m.JamChance(85), 1e-9)

	m.JamFactor = 20
	assert.Equal(t, 1.0, m.JamChance(0), "jam chance is capped at certainty")
}
