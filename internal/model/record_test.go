package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testTime() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

func TestRecordClone(t *testing.T) {
	r := NewRecord("libera", "#ducks", "alice")
	r.XP = 120
	r.Effects[EffectGrease] = TimedEffect{Until: 500}

	cp := r.Clone()
	cp.XP = 999
	cp.Effects[EffectGrease] = TimedEffect{Until: 1}
	cp.Effects[EffectSand] = TimedEffect{Until: 2}

	assert.Equal(t, 120, r.XP)
	assert.Equal(t, int64(500), r.Effects[EffectGrease].Until)
	assert.NotContains(t, r.Effects, EffectSand)
}

func TestTimedEffectActiveAt(t *testing.T) {
	tests := []struct {
		name   string
		effect TimedEffect
		now    int64
		want   bool
	}{
		{name: "live expiry", effect: TimedEffect{Until: 100}, now: 99, want: true},
		{name: "expired", effect: TimedEffect{Until: 100}, now: 100, want: false},
		{name: "uses without expiry", effect: TimedEffect{Uses: 3}, now: 100, want: true},
		{name: "spent uses", effect: TimedEffect{}, now: 100, want: false},
		{name: "expired but uses tracked under expiry", effect: TimedEffect{Until: 50, Uses: 2}, now: 100, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.effect.ActiveAt(tt.now))
		})
	}
}

func TestRefreshEffectNeverMovesBackwards(t *testing.T) {
	r := NewRecord("libera", "#ducks", "alice")

	renewed := r.RefreshEffect(EffectSilencer, 1000, 500)
	assert.False(t, renewed, "first purchase is not a renewal")
	assert.Equal(t, int64(1000), r.Effect(EffectSilencer).Until)

	renewed = r.RefreshEffect(EffectSilencer, 2000, 600)
	assert.True(t, renewed, "extending a live effect is a renewal")
	assert.Equal(t, int64(2000), r.Effect(EffectSilencer).Until)

	// A shorter target expiry must not shrink the window.
	r.RefreshEffect(EffectSilencer, 1500, 700)
	assert.Equal(t, int64(2000), r.Effect(EffectSilencer).Until)
}

func TestConsumeEffectUse(t *testing.T) {
	r := NewRecord("libera", "#ducks", "alice")
	r.AddEffectUses(EffectDucksDetector, 2)

	r.ConsumeEffectUse(EffectDucksDetector)
	assert.Equal(t, 1, r.Effect(EffectDucksDetector).Uses)

	// Spending the last use of an expiry-free effect drops the entry.
	r.ConsumeEffectUse(EffectDucksDetector)
	assert.NotContains(t, r.Effects, EffectDucksDetector)

	// With an expiry tracked the entry survives at zero uses.
	r.Effects[EffectTriggerLock] = TimedEffect{Until: 999, Uses: 1}
	r.ConsumeEffectUse(EffectTriggerLock)
	assert.Contains(t, r.Effects, EffectTriggerLock)
	assert.Equal(t, 0, r.Effect(EffectTriggerLock).Uses)
}

func TestClampAmmo(t *testing.T) {
	r := NewRecord("libera", "#ducks", "alice")
	r.MagazineCapacity = 4
	r.MagazinesMax = 2

	r.Ammo = 6
	r.Magazines = 5
	assert.True(t, r.ClampAmmo())
	assert.Equal(t, 4, r.Ammo)
	assert.Equal(t, 2, r.Magazines)

	assert.False(t, r.ClampAmmo(), "in-range state must not report clamping")

	r.Ammo = -1
	assert.True(t, r.ClampAmmo())
	assert.Equal(t, 0, r.Ammo)
}

func TestAddXPFloorsAtZero(t *testing.T) {
	r := NewRecord("libera", "#ducks", "alice")
	r.XP = 3
	r.AddXP(-250)
	assert.Equal(t, 0, r.XP)
	r.AddXP(10)
	assert.Equal(t, 10, r.XP)
}

func TestNewDuck(t *testing.T) {
	normal := NewDuck(1, false, testTime())
	assert.Equal(t, NormalDuckHP, normal.HP)
	assert.True(t, normal.Revealed)

	golden := NewDuck(2, true, testTime())
	assert.Equal(t, GoldenDuckHP, golden.HP)
	assert.False(t, golden.Revealed, "golden ducks hide their kind until hit")
	assert.True(t, golden.Alive())
}
