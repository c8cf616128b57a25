package combat

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featherfall/duckhunt/internal/game/level"
	"github.com/featherfall/duckhunt/internal/model"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// Scripted draws. Float64 reads the low 53 bits, so rollLow yields 0.0
// (every roll succeeds) and rollHigh yields just under 1.0 (every roll
// fails). Exhausted scripts keep returning rollHigh.
const (
	rollLow  uint64 = 0
	rollHigh uint64 = 1<<53 - 1
)

type scriptSource struct {
	values []uint64
	pos    int
}

func (s *scriptSource) Uint64() uint64 {
	if s.pos < len(s.values) {
		v := s.values[s.pos]
		s.pos++
		return v
	}
	return rollHigh
}

// duckPen is an in-memory DuckSource holding one channel's ducks.
type duckPen struct {
	ducks []*model.Duck
}

func (p *duckPen) add(d *model.Duck) { p.ducks = append(p.ducks, d) }

func (p *duckPen) WithOldest(_, _ string, fn func(d *model.Duck) bool) bool {
	if len(p.ducks) == 0 {
		return false
	}
	if fn(p.ducks[0]) {
		p.ducks = p.ducks[1:]
	}
	return true
}

func newTestResolver(pen *duckPen, victim string, script ...uint64) *Resolver {
	rng := rand.New(&scriptSource{values: script})
	return NewResolver(pen, rng, func(_, _, _ string) string { return victim })
}

// newShooter returns a fresh level-1 record: accuracy 55, reliability 85,
// clip 6, 2 magazines.
func newShooter() *model.Record {
	r := model.NewRecord("libera", "#ducks", "alice")
	level.Init(r)
	return r
}

func TestShootKill(t *testing.T) {
	pen := &duckPen{}
	pen.add(model.NewDuck(1, false, now.Add(-30*time.Second)))
	cr := newTestResolver(pen, "", rollHigh, rollLow) // no jam, hit

	r := newShooter()
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeKilled, out.Kind)
	assert.Equal(t, 10, out.XPDelta)
	assert.Equal(t, 10, out.XP)
	assert.InDelta(t, 30.0, out.ReactionTime, 1e-9)

	assert.Equal(t, 1, r.DucksShot)
	assert.Equal(t, 1, r.ShotsFired)
	assert.Equal(t, 5, r.Ammo)
	assert.InDelta(t, 30.0, r.BestTime, 1e-9)
	assert.Equal(t, now.Unix(), r.LastDuckTime)
	assert.Empty(t, pen.ducks, "a killed duck leaves the channel")
}

func TestShootGoldenSurvivesAndReveals(t *testing.T) {
	pen := &duckPen{}
	pen.add(model.NewDuck(1, true, now))
	cr := newTestResolver(pen, "", rollHigh, rollLow)

	r := newShooter()
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeHit, out.Kind)
	require.NotNil(t, out.Duck)
	assert.Equal(t, model.GoldenDuckHP-1, out.Duck.HP)
	require.Len(t, out.Events, 1)
	assert.Equal(t, model.EventGoldenRevealed, out.Events[0].Kind)

	require.Len(t, pen.ducks, 1, "a wounded golden duck stays")
	assert.True(t, pen.ducks[0].Revealed)
	assert.Zero(t, out.XPDelta, "no XP until the duck is down")
}

func TestShootGoldenTakesDoubleDamageFromAP(t *testing.T) {
	pen := &duckPen{}
	pen.add(model.NewDuck(1, true, now))
	cr := newTestResolver(pen, "", rollHigh, rollLow)

	r := newShooter()
	r.APShots = 2
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeHit, out.Kind)
	assert.Equal(t, model.GoldenDuckHP-2, out.Duck.HP)
	assert.Equal(t, 1, r.APShots, "a charge burns per shot")
}

func TestShootGoldenKillBonus(t *testing.T) {
	pen := &duckPen{}
	d := model.NewDuck(1, true, now)
	d.HP = 1
	d.Revealed = true
	pen.add(d)
	cr := newTestResolver(pen, "", rollHigh, rollLow)

	r := newShooter()
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeKilled, out.Kind)
	assert.Equal(t, 50, out.XPDelta)
	assert.Equal(t, 1, r.GoldenDucks)
}

func TestShootMiss(t *testing.T) {
	pen := &duckPen{}
	pen.add(model.NewDuck(1, false, now))
	cr := newTestResolver(pen, "bob") // all rolls fail: clean miss

	r := newShooter()
	r.XP = 100
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeMissed, out.Kind)
	assert.Equal(t, -1, out.XPDelta)
	assert.Equal(t, 99, r.XP)
	assert.Equal(t, 1, r.Misses)
	assert.Empty(t, out.Victim)
	assert.False(t, r.Confiscated)
	assert.Len(t, pen.ducks, 1, "a missed duck stays")
}

func TestShootMissFrightens(t *testing.T) {
	pen := &duckPen{}
	pen.add(model.NewDuck(1, false, now))
	// no jam, miss, penalty, no wild fire, frighten
	cr := newTestResolver(pen, "", rollHigh, rollHigh, rollHigh, rollHigh, rollLow)

	r := newShooter()
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeFrightened, out.Kind)
	assert.Empty(t, pen.ducks, "a frightened duck flies off")
}

func TestShootSilencerSuppressesFright(t *testing.T) {
	pen := &duckPen{}
	pen.add(model.NewDuck(1, false, now))
	cr := newTestResolver(pen, "", rollHigh, rollHigh, rollHigh, rollHigh, rollLow)

	r := newShooter()
	r.Effects[model.EffectSilencer] = model.TimedEffect{Until: now.Add(time.Hour).Unix()}
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeMissed, out.Kind)
	assert.Len(t, pen.ducks, 1)
}

func TestShootMissAccident(t *testing.T) {
	pen := &duckPen{}
	pen.add(model.NewDuck(1, false, now))
	// no jam, miss, penalty, wild fire triggers
	cr := newTestResolver(pen, "bob", rollHigh, rollHigh, rollHigh, rollLow)

	r := newShooter()
	r.XP = 100
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeAccident, out.Kind)
	assert.Equal(t, "bob", out.Victim)
	assert.Equal(t, -5, out.XPDelta, "miss penalty plus accident penalty")
	assert.True(t, r.Confiscated)
	assert.Equal(t, 1, r.Accidents)

	require.Len(t, out.Events, 1)
	assert.Equal(t, model.EventGunConfiscated, out.Events[0].Kind)
	assert.Len(t, pen.ducks, 1, "the duck is unharmed by the stray shot")
}

func TestShootMissAccidentNeedsBystander(t *testing.T) {
	pen := &duckPen{}
	pen.add(model.NewDuck(1, false, now))
	cr := newTestResolver(pen, "", rollHigh, rollHigh, rollHigh, rollLow)

	r := newShooter()
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeMissed, out.Kind, "an empty channel absorbs the stray shot")
	assert.False(t, r.Confiscated)
	assert.Zero(t, r.Accidents)
}

func TestShootLiabilityInsuranceHalvesAccident(t *testing.T) {
	pen := &duckPen{}
	pen.add(model.NewDuck(1, false, now))
	cr := newTestResolver(pen, "bob", rollHigh, rollHigh, rollHigh, rollLow)

	r := newShooter()
	r.XP = 100
	r.Effects[model.EffectLiabilityInsurance] = model.TimedEffect{Until: now.Add(time.Hour).Unix()}
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeAccident, out.Kind)
	assert.Equal(t, -3, out.XPDelta, "miss penalty plus halved accident penalty")
	assert.True(t, r.Confiscated, "insurance pays, it does not keep the gun")
}

func TestShootRicochet(t *testing.T) {
	pen := &duckPen{}
	pen.add(model.NewDuck(1, false, now))
	// no jam, miss, penalty, no wild fire, ricochet triggers
	cr := newTestResolver(pen, "bob", rollHigh, rollHigh, rollHigh, rollHigh, rollLow)

	r := newShooter()
	r.APShots = 3
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeAccident, out.Kind)
	assert.Equal(t, "bob", out.Victim)

	kinds := make([]model.EventKind, 0, len(out.Events))
	for _, ev := range out.Events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Contains(t, kinds, model.EventRicochet)
	assert.Contains(t, kinds, model.EventGunConfiscated)
}

func TestShootGate(t *testing.T) {
	tests := []struct {
		name string
		prep func(r *model.Record)
		want model.OutcomeKind
	}{
		{
			name: "confiscated",
			prep: func(r *model.Record) { r.Confiscated = true },
			want: model.OutcomeConfiscated,
		},
		{
			name: "soaked",
			prep: func(r *model.Record) {
				r.Effects[model.EffectSoaked] = model.TimedEffect{Until: now.Add(time.Hour).Unix()}
			},
			want: model.OutcomeSoaked,
		},
		{
			name: "egged",
			prep: func(r *model.Record) { r.Egged = true },
			want: model.OutcomeEgged,
		},
		{
			name: "jammed",
			prep: func(r *model.Record) { r.Jammed = true },
			want: model.OutcomeJammed,
		},
		{
			name: "out of ammo and magazines",
			prep: func(r *model.Record) { r.Ammo, r.Magazines = 0, 0 },
			want: model.OutcomeEmptyMagazine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pen := &duckPen{}
			pen.add(model.NewDuck(1, false, now))
			cr := newTestResolver(pen, "")

			r := newShooter()
			ammoBefore := r.Ammo
			tt.prep(r)
			before := *r

			out := cr.Shoot(r, now)
			assert.Equal(t, tt.want, out.Kind)
			assert.Equal(t, before.ShotsFired, r.ShotsFired, "a refused attempt fires nothing")
			if tt.want != model.OutcomeEmptyMagazine {
				assert.Equal(t, ammoBefore, r.Ammo, "a refused attempt spends nothing")
			}
			assert.Len(t, pen.ducks, 1)
		})
	}
}

func TestShootAutoReload(t *testing.T) {
	pen := &duckPen{}
	pen.add(model.NewDuck(1, false, now))
	cr := newTestResolver(pen, "", rollHigh, rollLow)

	r := newShooter()
	r.Ammo = 0 // 2 magazines in reserve
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeKilled, out.Kind)
	assert.Equal(t, 1, r.Magazines, "a spare magazine was chambered")
	assert.Equal(t, r.MagazineCapacity-1, r.Ammo)
}

func TestShootJam(t *testing.T) {
	pen := &duckPen{}
	pen.add(model.NewDuck(1, false, now))
	cr := newTestResolver(pen, "", rollLow) // jam roll succeeds

	r := newShooter()
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeJammed, out.Kind)
	assert.True(t, r.Jammed)
	assert.Equal(t, 6, r.Ammo, "a jam consumes no ammo")
	assert.Zero(t, r.ShotsFired)
}

func TestShootSabotageForcesJam(t *testing.T) {
	pen := &duckPen{}
	pen.add(model.NewDuck(1, false, now))
	cr := newTestResolver(pen, "") // no rolls should matter

	r := newShooter()
	r.Sabotaged = true
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeJammed, out.Kind)
	assert.True(t, r.Jammed)
	assert.False(t, r.Sabotaged, "sabotage is spent by the jam")
}

func TestShootNoDuckWildFire(t *testing.T) {
	pen := &duckPen{}
	cr := newTestResolver(pen, "")

	r := newShooter()
	r.XP = 100
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeWildFire, out.Kind)
	assert.Equal(t, 1, r.WildFires)
	assert.Equal(t, 1, r.ShotsFired)
	assert.Equal(t, 5, r.Ammo, "firing into an empty sky still burns a round")
	assert.Equal(t, -1, out.XPDelta)
}

func TestShootNoDuckDetectorRefuses(t *testing.T) {
	pen := &duckPen{}
	cr := newTestResolver(pen, "")

	r := newShooter()
	r.AddEffectUses(model.EffectDucksDetector, 5)
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeNoDuck, out.Kind)
	assert.Equal(t, 6, r.Ammo, "a refused shot spends nothing")
	assert.Equal(t, 5, r.Effect(model.EffectDucksDetector).Uses, "refusal costs no detector use")
	assert.Zero(t, r.WildFires)
}

func TestShootNoDuckTriggerLockAbsorbs(t *testing.T) {
	pen := &duckPen{}
	cr := newTestResolver(pen, "")

	r := newShooter()
	r.Effects[model.EffectTriggerLock] = model.TimedEffect{Until: now.Add(time.Hour).Unix(), Uses: 2}
	out := cr.Shoot(r, now)

	assert.Equal(t, model.OutcomeLocked, out.Kind)
	assert.Equal(t, 6, r.Ammo)
	assert.Equal(t, 1, r.Effect(model.EffectTriggerLock).Uses, "the lock spends one use")
	assert.Zero(t, r.WildFires)
}
