package model

// Record is one player's stats in one channel on one network.
//
// Record is plain data: all synchronization lives in the engine, which
// serializes mutations per record. Anything handed to another goroutine
// must be a Clone.
type Record struct {
	Network string
	Channel string
	Player  string

	// Cumulative counters.
	XP                int
	DucksShot         int
	GoldenDucks       int
	Misses            int
	Accidents         int
	WildFires         int
	ShotsFired        int
	BefriendedDucks   int
	BestTime          float64 // fastest kill in seconds, 0 = none yet
	TotalReactionTime float64
	LastDuckTime      int64 // unix seconds of the last duck this player killed

	// Ammunition state.
	Ammo             int
	Magazines        int
	MagazineCapacity int
	MagazinesMax     int
	MagUpgradeLevel  int // purchased clip-size upgrades
	MagCapacityLevel int // purchased extra-magazine upgrades

	// Status flags.
	Confiscated bool
	Jammed      bool
	Sabotaged   bool
	Egged       bool

	// Consumable charges. Non-stacking: a purchase while charges remain
	// is refused and refunded.
	APShots        int
	ExplosiveShots int
	BreadUses      int

	// Timed effects, keyed by kind. Expirations only move forward on
	// re-purchase; detector uses accumulate.
	Effects map[EffectKind]TimedEffect
}

// NewRecord returns an empty record for the given identity.
func NewRecord(network, channel, player string) *Record {
	return &Record{
		Network: network,
		Channel: channel,
		Player:  player,
		Effects: make(map[EffectKind]TimedEffect),
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	cp := *r
	cp.Effects = make(map[EffectKind]TimedEffect, len(r.Effects))
	for k, v := range r.Effects {
		cp.Effects[k] = v
	}
	return &cp
}

// Effect returns the effect entry for kind (zero value if absent).
func (r *Record) Effect(kind EffectKind) TimedEffect {
	return r.Effects[kind]
}

// EffectActive reports whether kind is live at the given unix time.
func (r *Record) EffectActive(kind EffectKind, now int64) bool {
	return r.Effects[kind].ActiveAt(now)
}

// RefreshEffect moves the effect's expiry to until, never backwards.
// Returns true if the effect was already active (a renewal).
func (r *Record) RefreshEffect(kind EffectKind, until, now int64) bool {
	e := r.Effects[kind]
	renewed := e.ActiveAt(now)
	if until > e.Until {
		e.Until = until
	}
	r.Effects[kind] = e
	return renewed
}

// AddEffectUses adds n uses to a uses-limited effect (cumulative).
func (r *Record) AddEffectUses(kind EffectKind, n int) {
	e := r.Effects[kind]
	e.Uses += n
	r.Effects[kind] = e
}

// ConsumeEffectUse burns one use of kind; when the last use is spent the
// untracked-expiry entry is dropped.
func (r *Record) ConsumeEffectUse(kind EffectKind) {
	e := r.Effects[kind]
	if e.Uses > 0 {
		e.Uses--
	}
	if e.Uses == 0 && e.Until == 0 {
		delete(r.Effects, kind)
		return
	}
	r.Effects[kind] = e
}

// ClearEffect removes kind entirely.
func (r *Record) ClearEffect(kind EffectKind) {
	delete(r.Effects, kind)
}

// ClampAmmo forces ammo and magazines back inside capacity bounds.
// Returns true if anything was out of range.
func (r *Record) ClampAmmo() bool {
	clamped := false
	if r.Ammo < 0 {
		r.Ammo = 0
		clamped = true
	}
	if r.MagazineCapacity > 0 && r.Ammo > r.MagazineCapacity {
		r.Ammo = r.MagazineCapacity
		clamped = true
	}
	if r.Magazines < 0 {
		r.Magazines = 0
		clamped = true
	}
	if r.MagazinesMax > 0 && r.Magazines > r.MagazinesMax {
		r.Magazines = r.MagazinesMax
		clamped = true
	}
	return clamped
}

// AddXP applies a delta with a floor at zero.
func (r *Record) AddXP(delta int) {
	r.XP += delta
	if r.XP < 0 {
		r.XP = 0
	}
}
