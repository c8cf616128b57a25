package model

import "time"

// Duck HP by kind.
const (
	NormalDuckHP = 1
	GoldenDuckHP = 5
)

// Duck is one live duck in a channel. Owned exclusively by the channel's
// registry; never shared across channels.
type Duck struct {
	ID        int64 // per-channel sequence number
	Golden    bool
	HP        int
	SpawnedAt time.Time

	// Revealed is false for a golden duck until its first interaction.
	Revealed bool

	// Hissed marks befriend resistance: any further befriend miss makes
	// the duck flee and costs the player a flat penalty.
	Hissed bool
}

// NewDuck creates a duck of the given kind. Normal ducks spawn revealed.
func NewDuck(id int64, golden bool, at time.Time) *Duck {
	hp := NormalDuckHP
	if golden {
		hp = GoldenDuckHP
	}
	return &Duck{
		ID:        id,
		Golden:    golden,
		HP:        hp,
		SpawnedAt: at,
		Revealed:  !golden,
	}
}

// Alive reports whether the duck still has hit points.
func (d *Duck) Alive() bool { return d.HP > 0 }

// Age returns how long the duck has been in the channel.
func (d *Duck) Age(now time.Time) time.Duration { return now.Sub(d.SpawnedAt) }
