package model

// OutcomeKind identifies what happened when a command resolved.
// Formatting into user-facing text is the transport layer's job.
type OutcomeKind string

const (
	// Shoot / befriend results.
	OutcomeKilled         OutcomeKind = "killed"
	OutcomeHit            OutcomeKind = "hit" // damaged but not dead (golden)
	OutcomeMissed         OutcomeKind = "missed"
	OutcomeBefriended     OutcomeKind = "befriended"
	OutcomeTamed          OutcomeKind = "tamed" // befriend progress on a golden duck
	OutcomeBefriendMissed OutcomeKind = "befriend_missed"
	OutcomeDuckFled       OutcomeKind = "duck_fled" // hissed duck left after a miss
	OutcomeFrightened     OutcomeKind = "frightened"
	OutcomeAccident       OutcomeKind = "accident" // shot redirected into another player

	// Gun state results.
	OutcomeEmptyMagazine OutcomeKind = "empty_magazine"
	OutcomeJammed        OutcomeKind = "jammed"
	OutcomeReloaded      OutcomeKind = "reloaded"
	OutcomeUnjammed      OutcomeKind = "unjammed"
	OutcomeNothingToDo   OutcomeKind = "nothing_to_do"
	OutcomeLocked        OutcomeKind = "locked"  // trigger lock absorbed a no-target shot
	OutcomeNoDuck        OutcomeKind = "no_duck" // detector refused a no-target shot
	OutcomeWildFire      OutcomeKind = "wild_fire"
	OutcomeConfiscated   OutcomeKind = "confiscated"
	OutcomeSoaked        OutcomeKind = "soaked"
	OutcomeEgged         OutcomeKind = "egged"

	// Shop results.
	OutcomePurchased      OutcomeKind = "purchased"
	OutcomeRenewed        OutcomeKind = "renewed"
	OutcomeAlreadyOwned   OutcomeKind = "already_owned"
	OutcomeNotApplicable  OutcomeKind = "not_applicable"
	OutcomeInsufficientXP OutcomeKind = "insufficient_xp"
	OutcomeUnknownItem    OutcomeKind = "unknown_item"
	OutcomeInvalidTarget  OutcomeKind = "invalid_target"

	// Queries and admin.
	OutcomeStats       OutcomeKind = "stats"
	OutcomeLeaderboard OutcomeKind = "leaderboard"
	OutcomeSpawned     OutcomeKind = "spawned"
	OutcomeChannelFull OutcomeKind = "channel_full"
	OutcomeCleared     OutcomeKind = "cleared"
	OutcomeRestored    OutcomeKind = "restored"
	OutcomeRearmed     OutcomeKind = "rearmed"
	OutcomeDisarmed    OutcomeKind = "disarmed"
)

// EventKind identifies a side effect attached to an outcome.
type EventKind string

const (
	EventLevelUp         EventKind = "level_up"
	EventLevelDown       EventKind = "level_down"
	EventLoot            EventKind = "loot"
	EventGoldenRevealed  EventKind = "golden_revealed"
	EventInsurancePayout EventKind = "insurance_payout"
	EventGunConfiscated  EventKind = "gun_confiscated"
	EventRicochet        EventKind = "ricochet"
	EventDuckHissed      EventKind = "duck_hissed"
)

// Event is one side effect that rode along with an outcome.
type Event struct {
	Kind    EventKind
	Player  string // affected player, when not the actor
	Level   int    // new level for promotions/demotions
	Item    string // item id for loot
	XPDelta int
}

// DuckInfo is the duck snapshot carried by an outcome.
type DuckInfo struct {
	ID     int64
	Golden bool
	HP     int
}

// Outcome is the structured result of one player command or admin action.
type Outcome struct {
	Kind    OutcomeKind
	Network string
	Channel string
	Player  string

	Duck         *DuckInfo
	Victim       string  // accidental-hit victim
	XPDelta      int     // XP change applied to the actor
	XP           int     // actor XP after the action
	Item         string  // item id for shop/loot outcomes
	Target       string  // shop target player
	ReactionTime float64 // seconds, kills only
	BackupID     string  // admin clear/restore
	Count        int     // records archived/restored, ducks cleared
	Stats        *Record // snapshot for stats queries
	Rows         []LeaderboardRow

	Events []Event
}

// LeaderboardRow is one entry of a leaderboard query.
type LeaderboardRow struct {
	Player string
	XP     int
	Ducks  int
	Level  int
}
