// Package engine ties the game components together behind one entry
// point per player command. It owns record caching, per-record
// serialization, and the persist-before-return contract: an action whose
// mutation is not durable is reported as not having happened.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/featherfall/duckhunt/internal/config"
	"github.com/featherfall/duckhunt/internal/data"
	"github.com/featherfall/duckhunt/internal/duck"
	"github.com/featherfall/duckhunt/internal/game/combat"
	"github.com/featherfall/duckhunt/internal/game/level"
	"github.com/featherfall/duckhunt/internal/game/shop"
	"github.com/featherfall/duckhunt/internal/model"
	"github.com/featherfall/duckhunt/internal/store"
)

// rosterWindow is how long a player stays eligible as an accidental-hit
// victim after their last action.
const rosterWindow = time.Hour

type recordKey struct {
	network string
	channel string
	player  string
}

type channelKey struct {
	network string
	channel string
}

// recordEntry is the unit of mutual exclusion: all read-modify-write of
// one player-channel record serializes on its lock.
type recordEntry struct {
	mu  sync.Mutex
	rec *model.Record
}

// Engine is the game core. One instance drives every configured channel.
type Engine struct {
	cfg       config.GameConfig
	store     store.Store
	transport Transport
	ducks     *duck.Registry
	resolver  *combat.Resolver
	rng       *rand.Rand

	now func() time.Time // injectable clock for tests

	mu      sync.Mutex
	records map[recordKey]*recordEntry
	roster  map[channelKey]map[string]time.Time
}

// New builds an engine over the given store and transport.
func New(cfg config.GameConfig, st store.Store, tr Transport) *Engine {
	e := &Engine{
		cfg:       cfg,
		store:     st,
		transport: tr,
		ducks:     duck.NewRegistry(cfg.MaxDucks, time.Duration(cfg.DespawnTime)*time.Second),
		rng:       newLockedRand(rand.Uint64(), rand.Uint64()),
		now:       time.Now,
		records:   make(map[recordKey]*recordEntry),
		roster:    make(map[channelKey]map[string]time.Time),
	}
	e.resolver = combat.NewResolver(e.ducks, e.rng, e.pickVictim)
	return e
}

// Ducks exposes the registry (admin and worker use).
func (e *Engine) Ducks() *duck.Registry { return e.ducks }

// entry returns the cached record entry, loading or lazily creating the
// record on first qualifying action.
func (e *Engine) entry(ctx context.Context, network, channel, player string, create bool) (*recordEntry, error) {
	k := recordKey{network, channel, player}

	e.mu.Lock()
	ent, ok := e.records[k]
	if !ok {
		ent = &recordEntry{}
		e.records[k] = ent
	}
	e.mu.Unlock()

	ent.mu.Lock()
	defer ent.mu.Unlock()
	if ent.rec != nil {
		return ent, nil
	}

	rec, err := e.store.Load(ctx, network, channel, player)
	switch {
	case err == nil:
		if level.Backfill(rec) {
			slog.Info("backfilled magazine capacity",
				"network", network, "channel", channel, "player", player)
			if err := e.store.Save(ctx, network, channel, player, store.FieldsOf(rec)); err != nil {
				return nil, fmt.Errorf("persisting backfill: %w", err)
			}
		}
		ent.rec = rec
	case errors.Is(err, store.ErrNotFound):
		if !create {
			return nil, err
		}
		rec = model.NewRecord(network, channel, player)
		level.Init(rec)
		if err := e.store.Save(ctx, network, channel, player, store.FieldsOf(rec)); err != nil {
			return nil, fmt.Errorf("creating record: %w", err)
		}
		ent.rec = rec
	default:
		return nil, fmt.Errorf("loading record: %w", err)
	}
	return ent, nil
}

// mutate runs fn against a clone of the player's record under its lock
// and persists the full resulting field set before the outcome is
// returned. On a persistence failure the cached record is left untouched
// and the error is surfaced: the action did not take effect.
func (e *Engine) mutate(ctx context.Context, network, channel, player string, fn func(r *model.Record) model.Outcome) (model.Outcome, error) {
	ent, err := e.entry(ctx, network, channel, player, true)
	if err != nil {
		return model.Outcome{}, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	work := ent.rec.Clone()
	out := fn(work)

	if err := e.store.Save(ctx, network, channel, player, store.FieldsOf(work)); err != nil {
		return model.Outcome{}, fmt.Errorf("persisting action: %w", err)
	}
	ent.rec = work
	return out, nil
}

func (e *Engine) touchRoster(network, channel, player string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := channelKey{network, channel}
	players, ok := e.roster[k]
	if !ok {
		players = make(map[string]time.Time)
		e.roster[k] = players
	}
	players[player] = e.now()
}

// pickVictim selects a random other recently-active player who is still
// present in the channel. Returns "" when nobody qualifies.
func (e *Engine) pickVictim(network, channel, exclude string) string {
	e.mu.Lock()
	cutoff := e.now().Add(-rosterWindow)
	var candidates []string
	for player, seen := range e.roster[channelKey{network, channel}] {
		if player != exclude && seen.After(cutoff) {
			candidates = append(candidates, player)
		}
	}
	e.mu.Unlock()

	e.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	for _, player := range candidates {
		if e.transport.PresentUser(network, channel, player) {
			return player
		}
	}
	return ""
}

// Shoot resolves a shoot command for player.
func (e *Engine) Shoot(ctx context.Context, network, channel, player string) (model.Outcome, error) {
	e.touchRoster(network, channel, player)
	now := e.now()
	out, err := e.mutate(ctx, network, channel, player, func(r *model.Record) model.Outcome {
		return e.resolver.Shoot(r, now)
	})
	if err != nil {
		return out, err
	}
	e.afterCombat(ctx, &out, now)
	return out, nil
}

// Befriend resolves a befriend command for player.
func (e *Engine) Befriend(ctx context.Context, network, channel, player string) (model.Outcome, error) {
	e.touchRoster(network, channel, player)
	now := e.now()
	out, err := e.mutate(ctx, network, channel, player, func(r *model.Record) model.Outcome {
		return e.resolver.Befriend(r, now)
	})
	if err != nil {
		return out, err
	}
	e.afterCombat(ctx, &out, now)
	return out, nil
}

// Reload resolves a reload command for player.
func (e *Engine) Reload(ctx context.Context, network, channel, player string) (model.Outcome, error) {
	e.touchRoster(network, channel, player)
	now := e.now()
	return e.mutate(ctx, network, channel, player, func(r *model.Record) model.Outcome {
		return e.resolver.Reload(r, now)
	})
}

// afterCombat handles cross-record and channel-level consequences:
// insurance payouts to accident victims and spawn rescheduling once a
// duck has left the channel.
func (e *Engine) afterCombat(ctx context.Context, out *model.Outcome, now time.Time) {
	if out.Victim != "" {
		if ev := e.payoutVictim(ctx, out.Network, out.Channel, out.Victim, now); ev != nil {
			out.Events = append(out.Events, *ev)
		}
	}

	switch out.Kind {
	case model.OutcomeKilled, model.OutcomeBefriended, model.OutcomeDuckFled, model.OutcomeFrightened:
		e.ducks.ScheduleNext(out.Network, out.Channel, now,
			time.Duration(e.cfg.MinSpawn)*time.Second,
			time.Duration(e.cfg.MaxSpawn)*time.Second, e.rng)
	}
}

// payoutVictim compensates an insured player who was hit by a stray shot.
func (e *Engine) payoutVictim(ctx context.Context, network, channel, victim string, now time.Time) *model.Event {
	var ev *model.Event
	_, err := e.mutate(ctx, network, channel, victim, func(r *model.Record) model.Outcome {
		if r.EffectActive(model.EffectLifeInsurance, now.Unix()) {
			prevXP := r.XP
			r.AddXP(data.XPInsurancePayout)
			level.Sync(r, prevXP)
			ev = &model.Event{
				Kind:    model.EventInsurancePayout,
				Player:  victim,
				XPDelta: data.XPInsurancePayout,
			}
		}
		return model.Outcome{}
	})
	if err != nil {
		slog.Error("insurance payout failed",
			"network", network, "channel", channel, "victim", victim, "err", err)
		return nil
	}
	return ev
}

// Purchase resolves a shop command. target names the other player for
// target-directed items, empty otherwise.
func (e *Engine) Purchase(ctx context.Context, network, channel, player string, itemID int, target string) (model.Outcome, error) {
	e.touchRoster(network, channel, player)
	now := e.now()

	item := data.ItemByID(itemID)
	if item == nil {
		out := model.Outcome{Kind: model.OutcomeUnknownItem, Network: network, Channel: channel, Player: player}
		return out, nil
	}

	if item.Target != data.TargetOther {
		out, err := e.mutate(ctx, network, channel, player, func(r *model.Record) model.Outcome {
			res := shop.Purchase(r, nil, itemID, now)
			return purchaseOutcome(r, res, "")
		})
		return out, err
	}

	// Target-directed: the target must exist as a record and be present
	// in the channel before anything is validated further.
	if target == "" || target == player || !e.transport.PresentUser(network, channel, target) {
		return model.Outcome{Kind: model.OutcomeInvalidTarget, Network: network, Channel: channel, Player: player, Target: target, Item: item.Slug}, nil
	}
	tgtEnt, err := e.entry(ctx, network, channel, target, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Outcome{Kind: model.OutcomeInvalidTarget, Network: network, Channel: channel, Player: player, Target: target, Item: item.Slug}, nil
		}
		return model.Outcome{}, err
	}

	buyEnt, err := e.entry(ctx, network, channel, player, true)
	if err != nil {
		return model.Outcome{}, err
	}

	// Deterministic lock order keeps two opposed purchases from
	// deadlocking.
	first, second := buyEnt, tgtEnt
	if target < player {
		first, second = tgtEnt, buyEnt
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	if first != second {
		second.mu.Lock()
		defer second.mu.Unlock()
	}

	buyer := buyEnt.rec.Clone()
	tgt := tgtEnt.rec.Clone()
	res := shop.Purchase(buyer, tgt, itemID, now)
	out := purchaseOutcome(buyer, res, target)

	if res.Outcome != model.OutcomePurchased && res.Outcome != model.OutcomeRenewed {
		return out, nil
	}

	// Persist the target's record first, then the buyer's; if the buyer
	// save fails the target write is reverted so the pair stays
	// all-or-nothing.
	if err := e.store.Save(ctx, network, channel, target, store.FieldsOf(tgt)); err != nil {
		return model.Outcome{}, fmt.Errorf("persisting target record: %w", err)
	}
	if err := e.store.Save(ctx, network, channel, player, store.FieldsOf(buyer)); err != nil {
		if rerr := e.store.Save(ctx, network, channel, target, store.FieldsOf(tgtEnt.rec)); rerr != nil {
			slog.Error("reverting target record failed",
				"network", network, "channel", channel, "target", target, "err", rerr)
		}
		return model.Outcome{}, fmt.Errorf("persisting purchase: %w", err)
	}
	tgtEnt.rec = tgt
	buyEnt.rec = buyer
	return out, nil
}

func purchaseOutcome(buyer *model.Record, res shop.Result, target string) model.Outcome {
	out := model.Outcome{
		Kind:    res.Outcome,
		Network: buyer.Network,
		Channel: buyer.Channel,
		Player:  buyer.Player,
		Target:  target,
		XP:      buyer.XP,
		Events:  res.Events,
	}
	if res.Item != nil {
		out.Item = res.Item.Slug
	}
	if res.Outcome == model.OutcomePurchased || res.Outcome == model.OutcomeRenewed {
		out.XPDelta = -res.Price
	}
	return out
}

// QueryStats returns a consistent snapshot of the player's record.
func (e *Engine) QueryStats(ctx context.Context, network, channel, player string) (model.Outcome, error) {
	out := model.Outcome{Kind: model.OutcomeStats, Network: network, Channel: channel, Player: player}

	ent, err := e.entry(ctx, network, channel, player, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return out, nil
		}
		return model.Outcome{}, err
	}
	ent.mu.Lock()
	out.Stats = ent.rec.Clone()
	ent.mu.Unlock()
	out.XP = out.Stats.XP
	return out, nil
}

// QueryLeaderboard returns the channel's top hunters by XP.
func (e *Engine) QueryLeaderboard(ctx context.Context, network, channel string, limit int) (model.Outcome, error) {
	records, err := e.store.Top(ctx, network, channel, limit)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("querying leaderboard: %w", err)
	}
	out := model.Outcome{Kind: model.OutcomeLeaderboard, Network: network, Channel: channel}
	for _, r := range records {
		out.Rows = append(out.Rows, model.LeaderboardRow{
			Player: r.Player,
			XP:     r.XP,
			Ducks:  r.DucksShot + r.BefriendedDucks,
			Level:  data.LevelFor(r.XP).Level,
		})
	}
	return out, nil
}
