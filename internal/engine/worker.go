package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/featherfall/duckhunt/internal/config"
	"github.com/featherfall/duckhunt/internal/model"
)

// Lines the engine pushes on its own initiative. Command replies go back
// to the caller as outcomes; these cover events no command caused.
const (
	duckArt     = `\_o< QUACK`
	duckFlyOff  = `The duck flew away. \_o<'`
	duckWarning = "A duck may land soon. Stay sharp."
)

// Run drives one worker per configured (network, channel) pair until ctx
// is canceled. Each worker owns its channel's spawn timing; no channel
// can stall another.
func (e *Engine) Run(ctx context.Context, networks []config.Network) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, net := range networks {
		for _, ch := range net.Channels {
			network, channel := net.Name, ch
			g.Go(func() error {
				return e.runChannel(gctx, network, channel)
			})
		}
	}
	return g.Wait()
}

func (e *Engine) runChannel(ctx context.Context, network, channel string) error {
	minSpawn := time.Duration(e.cfg.MinSpawn) * time.Second
	maxSpawn := time.Duration(e.cfg.MaxSpawn) * time.Second

	next := e.ducks.ScheduleNext(network, channel, e.now(), minSpawn, maxSpawn, e.rng)
	slog.Info("channel worker started",
		"network", network, "channel", channel, "nextSpawn", next)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("channel worker stopping", "network", network, "channel", channel)
			return ctx.Err()
		case now := <-ticker.C:
			e.tick(ctx, network, channel, now)
		}
	}
}

// tick runs one scheduling sweep: expire overstayers, deliver detector
// notices, trigger due spawns.
func (e *Engine) tick(ctx context.Context, network, channel string, now time.Time) {
	minSpawn := time.Duration(e.cfg.MinSpawn) * time.Second
	maxSpawn := time.Duration(e.cfg.MaxSpawn) * time.Second

	if gone := e.ducks.DespawnExpired(network, channel, now); len(gone) > 0 {
		for range gone {
			e.transport.Announce(network, channel, duckFlyOff)
		}
		e.ducks.ScheduleNext(network, channel, now, minSpawn, maxSpawn, e.rng)
	}

	lead := time.Duration(e.cfg.DetectorNotice) * time.Second
	if e.ducks.NoticeDue(network, channel, now, lead) {
		e.notifyDetectorOwners(ctx, network, channel, now)
	}

	if e.ducks.SpawnDue(network, channel, now) {
		golden := e.rng.Float64() < e.cfg.GoldRatio
		if d, ok := e.ducks.Spawn(network, channel, golden, now); ok {
			slog.Debug("duck spawned",
				"network", network, "channel", channel, "id", d.ID, "golden", d.Golden)
			e.transport.Announce(network, channel, duckArt)
		} else {
			slog.Debug("channel full, spawn skipped", "network", network, "channel", channel)
			e.ducks.ScheduleNext(network, channel, now, minSpawn, maxSpawn, e.rng)
		}
	}
}

// notifyDetectorOwners privately warns every present player holding
// detector uses, burning one use each.
func (e *Engine) notifyDetectorOwners(ctx context.Context, network, channel string, now time.Time) {
	e.mu.Lock()
	var players []string
	for player := range e.roster[channelKey{network, channel}] {
		players = append(players, player)
	}
	e.mu.Unlock()

	for _, player := range players {
		if !e.transport.PresentUser(network, channel, player) {
			continue
		}
		notified := false
		_, err := e.mutate(ctx, network, channel, player, func(r *model.Record) model.Outcome {
			if r.Effect(model.EffectDucksDetector).Uses <= 0 {
				return model.Outcome{}
			}
			r.ConsumeEffectUse(model.EffectDucksDetector)
			notified = true
			return model.Outcome{}
		})
		if err != nil {
			slog.Error("detector notice failed",
				"network", network, "channel", channel, "player", player, "err", err)
			continue
		}
		if notified {
			e.transport.Notice(network, channel, player, duckWarning)
		}
	}
}

// dropChannelRecords evicts cached records for a cleared channel so the
// next action reloads from the (now empty) store.
func (e *Engine) dropChannelRecords(network, channel string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k := range e.records {
		if k.network == network && k.channel == channel {
			delete(e.records, k)
		}
	}
}
