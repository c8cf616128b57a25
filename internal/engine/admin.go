package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/featherfall/duckhunt/internal/model"
	"github.com/featherfall/duckhunt/internal/store"
)

// AdminSpawn forces a duck into the channel. golden selects the rare
// variant instead of rolling the ratio.
func (e *Engine) AdminSpawn(network, channel string, golden bool) model.Outcome {
	out := model.Outcome{Network: network, Channel: channel}
	d, ok := e.ducks.Spawn(network, channel, golden, e.now())
	if !ok {
		out.Kind = model.OutcomeChannelFull
		return out
	}
	out.Kind = model.OutcomeSpawned
	out.Duck = &model.DuckInfo{ID: d.ID, Golden: d.Golden, HP: d.HP}
	e.transport.Announce(network, channel, duckArt)
	return out
}

// AdminClear archives the channel's records, then truncates them, and
// removes any live ducks. The backup id is returned for later restore.
func (e *Engine) AdminClear(ctx context.Context, network, channel string) (model.Outcome, error) {
	backupID, archived, err := e.store.ArchiveAndClear(ctx, network, channel)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("clearing channel %s/%s: %w", network, channel, err)
	}
	cleared := e.ducks.Clear(network, channel)
	e.dropChannelRecords(network, channel)

	slog.Info("channel cleared",
		"network", network, "channel", channel, "backup", backupID,
		"records", archived, "ducks", cleared)

	return model.Outcome{
		Kind:     model.OutcomeCleared,
		Network:  network,
		Channel:  channel,
		BackupID: backupID,
		Count:    archived,
	}, nil
}

// AdminRestore brings an archived channel snapshot back.
func (e *Engine) AdminRestore(ctx context.Context, network, channel, backupID string) (model.Outcome, error) {
	restored, err := e.store.Restore(ctx, backupID)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("restoring backup %s: %w", backupID, err)
	}
	e.dropChannelRecords(network, channel)
	return model.Outcome{
		Kind:     model.OutcomeRestored,
		Network:  network,
		Channel:  channel,
		BackupID: backupID,
		Count:    restored,
	}, nil
}

// ListBackups returns the archives taken for the channel.
func (e *Engine) ListBackups(ctx context.Context, network, channel string) ([]store.BackupInfo, error) {
	return e.store.ListBackups(ctx, network, channel)
}

// AdminRearm hands a player their gun back: confiscation and jam cleared,
// ammunition refilled.
func (e *Engine) AdminRearm(ctx context.Context, network, channel, player string) (model.Outcome, error) {
	return e.mutate(ctx, network, channel, player, func(r *model.Record) model.Outcome {
		r.Confiscated = false
		r.Jammed = false
		r.Sabotaged = false
		r.Ammo = r.MagazineCapacity
		r.Magazines = r.MagazinesMax
		out := model.Outcome{Kind: model.OutcomeRearmed, Network: network, Channel: channel, Player: player, XP: r.XP}
		return out
	})
}

// AdminDisarm confiscates a player's gun.
func (e *Engine) AdminDisarm(ctx context.Context, network, channel, player string) (model.Outcome, error) {
	return e.mutate(ctx, network, channel, player, func(r *model.Record) model.Outcome {
		r.Confiscated = true
		return model.Outcome{Kind: model.OutcomeDisarmed, Network: network, Channel: channel, Player: player, XP: r.XP}
	})
}
