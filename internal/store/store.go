// Package store is the stats persistence adapter: one narrow interface
// over a player's per-channel record, implemented by a JSON data file and
// by PostgreSQL. The engine never branches on which backend is active.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/featherfall/duckhunt/internal/model"
)

// ErrNotFound is returned by Load for a player with no record yet.
var ErrNotFound = errors.New("record not found")

// ErrUnknownField is returned by Save when the field set names a field
// the schema does not know. Rejecting instead of dropping keeps schema
// drift loud.
var ErrUnknownField = errors.New("unknown field")

// BackupInfo describes one archived channel snapshot.
type BackupInfo struct {
	ID        string
	Network   string
	Channel   string
	CreatedAt time.Time
	Players   int
}

// Store is the uniform read/write contract over per-channel records.
// Writes are last-writer-wins; Save persists exactly the named fields.
type Store interface {
	// Load returns the record for (network, channel, player), or
	// ErrNotFound.
	Load(ctx context.Context, network, channel, player string) (*model.Record, error)

	// Save writes the given fields of the player's record. Unknown field
	// names are rejected with ErrUnknownField before anything is written.
	Save(ctx context.Context, network, channel, player string, fields map[string]any) error

	// Top returns up to limit records of the channel ordered by XP.
	Top(ctx context.Context, network, channel string, limit int) ([]*model.Record, error)

	// ArchiveAndClear copies every record of the channel into a backup,
	// confirms durability, then truncates, never the reverse order.
	// Returns the backup id and how many records were archived.
	ArchiveAndClear(ctx context.Context, network, channel string) (string, int, error)

	// ListBackups returns the archives taken for the channel.
	ListBackups(ctx context.Context, network, channel string) ([]BackupInfo, error)

	// Restore copies a backup's records back into the live table,
	// replacing current rows for the same players. Returns how many
	// records came back; an unknown backup id restores zero.
	Restore(ctx context.Context, backupID string) (int, error)

	Close() error
}
