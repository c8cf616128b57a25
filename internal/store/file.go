package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/featherfall/duckhunt/internal/model"
)

// FileStore persists records to a single JSON data file, the bot's
// original storage format. Every mutation rewrites the file atomically
// (temp file + rename), so a crash never leaves a half-written store.
type FileStore struct {
	path string

	mu   sync.Mutex
	data fileData
}

type fileData struct {
	// network → channel → player → field set
	Channels map[string]map[string]map[string]map[string]any `json:"channels"`
	Backups  map[string]fileBackup                           `json:"backups,omitempty"`
}

type fileBackup struct {
	Network   string                    `json:"network"`
	Channel   string                    `json:"channel"`
	CreatedAt time.Time                 `json:"created_at"`
	Players   map[string]map[string]any `json:"players"`
}

// OpenFile opens (or creates) a file store at path.
func OpenFile(path string) (*FileStore, error) {
	fs := &FileStore{
		path: path,
		data: fileData{
			Channels: make(map[string]map[string]map[string]map[string]any),
			Backups:  make(map[string]fileBackup),
		},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, fmt.Errorf("reading data file %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &fs.data); err != nil {
		return nil, fmt.Errorf("parsing data file %s: %w", path, err)
	}
	if fs.data.Channels == nil {
		fs.data.Channels = make(map[string]map[string]map[string]map[string]any)
	}
	if fs.data.Backups == nil {
		fs.data.Backups = make(map[string]fileBackup)
	}
	return fs, nil
}

// flush writes the store to disk. Caller holds fs.mu.
func (fs *FileStore) flush() error {
	raw, err := json.MarshalIndent(fs.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding data file: %w", err)
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(fs.path), err)
	}
	return nil
}

func (fs *FileStore) channel(network, channel string) map[string]map[string]any {
	net, ok := fs.data.Channels[network]
	if !ok {
		return nil
	}
	return net[channel]
}

// Load implements Store.
func (fs *FileStore) Load(_ context.Context, network, channel, player string) (*model.Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ch := fs.channel(network, channel)
	fields, ok := ch[player]
	if !ok {
		return nil, ErrNotFound
	}
	return RecordFromFields(network, channel, player, fields), nil
}

// Save implements Store.
func (fs *FileStore) Save(_ context.Context, network, channel, player string, fields map[string]any) error {
	if err := ValidateFields(fields); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	net, ok := fs.data.Channels[network]
	if !ok {
		net = make(map[string]map[string]map[string]any)
		fs.data.Channels[network] = net
	}
	ch, ok := net[channel]
	if !ok {
		ch = make(map[string]map[string]any)
		net[channel] = ch
	}
	rec, ok := ch[player]
	if !ok {
		rec = make(map[string]any)
		ch[player] = rec
	}
	for name, v := range fields {
		rec[name] = v
	}
	return fs.flush()
}

// Top implements Store.
func (fs *FileStore) Top(_ context.Context, network, channel string, limit int) ([]*model.Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ch := fs.channel(network, channel)
	records := make([]*model.Record, 0, len(ch))
	for player, fields := range ch {
		records = append(records, RecordFromFields(network, channel, player, fields))
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].XP != records[j].XP {
			return records[i].XP > records[j].XP
		}
		return records[i].Player < records[j].Player
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// ArchiveAndClear implements Store: the backup is flushed to disk before
// the live records are removed, so a failure mid-way loses nothing.
func (fs *FileStore) ArchiveAndClear(_ context.Context, network, channel string) (string, int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ch := fs.channel(network, channel)

	backupID := fmt.Sprintf("%s_%s_%s", network, channel, uuid.NewString()[:8])
	players := make(map[string]map[string]any, len(ch))
	for player, fields := range ch {
		cp := make(map[string]any, len(fields))
		for k, v := range fields {
			cp[k] = v
		}
		players[player] = cp
	}
	fs.data.Backups[backupID] = fileBackup{
		Network:   network,
		Channel:   channel,
		CreatedAt: time.Now(),
		Players:   players,
	}

	// Copy first: the backup must be durable before truncation.
	if err := fs.flush(); err != nil {
		delete(fs.data.Backups, backupID)
		return "", 0, fmt.Errorf("persisting backup %s: %w", backupID, err)
	}

	if net, ok := fs.data.Channels[network]; ok {
		delete(net, channel)
	}
	if err := fs.flush(); err != nil {
		return "", 0, fmt.Errorf("truncating channel after backup %s: %w", backupID, err)
	}
	return backupID, len(players), nil
}

// ListBackups implements Store.
func (fs *FileStore) ListBackups(_ context.Context, network, channel string) ([]BackupInfo, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var infos []BackupInfo
	for id, b := range fs.data.Backups {
		if b.Network != network || b.Channel != channel {
			continue
		}
		infos = append(infos, BackupInfo{
			ID:        id,
			Network:   b.Network,
			Channel:   b.Channel,
			CreatedAt: b.CreatedAt,
			Players:   len(b.Players),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt.After(infos[j].CreatedAt) })
	return infos, nil
}

// Restore implements Store.
func (fs *FileStore) Restore(_ context.Context, backupID string) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	b, ok := fs.data.Backups[backupID]
	if !ok {
		return 0, nil
	}

	net, ok := fs.data.Channels[b.Network]
	if !ok {
		net = make(map[string]map[string]map[string]any)
		fs.data.Channels[b.Network] = net
	}
	ch, ok := net[b.Channel]
	if !ok {
		ch = make(map[string]map[string]any)
		net[b.Channel] = ch
	}
	for player, fields := range b.Players {
		cp := make(map[string]any, len(fields))
		for k, v := range fields {
			cp[k] = v
		}
		ch[player] = cp
	}
	if err := fs.flush(); err != nil {
		return 0, fmt.Errorf("restoring backup %s: %w", backupID, err)
	}
	return len(b.Players), nil
}

// Close implements Store. The file is already durable after every write.
func (fs *FileStore) Close() error { return nil }

// all returns every record in the store, for backend migration.
func (fs *FileStore) all() []*model.Record {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var records []*model.Record
	for network, channels := range fs.data.Channels {
		for channel, players := range channels {
			for player, fields := range players {
				records = append(records, RecordFromFields(network, channel, player, fields))
			}
		}
	}
	return records
}
