package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/featherfall/duckhunt/internal/model"
)

// PostgresStore persists records to PostgreSQL. Schema lives in the
// embedded goose migrations (see migrate.go).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to PostgreSQL and returns a store handle.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close implements Store.
func (ps *PostgresStore) Close() error {
	ps.pool.Close()
	return nil
}

// statColumns is the persisted field list in registry order; field names
// double as column names.
const statColumns = `xp, ducks_shot, golden_ducks, misses, accidents, wild_fires,
	shots_fired, befriended_ducks, best_time, total_reaction_time, last_duck_time,
	ammo, magazines, magazine_capacity, magazines_max, mag_upgrade_level,
	mag_capacity_level, confiscated, jammed, sabotaged, egged, ap_shots,
	explosive_shots, bread_uses, trigger_lock_until, trigger_lock_uses,
	grease_until, silencer_until, sunglasses_until, ducks_detector_until,
	ducks_detector_uses, mirror_until, sand_until, soaked_until,
	life_insurance_until, liability_insurance_until`

func scanRecord(row pgx.Row, network, channel, player string) (*model.Record, error) {
	r := model.NewRecord(network, channel, player)
	var (
		triggerLockUntil, greaseUntil, silencerUntil, sunglassesUntil int64
		detectorUntil, mirrorUntil, sandUntil, soakedUntil            int64
		lifeUntil, liabilityUntil                                     int64
		triggerLockUses, detectorUses                                 int
	)
	err := row.Scan(
		&r.XP, &r.DucksShot, &r.GoldenDucks, &r.Misses, &r.Accidents, &r.WildFires,
		&r.ShotsFired, &r.BefriendedDucks, &r.BestTime, &r.TotalReactionTime, &r.LastDuckTime,
		&r.Ammo, &r.Magazines, &r.MagazineCapacity, &r.MagazinesMax, &r.MagUpgradeLevel,
		&r.MagCapacityLevel, &r.Confiscated, &r.Jammed, &r.Sabotaged, &r.Egged, &r.APShots,
		&r.ExplosiveShots, &r.BreadUses, &triggerLockUntil, &triggerLockUses,
		&greaseUntil, &silencerUntil, &sunglassesUntil, &detectorUntil,
		&detectorUses, &mirrorUntil, &sandUntil, &soakedUntil,
		&lifeUntil, &liabilityUntil,
	)
	if err != nil {
		return nil, err
	}

	set := func(kind model.EffectKind, until int64, uses int) {
		if until == 0 && uses == 0 {
			return
		}
		r.Effects[kind] = model.TimedEffect{Until: until, Uses: uses}
	}
	set(model.EffectTriggerLock, triggerLockUntil, triggerLockUses)
	set(model.EffectGrease, greaseUntil, 0)
	set(model.EffectSilencer, silencerUntil, 0)
	set(model.EffectSunglasses, sunglassesUntil, 0)
	set(model.EffectDucksDetector, detectorUntil, detectorUses)
	set(model.EffectMirror, mirrorUntil, 0)
	set(model.EffectSand, sandUntil, 0)
	set(model.EffectSoaked, soakedUntil, 0)
	set(model.EffectLifeInsurance, lifeUntil, 0)
	set(model.EffectLiabilityInsurance, liabilityUntil, 0)
	return r, nil
}

// Load implements Store.
func (ps *PostgresStore) Load(ctx context.Context, network, channel, player string) (*model.Record, error) {
	row := ps.pool.QueryRow(ctx,
		`SELECT `+statColumns+`
		 FROM channel_stats cs
		 JOIN players p ON p.id = cs.player_id
		 WHERE p.username = $1 AND cs.network_name = $2 AND cs.channel_name = $3`,
		player, network, channel,
	)
	r, err := scanRecord(row, network, channel, player)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading record %s/%s/%s: %w", network, channel, player, err)
	}
	return r, nil
}

// playerID fetches or creates the player's id.
func (ps *PostgresStore) playerID(ctx context.Context, tx pgx.Tx, player string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO players (username) VALUES ($1)
		 ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
		 RETURNING id`, player,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensuring player %q: %w", player, err)
	}
	return id, nil
}

// Save implements Store. The incoming field set is validated against the
// registry, then written as a single upsert.
func (ps *PostgresStore) Save(ctx context.Context, network, channel, player string, fields map[string]any) error {
	if err := ValidateFields(fields); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]string, 0, len(names))
	sets := make([]string, 0, len(names))
	args := []any{nil, network, channel} // $1 player_id filled below
	for _, name := range names {
		args = append(args, fields[name])
		n := len(args)
		cols = append(cols, name)
		sets = append(sets, fmt.Sprintf("%s = $%d", name, n))
	}

	placeholders := make([]string, 0, len(names))
	for i := range names {
		placeholders = append(placeholders, fmt.Sprintf("$%d", 4+i))
	}

	tx, err := ps.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning save tx: %w", err)
	}
	defer tx.Rollback(ctx)

	id, err := ps.playerID(ctx, tx, player)
	if err != nil {
		return err
	}
	args[0] = id

	query := fmt.Sprintf(
		`INSERT INTO channel_stats (player_id, network_name, channel_name, %s)
		 VALUES ($1, $2, $3, %s)
		 ON CONFLICT (player_id, network_name, channel_name) DO UPDATE SET %s`,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(sets, ", "),
	)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("saving record %s/%s/%s: %w", network, channel, player, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// Top implements Store.
func (ps *PostgresStore) Top(ctx context.Context, network, channel string, limit int) ([]*model.Record, error) {
	rows, err := ps.pool.Query(ctx,
		`SELECT p.username, `+statColumns+`
		 FROM channel_stats cs
		 JOIN players p ON p.id = cs.player_id
		 WHERE cs.network_name = $1 AND cs.channel_name = $2
		 ORDER BY cs.xp DESC, p.username ASC
		 LIMIT $3`,
		network, channel, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard %s/%s: %w", network, channel, err)
	}
	defer rows.Close()

	var records []*model.Record
	for rows.Next() {
		var player string
		r := model.NewRecord(network, channel, "")
		var (
			tlu, gu, siu, su, du, mu, sau, sou, lu, liu int64
			tlUses, dUses                               int
		)
		if err := rows.Scan(
			&player,
			&r.XP, &r.DucksShot, &r.GoldenDucks, &r.Misses, &r.Accidents, &r.WildFires,
			&r.ShotsFired, &r.BefriendedDucks, &r.BestTime, &r.TotalReactionTime, &r.LastDuckTime,
			&r.Ammo, &r.Magazines, &r.MagazineCapacity, &r.MagazinesMax, &r.MagUpgradeLevel,
			&r.MagCapacityLevel, &r.Confiscated, &r.Jammed, &r.Sabotaged, &r.Egged, &r.APShots,
			&r.ExplosiveShots, &r.BreadUses, &tlu, &tlUses,
			&gu, &siu, &su, &du,
			&dUses, &mu, &sau, &sou,
			&lu, &liu,
		); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		r.Player = player
		records = append(records, r)
	}
	return records, rows.Err()
}

// ArchiveAndClear implements Store: copy into channel_stats_backup, then
// delete, in one transaction so the copy commits or nothing does.
func (ps *PostgresStore) ArchiveAndClear(ctx context.Context, network, channel string) (string, int, error) {
	backupID := fmt.Sprintf("%s_%s_%s", network, channel, uuid.NewString()[:8])

	tx, err := ps.pool.Begin(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("beginning archive tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO channel_stats_backup (backup_id, player_id, network_name, channel_name, `+statColumns+`)
		 SELECT $1, player_id, network_name, channel_name, `+statColumns+`
		 FROM channel_stats
		 WHERE network_name = $2 AND channel_name = $3`,
		backupID, network, channel,
	)
	if err != nil {
		return "", 0, fmt.Errorf("archiving %s/%s: %w", network, channel, err)
	}
	archived := int(tag.RowsAffected())

	if _, err := tx.Exec(ctx,
		`DELETE FROM channel_stats WHERE network_name = $1 AND channel_name = $2`,
		network, channel,
	); err != nil {
		return "", 0, fmt.Errorf("clearing %s/%s: %w", network, channel, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", 0, fmt.Errorf("committing archive %s: %w", backupID, err)
	}
	return backupID, archived, nil
}

// ListBackups implements Store.
func (ps *PostgresStore) ListBackups(ctx context.Context, network, channel string) ([]BackupInfo, error) {
	rows, err := ps.pool.Query(ctx,
		`SELECT backup_id, MIN(created_at), COUNT(*)
		 FROM channel_stats_backup
		 WHERE network_name = $1 AND channel_name = $2
		 GROUP BY backup_id
		 ORDER BY MIN(created_at) DESC`,
		network, channel,
	)
	if err != nil {
		return nil, fmt.Errorf("listing backups %s/%s: %w", network, channel, err)
	}
	defer rows.Close()

	var infos []BackupInfo
	for rows.Next() {
		info := BackupInfo{Network: network, Channel: channel}
		var created time.Time
		if err := rows.Scan(&info.ID, &created, &info.Players); err != nil {
			return nil, fmt.Errorf("scanning backup row: %w", err)
		}
		info.CreatedAt = created
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Restore implements Store.
func (ps *PostgresStore) Restore(ctx context.Context, backupID string) (int, error) {
	tx, err := ps.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning restore tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO channel_stats (player_id, network_name, channel_name, `+statColumns+`)
		 SELECT player_id, network_name, channel_name, `+statColumns+`
		 FROM channel_stats_backup
		 WHERE backup_id = $1
		 ON CONFLICT (player_id, network_name, channel_name) DO UPDATE SET
		 `+restoreSetClause(),
		backupID,
	)
	if err != nil {
		return 0, fmt.Errorf("restoring backup %s: %w", backupID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing restore %s: %w", backupID, err)
	}
	return int(tag.RowsAffected()), nil
}

func restoreSetClause() string {
	fields := strings.Split(statColumns, ",")
	sets := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", f, f))
	}
	return strings.Join(sets, ", ")
}
