package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/featherfall/duckhunt/internal/store/migrations"
)

// RunMigrations runs goose migrations on the given DSN.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// MigrateRecords copies every record from a file store into dst,
// preserving the source file as its own backup. Used when switching the
// bot from the JSON data file to SQL.
func MigrateRecords(ctx context.Context, src *FileStore, dst Store) (int, error) {
	records := src.all()
	for i, r := range records {
		err := dst.Save(ctx, r.Network, r.Channel, r.Player, FieldsOf(r))
		if err != nil {
			return i, fmt.Errorf("migrating record %s/%s/%s: %w", r.Network, r.Channel, r.Player, err)
		}
	}
	slog.Info("records migrated", "count", len(records))
	return len(records), nil
}
