package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/featherfall/duckhunt/internal/config"
	"github.com/featherfall/duckhunt/internal/engine"
	"github.com/featherfall/duckhunt/internal/store"
)

const ConfigPath = "config/duckhunt.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	migrate := flag.Bool("migrate", false, "copy records from the file backend into the sql backend, then exit")
	flag.Parse()

	if err := run(ctx, *migrate); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, migrate bool) error {
	// Configure slog
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	slog.Info("duckhunt starting")

	// Load config
	cfgPath := ConfigPath
	if p := os.Getenv("DUCKHUNT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.Info("config loaded", "storage", cfg.Storage, "networks", len(cfg.Networks))

	if migrate {
		return migrateRecords(ctx, cfg)
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	eng := engine.New(cfg.Game, st, logTransport{})

	if err := eng.Run(ctx, cfg.Networks); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Bot) (store.Store, error) {
	switch cfg.Storage {
	case "file", "":
		fs, err := store.OpenFile(cfg.DataFile)
		if err != nil {
			return nil, fmt.Errorf("opening data file: %w", err)
		}
		slog.Info("file store opened", "path", cfg.DataFile)
		return fs, nil

	case "sql":
		if err := store.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		ps, err := store.OpenPostgres(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		slog.Info("database connected")
		return ps, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// migrateRecords copies every record from the JSON data file into the
// sql backend. Safe to re-run: saves are upserts.
func migrateRecords(ctx context.Context, cfg config.Bot) error {
	src, err := store.OpenFile(cfg.DataFile)
	if err != nil {
		return fmt.Errorf("opening data file: %w", err)
	}
	defer src.Close()

	if err := store.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	dst, err := store.OpenPostgres(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer dst.Close()

	n, err := store.MigrateRecords(ctx, src, dst)
	if err != nil {
		return fmt.Errorf("migrating records: %w", err)
	}
	slog.Info("migration complete", "records", n)
	return nil
}

// logTransport is a stand-in chat layer that writes announcements to the
// log. A real deployment wires the engine into an IRC or Discord client.
type logTransport struct{}

func (logTransport) PresentUser(network, channel, player string) bool { return true }

func (logTransport) Announce(network, channel, text string) {
	slog.Info("announce", "network", network, "channel", channel, "text", text)
}

func (logTransport) Notice(network, channel, player, text string) {
	slog.Info("notice", "network", network, "channel", channel, "player", player, "text", text)
}
