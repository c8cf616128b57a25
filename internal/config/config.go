package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Bot holds all configuration for the duckhunt bot.
type Bot struct {
	// Networks the bot plays on. Each network carries its own channel list,
	// so spawn timing is sampled independently per (network, channel).
	Networks []Network `yaml:"networks"`

	// Storage selects the stats backend: "file" or "sql".
	Storage string `yaml:"storage"`

	// DataFile is the JSON stats file used by the file backend.
	DataFile string `yaml:"data_file"`

	// Database holds connection parameters for the sql backend.
	Database DatabaseConfig `yaml:"database"`

	// Game tunables.
	Game GameConfig `yaml:"game"`
}

// Network is one chat network the bot is connected to.
type Network struct {
	Name     string   `yaml:"name"`
	Channels []string `yaml:"channels"`
}

// GameConfig holds per-channel game tunables.
type GameConfig struct {
	// Spawn window in seconds. The next spawn time is sampled uniformly
	// from [MinSpawn, MaxSpawn] after the previous duck despawns or dies.
	MinSpawn int `yaml:"min_spawn"`
	MaxSpawn int `yaml:"max_spawn"`

	// DespawnTime is how long a duck stays before flying away, in seconds.
	DespawnTime int `yaml:"despawn_time"`

	// MaxDucks is the live-duck cap per channel.
	MaxDucks int `yaml:"max_ducks"`

	// GoldRatio is the probability a triggered spawn produces a golden duck.
	GoldRatio float64 `yaml:"gold_ratio"`

	// DetectorNotice is how many seconds before a scheduled spawn players
	// with an active ducks detector receive a private notice.
	DetectorNotice int `yaml:"detector_notice"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns Bot config with sensible defaults.
func Default() Bot {
	return Bot{
		Storage:  "file",
		DataFile: "duckhunt.data",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "duckhunt",
			Password: "duckhunt",
			DBName:   "duckhunt",
			SSLMode:  "disable",
		},
		Game: GameConfig{
			MinSpawn:       480,
			MaxSpawn:       1800,
			DespawnTime:    660,
			MaxDucks:       5,
			GoldRatio:      0.1,
			DetectorNotice: 60,
		},
	}
}

// Load loads bot config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Bot, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
