// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath = "config.toml"
	DefaultHTTPAddr   = ":8080"
	DefaultBackend    = "postgres"
	DefaultPGHost     = "127.0.0.1"
	DefaultPGPort     = 5432
	DefaultPGUser     = "postgres"
	DefaultPGDatabase = "rolodexd"
	DefaultPGSSLMode  = "disable"
	DefaultChunkSize  = 200
	DefaultYieldEvery = 100
	DefaultArgLimit   = 900
	DefaultWorkers    = 4
	DefaultPoolSize   = 8
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log       LogConfig       `toml:"log"`
	Server    ServerConfig    `toml:"server"`
	Store     StoreConfig     `toml:"store"`
	Postgres  PostgresConfig  `toml:"postgres"`
	Batch     BatchConfig     `toml:"batch"`
	Fetch     FetchConfig     `toml:"fetch"`
	Partition PartitionConfig `toml:"partition"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig selects the contact store backend ("postgres" or "memory").
type StoreConfig struct {
	Backend string `toml:"backend"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// BatchConfig tunes the mutation executor: operations per transaction,
// yield frequency, and selection argument limit.
type BatchConfig struct {
	ChunkSize  int `toml:"chunk_size"`
	YieldEvery int `toml:"yield_every"`
	ArgLimit   int `toml:"arg_limit"`
}

// FetchConfig tunes the fetch pipeline: concurrent per-kind queries and
// the size of the service dispatch pool.
type FetchConfig struct {
	Workers  int `toml:"workers"`
	PoolSize int `toml:"pool_size"`
}

// PartitionConfig holds the default write partition for new data.
type PartitionConfig struct {
	DefaultPartitionID string `toml:"default_partition_id"`
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Store: StoreConfig{
			Backend: DefaultBackend,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Batch: BatchConfig{
			ChunkSize:  DefaultChunkSize,
			YieldEvery: DefaultYieldEvery,
			ArgLimit:   DefaultArgLimit,
		},
		Fetch: FetchConfig{
			Workers:  DefaultWorkers,
			PoolSize: DefaultPoolSize,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	if cfg.Batch.ChunkSize <= 0 {
		cfg.Batch.ChunkSize = DefaultChunkSize
	}
	if cfg.Batch.YieldEvery <= 0 {
		cfg.Batch.YieldEvery = DefaultYieldEvery
	}
	if cfg.Batch.ArgLimit <= 0 {
		cfg.Batch.ArgLimit = DefaultArgLimit
	}
	if cfg.Fetch.Workers <= 0 {
		cfg.Fetch.Workers = DefaultWorkers
	}
	if cfg.Fetch.PoolSize <= 0 {
		cfg.Fetch.PoolSize = DefaultPoolSize
	}

	return cfg, nil
}
