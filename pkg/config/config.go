package config

// Package config provides a reusable loader for the engine's genesis
// configuration files and environment variables. It is versioned so that
// applications can depend on a stable API contract.
//
// Version: v0.1.0

import (
	"fmt"

	"github.com/spf13/viper"

	"markenz/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the genesis configuration for a kernel instance. It mirrors
// spec §6's "Genesis configuration" block plus the error-mode stamp spec §7
// requires to be fixed at genesis.
type Config struct {
	Engine struct {
		Seed                 uint64 `mapstructure:"seed" json:"seed"`
		SnapshotIntervalTicks uint64 `mapstructure:"snapshot_interval_ticks" json:"snapshot_interval_ticks"`
		MaxTicks             uint64 `mapstructure:"max_ticks" json:"max_ticks"`
		SnapshotDir          string `mapstructure:"snapshot_dir" json:"snapshot_dir"`
		EventLogEndpoint     string `mapstructure:"event_log_endpoint" json:"event_log_endpoint"`
		TickRateMS           uint64 `mapstructure:"tick_rate_ms" json:"tick_rate_ms"`
	} `mapstructure:"engine" json:"engine"`

	// BioVetoFatal selects the error-handling mode for BioVetoError (spec
	// §7): true means an insufficient-energy event halts the tick (the
	// default, replay-safe mode); false opts into per-event rejection. The
	// mode is read once at startup; it is not included in any world, event
	// or configuration hash.
	BioVetoFatal bool `mapstructure:"bio_veto_fatal" json:"bio_veto_fatal"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	viper.SetDefault("bio_veto_fatal", true)
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.SetEnvPrefix("MARKENZ")
	viper.AutomaticEnv() // picks up MARKENZ_* overrides

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	applyDefaults(&AppConfig)
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the MARKENZ_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("MARKENZ_ENV", ""))
}

// Default returns a genesis configuration usable without any config file on
// disk, with values overridable by environment variables. Useful for tests
// and for the `engine run` CLI when no config file is found.
func Default() Config {
	var c Config
	c.BioVetoFatal = true
	applyDefaults(&c)
	return c
}

func applyDefaults(c *Config) {
	if c.Engine.Seed == 0 {
		c.Engine.Seed = utils.EnvOrDefaultUint64("MARKENZ_SEED", 0x1337)
	}
	if c.Engine.SnapshotIntervalTicks == 0 {
		c.Engine.SnapshotIntervalTicks = utils.EnvOrDefaultUint64("MARKENZ_SNAPSHOT_INTERVAL", 100)
	}
	if c.Engine.MaxTicks == 0 {
		c.Engine.MaxTicks = utils.EnvOrDefaultUint64("MARKENZ_MAX_TICKS", 1000)
	}
	if c.Engine.SnapshotDir == "" {
		c.Engine.SnapshotDir = utils.EnvOrDefault("MARKENZ_SNAPSHOT_DIR", "snapshots")
	}
	if c.Engine.EventLogEndpoint == "" {
		c.Engine.EventLogEndpoint = utils.EnvOrDefault("MARKENZ_EVENT_LOG", "events.wal")
	}
	if c.Engine.TickRateMS == 0 {
		c.Engine.TickRateMS = utils.EnvOrDefaultUint64("MARKENZ_TICK_RATE_MS", 50)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = utils.EnvOrDefault("MARKENZ_LOG_LEVEL", "info")
	}
}
