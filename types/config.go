package types

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config engine and cli configuration, loaded from toml
type Config struct {
	Title     string `toml:"title"`
	DBBackend string `toml:"dbBackend"`
	DBPath    string `toml:"dbPath"`
	LogLevel  string `toml:"logLevel"`
	// wager limits in smallest units; MaxWager == 0 means "only bounded by MaxCoin"
	MinWager int64 `toml:"minWager"`
	MaxWager int64 `toml:"maxWager"`
}

// DefaultConfig the values used when no config file is given
func DefaultConfig() *Config {
	return &Config{
		Title:     "easywager",
		DBBackend: "goleveldb",
		DBPath:    "datadir",
		LogLevel:  "info",
		MinWager:  1,
		MaxWager:  0,
	}
}

// LoadConfig read a toml config file, filling unset fields with defaults
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	if cfg.MinWager <= 0 {
		cfg.MinWager = 1
	}
	return cfg, nil
}

// CheckWager apply the configured limits on top of the global amount guard
func (c *Config) CheckWager(amount int64) bool {
	if !CheckAmount(amount) {
		return false
	}
	if amount < c.MinWager {
		return false
	}
	if c.MaxWager > 0 && amount > c.MaxWager {
		return false
	}
	return true
}
