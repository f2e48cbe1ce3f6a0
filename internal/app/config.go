// Package app wires the CPU, PPU, bus, and cartridge into a runnable
// Machine and drives it with a Clock.
package app

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the handful of knobs the core exposes beyond the ROM
// itself: a mapper override for malformed headers, the log level, and
// a headless run's frame budget.
type Config struct {
	Mapper   MapperConfig   `toml:"mapper"`
	LogLevel string         `toml:"log_level"`
	Headless HeadlessConfig `toml:"headless"`
}

// MapperConfig optionally overrides the iNES header's declared mapper
// ID, for ROMs with a malformed or absent header. ForceID of -1 (the
// default) means no override.
type MapperConfig struct {
	ForceID int `toml:"force_id"`
}

// HeadlessConfig controls unattended runs (cmd/gones).
type HeadlessConfig struct {
	Frames int `toml:"frames"`
}

// DefaultConfig returns the configuration used when no TOML file is
// supplied.
func DefaultConfig() Config {
	return Config{
		Mapper:   MapperConfig{ForceID: -1},
		LogLevel: "warn",
		Headless: HeadlessConfig{Frames: 60},
	}
}

// LoadConfig reads path as TOML, starting from DefaultConfig so unset
// fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("app: decode config %s: %w", path, err)
	}
	return cfg, nil
}
