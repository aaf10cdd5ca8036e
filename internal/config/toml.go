// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Adaptivity AdaptivityConfig `toml:"adaptivity"`
	Storage    StorageConfig    `toml:"storage"`
	Sound      SoundConfig      `toml:"sound"`
	Log        LogConfig        `toml:"log"`
}

// AdaptivityConfig maps difficulty adaptation settings.
type AdaptivityConfig struct {
	PromoteThreshold *float64 `toml:"promote-threshold"`
	DemoteThreshold  *float64 `toml:"demote-threshold"`
	MinLevel         *int     `toml:"min-level"`
	MaxLevel         *int     `toml:"max-level"`
	Window           *int     `toml:"window"`
}

// StorageConfig maps persistence settings.
type StorageConfig struct {
	Backend *string `toml:"backend"`
	DataDir *string `toml:"data-dir"`
}

// SoundConfig maps audio cue settings.
type SoundConfig struct {
	Enabled *bool `toml:"enabled"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
