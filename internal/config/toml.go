// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Scale      ScaleConfig      `toml:"scale"`
	Simulation SimulationConfig `toml:"simulation"`
	Log        LogConfig        `toml:"log"`
}

// ScaleConfig maps the rating scale bounds.
type ScaleConfig struct {
	Min *float64 `toml:"min"`
	Max *float64 `toml:"max"`
}

// SimulationConfig maps population and round settings.
type SimulationConfig struct {
	Readers       *int     `toml:"readers"`
	Reporters     *int     `toml:"reporters"`
	Rounds        *int     `toml:"rounds"`
	VotesPerRound *int     `toml:"votes-per-round"`
	Window        *int     `toml:"window"`
	Seed          *int64   `toml:"seed"`
	Noise         *float64 `toml:"noise"`
	Adversarial   *float64 `toml:"adversarial"`
	Careless      *float64 `toml:"careless"`
	Policy        *string  `toml:"policy"`
	BlendAlpha    *float64 `toml:"blend-alpha"`
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
