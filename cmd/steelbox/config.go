package main

import (
	"fmt"

	"github.com/chazu/steelbox/pkg/frame"
	"github.com/chazu/steelbox/pkg/holes"
	"github.com/chazu/steelbox/pkg/joinery"
	"github.com/chazu/steelbox/pkg/profile"
	"github.com/spf13/viper"
)

// runConfig is the resolved configuration for a planning run. Viper
// merges config file, environment, and flags before this is decoded;
// from here on everything is explicit values.
type runConfig struct {
	ProfileDir string          `mapstructure:"profile_dir"`
	Box        frame.BoxSpec   `mapstructure:"box"`
	Joinery    joinery.Options `mapstructure:"joinery"`
	Rivets     *rivetConfig    `mapstructure:"rivets"`
}

type rivetConfig struct {
	Enabled bool            `mapstructure:"enabled"`
	Row     holes.RowConfig `mapstructure:",squash"`
}

// loadRunConfig decodes and validates the run configuration.
func loadRunConfig() (*runConfig, error) {
	var cfg runConfig
	cfg.Joinery = joinery.DefaultOptions()
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if dir, _ := rootCmd.Flags().GetString("profiles"); dir != "" {
		cfg.ProfileDir = dir
	}
	if cfg.ProfileDir == "" {
		return nil, fmt.Errorf("no profile directory configured (set profile_dir or --profiles)")
	}
	// Joinery options are validated by the pipeline; commands that never
	// plan (profiles list) stay usable with a bare config.
	return &cfg, nil
}

// loadRegistry populates a profile registry from the configured
// library directory.
func loadRegistry(cfg *runConfig) (*profile.Registry, error) {
	reg := profile.NewRegistry()
	if err := profile.LoadDir(reg, cfg.ProfileDir); err != nil {
		return nil, err
	}
	if reg.Len() == 0 {
		return nil, fmt.Errorf("no profiles found in %s", cfg.ProfileDir)
	}
	return reg, nil
}
