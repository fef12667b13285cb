// Package config loads the simulation's tuning parameters (octree shape,
// approximation threshold, worker count, force model) from a YAML file,
// following the layered viper configuration
// pattern the rest of this module's ancestry uses for its own settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	sdkerrors "cosmossdk.io/errors"

	"github.com/oxygene76/gravity-octree/pkg/gravity/apperrors"
)

// ForceModel names a forces.Field implementation to construct.
type ForceModel string

const (
	ForceModelNewtonian ForceModel = "newtonian"
	ForceModelPlummer   ForceModel = "plummer"
)

// OctreeConfig configures a new octree.Octree.
type OctreeConfig struct {
	Looseness   float64 `yaml:"looseness" mapstructure:"looseness"`
	MinWidth    float64 `yaml:"min_width" mapstructure:"min_width"`
	Capacity    int     `yaml:"capacity" mapstructure:"capacity"`
	GrowthLimit int     `yaml:"growth_limit" mapstructure:"growth_limit"`
	ShrinkLimit int     `yaml:"shrink_limit" mapstructure:"shrink_limit"`
	BoundsWidth float64 `yaml:"bounds_width" mapstructure:"bounds_width"`
}

// AlgorithmConfig configures a new barneshut.Algorithm.
type AlgorithmConfig struct {
	Threshold              float64    `yaml:"threshold" mapstructure:"threshold"`
	ForceModel             ForceModel `yaml:"force_model" mapstructure:"force_model"`
	GravitationalConstant  float64    `yaml:"gravitational_constant" mapstructure:"gravitational_constant"`
}

// WorkersConfig configures the worker pool used by Octree.Update.
type WorkersConfig struct {
	Count int `yaml:"count" mapstructure:"count"`
}

// Config is the full simulation configuration.
type Config struct {
	Octree    OctreeConfig    `yaml:"octree" mapstructure:"octree"`
	Algorithm AlgorithmConfig `yaml:"algorithm" mapstructure:"algorithm"`
	Workers   WorkersConfig   `yaml:"workers" mapstructure:"workers"`

	// ParticleSeedFile names a YAML file of initial particles. It is loaded
	// and saved with the rest of the configuration; cmd/gravitysim does not
	// read it and always generates a synthetic distribution.
	ParticleSeedFile string `yaml:"particle_seed_file" mapstructure:"particle_seed_file"`
}

// Default returns the configuration matching the algorithm packages' own
// default constants.
func Default() *Config {
	return &Config{
		Octree: OctreeConfig{
			Looseness:   1.25,
			MinWidth:    1.0,
			Capacity:    8,
			GrowthLimit: 10,
			ShrinkLimit: 10,
			BoundsWidth: 1000.0,
		},
		Algorithm: AlgorithmConfig{
			Threshold:             1.0,
			ForceModel:            ForceModelNewtonian,
			GravitationalConstant: 6.67430e-11,
		},
		Workers: WorkersConfig{
			Count: 0, // 0 means the pool defaults to GOMAXPROCS
		},
	}
}

// Load reads configuration from configPath if non-empty, otherwise searches
// "./gravitysim.yaml" and "$HOME/.gravitysim/gravitysim.yaml", falling back
// to Default when no file is found. GRAVITYSIM_* environment variables are
// consulted only for keys set in a file that was found; without a file the
// environment is not read.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return Default(), nil
		}
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("gravitysim")
		v.AddConfigPath(".")

		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".gravitysim"))
		}
	}

	v.SetEnvPrefix("GRAVITYSIM")
	v.AutomaticEnv()

	cfg := Default()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate checks that cfg's values are acceptable to the octree and
// barneshut packages, returning apperrors.ErrInvalidArgument-wrapped errors
// early rather than deferring to their own constructors.
func Validate(cfg *Config) error {
	switch {
	case cfg.Octree.Looseness < 1.0:
		return sdkerrors.Wrap(apperrors.ErrInvalidArgument, "octree.looseness must be >= 1.0")
	case cfg.Octree.MinWidth <= 0.0:
		return sdkerrors.Wrap(apperrors.ErrInvalidArgument, "octree.min_width must be > 0.0")
	case cfg.Octree.Capacity < 1:
		return sdkerrors.Wrap(apperrors.ErrInvalidArgument, "octree.capacity must be >= 1")
	case cfg.Octree.GrowthLimit < 0:
		return sdkerrors.Wrap(apperrors.ErrInvalidArgument, "octree.growth_limit must be >= 0")
	case cfg.Octree.ShrinkLimit < 0:
		return sdkerrors.Wrap(apperrors.ErrInvalidArgument, "octree.shrink_limit must be >= 0")
	case cfg.Octree.BoundsWidth <= 0.0:
		return sdkerrors.Wrap(apperrors.ErrInvalidArgument, "octree.bounds_width must be > 0.0")
	case cfg.Algorithm.Threshold < 0.0:
		return sdkerrors.Wrap(apperrors.ErrInvalidArgument, "algorithm.threshold must be >= 0.0")
	case cfg.Algorithm.ForceModel != ForceModelNewtonian && cfg.Algorithm.ForceModel != ForceModelPlummer:
		return sdkerrors.Wrapf(apperrors.ErrInvalidArgument, "algorithm.force_model %q is not newtonian or plummer", cfg.Algorithm.ForceModel)
	case cfg.Workers.Count < 0:
		return sdkerrors.Wrap(apperrors.ErrInvalidArgument, "workers.count must be >= 0")
	}

	return nil
}
