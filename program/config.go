package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/keilerkonzept/creature-dash/internal/ui"
)

type Config struct {
	// input
	Source      string        `yaml:"source" env:"SOURCE"`
	LoadTimeout time.Duration `yaml:"load_timeout" env:"LOAD_TIMEOUT"`

	// render
	PageSize  int  `yaml:"page_size" env:"PAGE_SIZE"`
	ViewSplit int  `yaml:"view_split" env:"VIEW_SPLIT"`
	TopN      int  `yaml:"top_n" env:"TOP_N"`
	TopTypes  int  `yaml:"top_types" env:"TOP_TYPES"`
	LogScale  bool `yaml:"log_scale" env:"LOG_SCALE"`
	AltScreen bool `yaml:"alt_screen" env:"ALT_SCREEN"`

	StatsEnabled bool `yaml:"stats" env:"STATS"`
	StatsWindow  int  `yaml:"stats_window" env:"STATS_WINDOW"`

	// logging
	LogFile  string `yaml:"log_file" env:"LOG_FILE"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// envPrefix namespaces the environment overrides, e.g. CREATURE_DASH_SOURCE.
const envPrefix = "CREATURE_DASH_"

func defaultConfig() Config {
	return Config{
		Source:      "pokemon_processed.json",
		LoadTimeout: 0,

		PageSize:  ui.DefaultPageSize,
		ViewSplit: 60,
		TopN:      15,
		TopTypes:  10,
		LogScale:  false,
		AltScreen: true,

		StatsEnabled: false,
		StatsWindow:  64,

		LogFile:  "",
		LogLevel: "info",
	}
}

// loadConfigFile overlays the YAML file at path onto cfg.
func loadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// applyEnv overlays CREATURE_DASH_* variables onto cfg.
func applyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: envPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func validateAndNormalizeConfig(cfg *Config) error {
	if cfg.Source == "" {
		return errors.New("--in must not be empty")
	}
	if cfg.LoadTimeout < 0 {
		return errors.New("--load-timeout must be >= 0")
	}
	if !ui.ValidPageSize(cfg.PageSize) {
		return fmt.Errorf("--page-size must be one of %v", ui.PageSizes)
	}
	if cfg.TopN < 1 {
		return errors.New("--top must be >= 1")
	}
	if cfg.TopTypes < 1 {
		return errors.New("--top-types must be >= 1")
	}
	if cfg.StatsWindow < 1 {
		return errors.New("--stats-window must be >= 1")
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	cfg.ViewSplit = max(ui.MinViewSplit, cfg.ViewSplit)
	cfg.ViewSplit = min(ui.MaxViewSplit, cfg.ViewSplit)
	return nil
}

func (c Config) shellOptions() ui.Options {
	return ui.Options{
		Source:       c.Source,
		PageSize:     c.PageSize,
		ViewSplit:    c.ViewSplit,
		TopN:         c.TopN,
		TopTypes:     c.TopTypes,
		LogScale:     c.LogScale,
		StatsEnabled: c.StatsEnabled,
		StatsWindow:  c.StatsWindow,
		LoadTimeout:  c.LoadTimeout,
	}
}
