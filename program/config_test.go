package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, validateAndNormalizeConfig(&cfg))
	assert.Equal(t, "pokemon_processed.json", cfg.Source)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 15, cfg.TopN)
}

func TestValidateAndNormalizeConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "empty source", mutate: func(c *Config) { c.Source = "" }, wantErr: "--in"},
		{name: "negative timeout", mutate: func(c *Config) { c.LoadTimeout = -time.Second }, wantErr: "--load-timeout"},
		{name: "page size not a preset", mutate: func(c *Config) { c.PageSize = 7 }, wantErr: "--page-size"},
		{name: "zero top", mutate: func(c *Config) { c.TopN = 0 }, wantErr: "--top must"},
		{name: "zero top types", mutate: func(c *Config) { c.TopTypes = 0 }, wantErr: "--top-types"},
		{name: "zero stats window", mutate: func(c *Config) { c.StatsWindow = 0 }, wantErr: "--stats-window"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "--log-level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)
			err := validateAndNormalizeConfig(&cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestViewSplitIsClamped(t *testing.T) {
	cfg := defaultConfig()
	cfg.ViewSplit = 5
	require.NoError(t, validateAndNormalizeConfig(&cfg))
	assert.Equal(t, 20, cfg.ViewSplit)

	cfg.ViewSplit = 95
	require.NoError(t, validateAndNormalizeConfig(&cfg))
	assert.Equal(t, 80, cfg.ViewSplit)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: https://example.org/data.json\npage_size: 25\nload_timeout: 5s\nstats: true\n"), 0o644))

	cfg := defaultConfig()
	require.NoError(t, loadConfigFile(&cfg, path))
	assert.Equal(t, "https://example.org/data.json", cfg.Source)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 5*time.Second, cfg.LoadTimeout)
	assert.True(t, cfg.StatsEnabled)
	assert.Equal(t, 15, cfg.TopN, "unset keys keep their defaults")
}

func TestLoadConfigFileErrors(t *testing.T) {
	cfg := defaultConfig()
	err := loadConfigFile(&cfg, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: [1, 2"), 0o644))
	err = loadConfigFile(&cfg, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestApplyEnv(t *testing.T) {
	cfg := defaultConfig()
	err := applyEnv(&cfg, map[string]string{
		"CREATURE_DASH_SOURCE":    "-",
		"CREATURE_DASH_TOP_N":     "5",
		"CREATURE_DASH_LOG_SCALE": "true",
		"UNRELATED":               "x",
	})
	require.NoError(t, err)
	assert.Equal(t, "-", cfg.Source)
	assert.Equal(t, 5, cfg.TopN)
	assert.True(t, cfg.LogScale)
	assert.Equal(t, 10, cfg.PageSize)

	err = applyEnv(&cfg, map[string]string{"CREATURE_DASH_TOP_N": "many"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func executeRoot(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	var got Config
	cmd := newRootCmd(func(_ context.Context, cfg Config) error {
		got = cfg
		return nil
	})
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return got, err
}

func TestRootCmdPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: from-file.json\npage_size: 25\ntop_n: 3\n"), 0o644))
	t.Setenv("CREATURE_DASH_TOP_N", "7")
	t.Setenv("CREATURE_DASH_TOP_TYPES", "4")

	cfg, err := executeRoot(t, "--config", path, "--top-types", "2")
	require.NoError(t, err)
	assert.Equal(t, "from-file.json", cfg.Source, "file beats default")
	assert.Equal(t, 25, cfg.PageSize, "file beats default")
	assert.Equal(t, 7, cfg.TopN, "env beats file")
	assert.Equal(t, 2, cfg.TopTypes, "flag beats env")
}

func TestRootCmdDefaults(t *testing.T) {
	cfg, err := executeRoot(t)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestRootCmdRejectsInvalidFlags(t *testing.T) {
	_, err := executeRoot(t, "--page-size", "11")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--page-size")

	_, err = executeRoot(t, "extra-arg")
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := defaultConfig()
	logger, err := newLogger(cfg)
	require.NoError(t, err)
	logger.Info("dropped")

	cfg.LogFile = filepath.Join(t.TempDir(), "dash.log")
	cfg.LogLevel = "debug"
	logger, err = newLogger(cfg)
	require.NoError(t, err)
	logger.Debug("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
