package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/keilerkonzept/creature-dash/internal/dataset"
)

type prepareConfig struct {
	Endpoint   string
	SpriteBase string
	Games      []string
	Out        string
	RawOut     string
	Timeout    time.Duration
}

func defaultPrepareConfig() prepareConfig {
	return prepareConfig{
		Endpoint:   dataset.DefaultCatalogEndpoint,
		SpriteBase: dataset.DefaultSpriteBaseURL,
		Games:      append([]string(nil), dataset.DefaultGames...),
		Out:        defaultConfig().Source,
		Timeout:    2 * time.Minute,
	}
}

func validatePrepareConfig(cfg prepareConfig) error {
	if cfg.Endpoint == "" {
		return errors.New("--endpoint must not be empty")
	}
	if len(cfg.Games) == 0 {
		return errors.New("--game must name at least one game")
	}
	if cfg.Out == "" {
		return errors.New("--out must not be empty")
	}
	if cfg.Timeout < 0 {
		return errors.New("--timeout must be >= 0")
	}
	return nil
}

// newPrepareCmd builds the offline step that queries the catalog and writes
// the dataset file the dashboard loads. root supplies the shared log flags.
func newPrepareCmd(root *Config) *cobra.Command {
	cfg := defaultPrepareConfig()

	cmd := &cobra.Command{
		Use:          "prepare",
		Short:        "Query the PokéAPI catalog and write the dataset file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validatePrepareConfig(cfg); err != nil {
				return err
			}
			logger, err := newLogger(*root)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			n, err := runPrepare(cmd.Context(), cfg, dataset.NewLoader(dataset.WithLogger(logger)), logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", n, cfg.Out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "GraphQL endpoint of the catalog")
	f.StringVar(&cfg.SpriteBase, "sprite-base", cfg.SpriteBase, "Base URL that replaces the /media prefix of sprite paths")
	f.StringSliceVar(&cfg.Games, "game", cfg.Games, "Keep creatures appearing in any of these games (repeatable)")
	f.StringVarP(&cfg.Out, "out", "o", cfg.Out, "Write the processed dataset to this file")
	f.StringVar(&cfg.RawOut, "raw-out", cfg.RawOut, "Also write the unprocessed catalog response to this file")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Give up on the catalog query after this long (0 = wait forever)")

	return cmd
}

func runPrepare(ctx context.Context, cfg prepareConfig, loader *dataset.Loader, logger *zap.Logger) (int, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	entries, err := loader.FetchCatalog(ctx, cfg.Endpoint, cfg.Games)
	if err != nil {
		return 0, err
	}
	if cfg.RawOut != "" {
		raw, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("encoding raw catalog: %w", err)
		}
		if err := os.WriteFile(cfg.RawOut, append(raw, '\n'), 0o644); err != nil {
			return 0, fmt.Errorf("writing raw catalog: %w", err)
		}
	}

	records, err := dataset.Transform(entries, cfg.SpriteBase)
	if err != nil {
		return 0, err
	}
	if err := writeFileAtomic(cfg.Out, func(w io.Writer) error { return dataset.Encode(w, records) }); err != nil {
		return 0, err
	}
	logger.Info("dataset prepared",
		zap.String("out", cfg.Out),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)))
	return len(records), nil
}

// writeFileAtomic writes through a temp file in the target directory, so a
// failed run leaves any previous file in place.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".creature-dash-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmp.Name(), err)
	}
	return nil
}
