package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tui "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/keilerkonzept/creature-dash/internal/dataset"
	"github.com/keilerkonzept/creature-dash/internal/ui"
)

var version = "0.1.0-dev"

const longHelp = `Browse a static creature dataset: table, inspector and summary charts.

Run "creature-dash prepare" first to build the dataset file from the PokéAPI catalog.`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(run).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(runFn func(context.Context, Config) error) *cobra.Command {
	cfg := defaultConfig()
	var configPath string

	cmd := &cobra.Command{
		Use:          "creature-dash",
		Short:        "Browse a static creature dataset: table, inspector and summary charts",
		Long:         longHelp,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := resolveConfig(cmd, &cfg, configPath); err != nil {
				return err
			}
			return runFn(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "Read settings from this YAML file (flags and CREATURE_DASH_* variables take precedence)")
	f.StringVar(&cfg.Source, "in", cfg.Source, "Dataset to load: a file path, - for stdin, or an http(s) URL")
	f.DurationVar(&cfg.LoadTimeout, "load-timeout", cfg.LoadTimeout, "Give up loading after this long (0 = wait forever)")
	f.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, fmt.Sprintf("Table rows per page, one of %v", ui.PageSizes))
	f.IntVar(&cfg.ViewSplit, "view-split", cfg.ViewSplit, "Split the top row at this % of the screen width [20,80]")
	f.IntVar(&cfg.TopN, "top", cfg.TopN, "Number of records in the height ranking")
	f.IntVar(&cfg.TopTypes, "top-types", cfg.TopTypes, "Number of type labels in the type leaderboard")
	f.BoolVar(&cfg.LogScale, "log-scale", cfg.LogScale, "Start the ranking chart on a logarithmic scale")
	f.BoolVar(&cfg.AltScreen, "alt-screen", cfg.AltScreen, "Use the terminal alternate screen buffer")
	f.BoolVar(&cfg.StatsEnabled, "stats", cfg.StatsEnabled, "Show load and render timings")
	f.IntVar(&cfg.StatsWindow, "stats-window", cfg.StatsWindow, "Number of recent render samples kept")

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write JSON logs to this file (the dashboard owns stdout)")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	cmd.AddCommand(newPrepareCmd(&cfg))
	return cmd
}

// resolveConfig layers defaults, the config file, the environment and the
// flags given on the command line, in that order.
func resolveConfig(cmd *cobra.Command, cfg *Config, configPath string) error {
	changed := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name != "config" {
			changed[f.Name] = f.Value.String()
		}
	})

	*cfg = defaultConfig()
	if configPath != "" {
		if err := loadConfigFile(cfg, configPath); err != nil {
			return err
		}
	}
	if err := applyEnv(cfg, nil); err != nil {
		return err
	}
	for name, value := range changed {
		if err := cmd.Flags().Set(name, value); err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
	}
	return validateAndNormalizeConfig(cfg)
}

func run(ctx context.Context, cfg Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting", zap.String("version", version), zap.String("source", cfg.Source))

	loader := dataset.NewLoader(dataset.WithLogger(logger))
	opts := cfg.shellOptions()
	opts.Logger = logger
	opts.Context = ctx
	m := ui.NewShell(loader, opts)

	progOpts := []tui.ProgramOption{tui.WithInputTTY(), tui.WithContext(ctx), tui.WithMouseCellMotion()}
	if cfg.AltScreen {
		progOpts = append(progOpts, tui.WithAltScreen())
	}
	if _, err := tui.NewProgram(m, progOpts...).Run(); err != nil {
		if errors.Is(err, tui.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

// newLogger writes to the log file when one is configured. The dashboard
// draws on stdout, so without a file nothing is logged.
func newLogger(cfg Config) (*zap.Logger, error) {
	if cfg.LogFile == "" {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{cfg.LogFile}
	config.ErrorOutputPaths = []string{cfg.LogFile}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
