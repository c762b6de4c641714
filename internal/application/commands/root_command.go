package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"

	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/infrastructure/database"
	otelinfra "github.com/bravo68web/folio/internal/infrastructure/otel"
	"github.com/bravo68web/folio/internal/injectable"
	"github.com/bravo68web/folio/pkg/logger"
)

// CommandRegistry builds the folio command tree
type CommandRegistry struct {
	version string
}

func NewCommandRegistry(version string) *CommandRegistry {
	return &CommandRegistry{version: version}
}

func (r *CommandRegistry) RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:                  "folio",
		Usage:                 "Portfolio site with a commit activity dashboard",
		Version:               r.version,
		Suggest:               true,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the config file",
				Value:   "configs/config.yaml",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
		},
		Action: RootCommand(),
		Commands: []*cli.Command{
			r.ServeCommand(),
			r.GenerateCommand(),
			r.StatsCommand(),
			r.ImportCommand(),
			r.TokenCommand(),
			r.OpenAPICommand(),
		},
	}
}

func RootCommand() cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		fmt.Fprintln(cmd.Writer, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Fprintln(cmd.Writer, "folio: portfolio and commit dashboard")
		fmt.Fprintln(cmd.Writer, "Use 'folio --help' to see available commands.")
		fmt.Fprintln(cmd.Writer, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		return nil
	}
}

// app is everything a command runs against
type app struct {
	cfg  *config.Config
	db   *database.Database
	deps *injectable.Dependencies
	otel *otelinfra.Provider
	log  *logger.Logger
}

// bootstrap loads the config, sets up logging and builds the dependencies.
// The database is opened when the commit log lives there or needDB is set.
func (r *CommandRegistry) bootstrap(ctx context.Context, cmd *cli.Command, needDB bool) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	provider, err := setupLogging(cfg, r.version)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, otel: provider, log: logger.Get().WithFields(logger.Component("cli"))}

	if needDB || cfg.Meta.FromDatabase() {
		a.db, err = database.NewDatabase(ctx, &cfg.Database)
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := a.db.Migrate(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.deps, err = injectable.LoadDependencies(ctx, cfg, a.db)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases what bootstrap opened, in reverse order
func (a *app) Close() {
	if a.deps != nil {
		if err := a.deps.Close(); err != nil {
			a.log.Warn("Failed to close dependencies", logger.Error(err))
		}
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.otel != nil {
		_ = a.otel.Close()
	}
	_ = logger.SyncGlobal()
}

// setupLogging installs the global logger, teed to OTLP when enabled
func setupLogging(cfg *config.Config, version string) (*otelinfra.Provider, error) {
	logCfg := &logger.Config{
		Level:          cfg.Logging.Level,
		Output:         logger.OutputType(cfg.Logging.Output),
		Format:         cfg.Logging.Format,
		FilePath:       cfg.Logging.FilePath,
		FileMaxSizeMB:  cfg.Logging.FileMaxSizeMB,
		FileMaxBackups: cfg.Logging.FileMaxBackups,
		FileMaxAgeDays: cfg.Logging.FileMaxAgeDays,
		Development:    cfg.IsDevelopment(),
		AddCaller:      true,
		CallerSkip:     1,
	}

	if !cfg.OTEL.Enabled {
		return nil, logger.Init(logCfg)
	}

	provider, err := otelinfra.NewProvider(otelinfra.FromConfig(&cfg.OTEL, version))
	if err != nil {
		return nil, fmt.Errorf("failed to start telemetry: %w", err)
	}
	local, closers, err := logger.BuildCore(logCfg)
	if err != nil {
		_ = provider.Close()
		return nil, err
	}
	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	logger.SetGlobal(logger.NewWithCore(logCfg, otelinfra.NewCombinedCore(local, provider, level), closers...))
	return provider, nil
}
