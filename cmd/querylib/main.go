package main

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/querylib/internal/catalog"
	"github.com/julianstephens/querylib/internal/cli"
	"github.com/julianstephens/querylib/internal/config"
	"github.com/julianstephens/querylib/internal/constants"
	"github.com/julianstephens/querylib/internal/errors"
	"github.com/julianstephens/querylib/internal/logger"
	"github.com/julianstephens/querylib/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	Debug   bool   `help:"Enable debug logging."`

	Init      cli.InitCmd      `cmd:"" help:"Create the config file and preference store."`
	Tui       cli.TuiCmd       `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Queries   cli.QueriesCmd   `cmd:"" help:"Browse and search queries."`
	Folders   cli.FoldersCmd   `cmd:"" help:"Browse and pin folders."`
	Schedules cli.SchedulesCmd `cmd:"" help:"Schedules, delivered runs and recurrence previews."`
	Validate  cli.ValidateCmd  `cmd:"" help:"Validate the query catalog."`
	Doctor    cli.DoctorCmd    `cmd:"" help:"Run health checks."`
	Backup    cli.BackupCmd    `cmd:"" help:"Back up or restore pins and favorites."`
}

func main() {
	configPath, err := config.ExpandPath(constants.DefaultConfigPath)
	if err != nil {
		errors.Fatal(err)
	}

	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Query library browser with schedule previews and activity timelines"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version, "config_path": configPath},
	)

	appCtx, cleanup, err := setup(kctx.Command())
	if err != nil {
		errors.Fatal(err)
	}
	defer cleanup()

	if err := kctx.Run(appCtx); err != nil {
		cleanup()
		errors.Fatal(err)
	}
}

func setup(command string) (*cli.Context, func(), error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	configDir := filepath.Dir(CLI.Config)

	if err := logger.Init(logger.Config{
		Debug:       CLI.Debug || cfg.Debug,
		Dir:         configDir,
		Interactive: command == "tui",
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Debug("Loaded config", "path", CLI.Config, "command", command)

	catalogPath, err := config.Resolve(configDir, cfg.Catalog)
	if err != nil {
		return nil, nil, err
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, nil, errors.WithHint(err, "check the catalog path in "+CLI.Config)
	}

	storePath, err := config.Resolve(configDir, cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.Open(storePath)
	if err != nil {
		return nil, nil, errors.WithHint(
			fmt.Errorf("failed to open preference store: %w", err),
			"run 'querylib doctor' to diagnose the store")
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close preference store", "error", err)
		}
	}
	return cli.NewContext(cfg, CLI.Config, cat, store), cleanup, nil
}
