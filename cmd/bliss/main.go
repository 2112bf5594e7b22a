package main

import (
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/bliss/internal/cli"
	"github.com/julianstephens/bliss/internal/config"
	"github.com/julianstephens/bliss/internal/constants"
	apperrors "github.com/julianstephens/bliss/internal/errors"
	"github.com/julianstephens/bliss/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." default:"${config_path}"`
	Debug   bool   `help:"Enable debug logging."`

	Init    cli.InitCmd    `cmd:"" help:"Create a config file."`
	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Home    cli.HomeCmd    `cmd:"" help:"Show your latest routine."`
	Routine cli.RoutineCmd `cmd:"" help:"Build and manage routines."`
	Tracker cli.TrackerCmd `cmd:"" help:"Track skin progress."`
	Weather cli.WeatherCmd `cmd:"" help:"Show current weather."`
	TryOn   cli.TryOnCmd   `cmd:"" name:"tryon" help:"Send a photo for virtual try-on."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run health checks."`
	Serve   cli.ServeCmd   `cmd:"" help:"Run the stand-in backend."`
	Backup  cli.BackupCmd  `cmd:"" help:"Snapshot and restore the stand-in database."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Beauty routine builder and skin progress tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	path, err := config.ExpandPath(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}

	// init writes the file, so it starts from defaults
	cfg := config.Default()
	if ctx.Command() != "init" {
		if cfg, err = config.Load(path); err != nil {
			apperrors.Fatal(err)
		}
	}

	serving := ctx.Command() == "serve"
	if err := logger.Init(logger.Config{
		Debug:   cfg.Debug || CLI.Debug,
		Dir:     filepath.Dir(path),
		Console: serving,
	}); err != nil {
		apperrors.Fatal(err)
	}

	appCtx := cli.NewContext(CLI.Config, cfg)
	apperrors.Fatal(ctx.Run(appCtx))
}
