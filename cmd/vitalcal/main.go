package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/vitalcal/internal/cli"
	"github.com/julianstephens/vitalcal/internal/cli/entries"
	"github.com/julianstephens/vitalcal/internal/cli/system"
	"github.com/julianstephens/vitalcal/internal/cli/views"
	"github.com/julianstephens/vitalcal/internal/config"
	"github.com/julianstephens/vitalcal/internal/constants"
	apperrors "github.com/julianstephens/vitalcal/internal/errors"
	"github.com/julianstephens/vitalcal/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"${config_path}"`
	Server  string `help:"Journal server base URL. Overrides the config file."`
	Locale  string `help:"Locale for month names, e.g. de_DE. Overrides the config file."`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Tui    system.TuiCmd    `cmd:"" help:"Launch the interactive calendar." default:"1"`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Month  views.MonthCmd   `cmd:"" help:"Print a month calendar."`
	Entry  struct {
		Get  entries.EntryGetCmd  `cmd:"" help:"Show the readings for a day."`
		Save entries.EntrySaveCmd `cmd:"" help:"Save the readings for a day."`
	} `cmd:"" help:"Read and write daily entries."`
	Token struct {
		Set    system.TokenSetCmd    `cmd:"" help:"Store the anti-forgery token in the OS keyring."`
		Get    system.TokenGetCmd    `cmd:"" help:"Show the stored token."`
		Delete system.TokenDeleteCmd `cmd:"" help:"Remove the token from the OS keyring."`
		Status system.TokenStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
	} `cmd:"" help:"Manage the anti-forgery token."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily blood pressure and glucose journal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatalf("loading config %s: %v", CLI.Config, err)
	}

	// flags win over every other source
	if CLI.Server != "" {
		cfg.Server.URL = CLI.Server
	}
	if CLI.Locale != "" {
		cfg.Display.Locale = CLI.Locale
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		apperrors.Fatalf("invalid configuration: %v", err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.Dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	client, err := cli.NewClient(cfg)
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := &cli.Context{
		Config: cfg,
		Client: client,
	}

	if err := ctx.Run(appCtx); err != nil {
		apperrors.Fatal(err)
	}
}
