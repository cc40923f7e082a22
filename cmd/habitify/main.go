package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitify/internal/cli"
	"github.com/julianstephens/habitify/internal/cli/backups"
	"github.com/julianstephens/habitify/internal/cli/system"
	"github.com/julianstephens/habitify/internal/config"
	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/errors"
	"github.com/julianstephens/habitify/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"YAML config file. Settings can also come from HABITIFY_* environment variables." type:"path" env:"HABITIFY_CONFIG"`
	Debug   bool   `help:"Enable debug logging."`

	Serve    cli.ServeCmd      `cmd:"" help:"Run the HTTP API and the daily rollover scheduler." default:"1"`
	Init     system.InitCmd    `cmd:"" help:"Initialize habitify storage."`
	Migrate  system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Rollover cli.RolloverCmd   `cmd:"" help:"Run the daily rollover once."`
	Status   cli.StatusCmd     `cmd:"" help:"Mark a habit completed or failed."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage SQLite database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the database connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report keyring availability." default:"1"`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

// commands that need a loaded store before Run
var loadsStore = map[string]bool{
	"serve":    true,
	"rollover": true,
	"status":   true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracking API with daily streak rollover"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Log.Debug = true
	}

	command := strings.Fields(ctx.Command())[0]
	if err := logger.Init(logger.Config{
		Debug:  cfg.Log.Debug,
		Dir:    cfg.Log.Dir,
		Stderr: command == "serve",
	}); err != nil {
		errors.Fatal(fmt.Errorf("failed to initialize logger: %w", err))
	}

	// Keyring commands must work before any database is reachable
	if command == "keyring" {
		if err := ctx.Run(&cli.Context{Config: cfg}); err != nil {
			errors.Fatal(err)
		}
		return
	}

	appCtx, err := cli.NewContext(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	defer appCtx.Store.Close()

	if loadsStore[command] {
		if err := appCtx.Store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		appCtx.Store.Close()
		errors.Fatal(err)
	}
}
