// Package cli holds the command implementations behind cmd/habitify and the
// context they share.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitify/internal/backup"
	"github.com/julianstephens/habitify/internal/catalog"
	"github.com/julianstephens/habitify/internal/config"
	"github.com/julianstephens/habitify/internal/habits"
	"github.com/julianstephens/habitify/internal/keyring"
	"github.com/julianstephens/habitify/internal/logger"
	"github.com/julianstephens/habitify/internal/rollover"
	"github.com/julianstephens/habitify/internal/runlock"
	"github.com/julianstephens/habitify/internal/storage"
	"github.com/julianstephens/habitify/internal/storage/postgres"
	"github.com/julianstephens/habitify/internal/storage/sqlite"
	"github.com/julianstephens/habitify/internal/utils"
)

// Context is passed to every command's Run method
type Context struct {
	Config *config.Config
	Store  storage.Provider
	Clock  utils.Clock
}

// NewContext opens (but does not load) the configured store and builds a
// clock in the rollover timezone
func NewContext(cfg *config.Config) (*Context, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid rollover timezone: %w", err)
	}
	store, err := OpenStore(cfg.Database)
	if err != nil {
		return nil, err
	}
	return &Context{
		Config: cfg,
		Store:  store,
		Clock:  utils.ZoneClock{Location: loc},
	}, nil
}

// OpenStore picks the backend from the DSN. PostgreSQL connection strings
// must not embed a password unless they were read from the OS keyring.
func OpenStore(db config.DatabaseConfig) (storage.Provider, error) {
	dsn, fromKeyring, err := keyring.ResolveDSN(db.DSN)
	if err != nil {
		return nil, err
	}

	if !config.IsPostgres(dsn) {
		if fromKeyring {
			dsn = config.ExpandHome(dsn)
		}
		return sqlite.NewStore(dsn, db.TxTimeout), nil
	}

	if !fromKeyring {
		if valid, err := postgres.ValidateConnString(dsn); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded passwords are not allowed in config or environment; " +
					"store it with 'habitify keyring set' and set database.dsn to \"keyring\", or use .pgpass")
			}
			return nil, err
		}
	}
	return postgres.New(dsn, postgres.Options{MaxOpenConns: db.MaxOpenConns, TxTimeout: db.TxTimeout}), nil
}

func (c *Context) Catalog() *catalog.Service {
	return catalog.NewService(c.Store)
}

func (c *Context) Habits() *habits.Service {
	return habits.NewService(c.Store, c.Catalog(), c.Clock)
}

func (c *Context) Engine() *rollover.Engine {
	return rollover.NewEngine(c.Store, c.Clock)
}

// Today is the current date in the rollover timezone
func (c *Context) Today() string {
	return utils.Today(c.Clock)
}

// IsSQLite reports whether the store is a local database file
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// LockPath is the configured run lock, or the default one
func (c *Context) LockPath() string {
	if c.Config != nil && c.Config.Rollover.LockFile != "" {
		return c.Config.Rollover.LockFile
	}
	return runlock.DefaultPath()
}

// PerformAutomaticBackup snapshots a SQLite database. Failures are logged
// and do not interrupt the caller.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		logger.Debug("Skipping automatic backup for non-SQLite store")
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(context.Background()); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FormatDuration renders d rounded to milliseconds
func FormatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
