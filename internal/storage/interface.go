package storage

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/habitify/internal/models"
)

// ErrNotFound is returned when a row does not exist or is not visible to the caller
var ErrNotFound = errors.New("not found")

// HabitStore covers habit identity, configuration and state
type HabitStore interface {
	// LockHabit loads a habit owned by userID and holds it for the rest of the transaction.
	// It returns ErrNotFound for a missing or foreign habit.
	LockHabit(ctx context.Context, userID int64, habitID string) (models.Habit, error)
	InsertHabit(ctx context.Context, h models.Habit) error
	// SaveHabit writes every mutable column of h
	SaveHabit(ctx context.Context, h models.Habit) error
	// DeleteHabit removes the habit and its logs. It returns ErrNotFound when nothing matched.
	DeleteHabit(ctx context.Context, userID int64, habitID string) error
}

// DailyLogStore covers the per-day audit trail
type DailyLogStore interface {
	GetLog(ctx context.Context, habitID, date string) (models.DailyLog, error)
	// UpsertLog inserts or overwrites the log for (HabitID, LogDate)
	UpsertLog(ctx context.Context, l models.DailyLog) (models.DailyLog, error)
	// EnsureTodoLog inserts a todo log unless one exists and reports whether it inserted
	EnsureTodoLog(ctx context.Context, habitID string, userID int64, date string, now time.Time) (bool, error)
}

// RolloverStore holds the set-based statements of the daily rollover.
// Every statement only touches non-archived daily habits.
type RolloverStore interface {
	// ResetStragglerStreaks zeroes the streak of habits whose log on date is
	// still todo, skipping habits already settled on or after asOfDate
	ResetStragglerStreaks(ctx context.Context, date, asOfDate string, now time.Time) (int64, error)
	// FailStragglerLogs marks todo logs on date as failed
	FailStragglerLogs(ctx context.Context, date string, now time.Time) (int64, error)
	// ReopenHabits moves completed and failed habits back to todo unless they
	// already have a non-todo log on or after date
	ReopenHabits(ctx context.Context, date string, now time.Time) (int64, error)
	// OpenLogs inserts a todo log on date for every habit that has none
	OpenLogs(ctx context.Context, date string, now time.Time) (int64, error)
}

// Tx is the set of stores usable inside one transaction
type Tx interface {
	HabitStore
	DailyLogStore
	RolloverStore
}

// TemplateStore resolves and saves catalog templates
type TemplateStore interface {
	GetPredefinedTemplate(ctx context.Context, id int64) (models.Template, error)
	GetCustomTemplate(ctx context.Context, userID, id int64) (models.Template, error)
	SaveCustomTemplate(ctx context.Context, t models.Template) (int64, error)
}

// Provider is a database backend
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	Ping(ctx context.Context) error

	// WithTx runs fn in a transaction bounded by the store's timeout.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// Reads
	GetHabit(ctx context.Context, userID int64, habitID string) (models.Habit, error)
	ListHabits(ctx context.Context, userID int64) ([]models.Habit, error)
	ListLogs(ctx context.Context, userID int64, from, to string) ([]models.DailyLog, error)
	// CountMissingLogs returns how many active daily habits have no log on date
	CountMissingLogs(ctx context.Context, date string) (int, error)

	TemplateStore

	// Utils
	// Migrate applies pending schema migrations and returns how many ran
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current int, latest int, err error)
	GetConfigPath() string
}
