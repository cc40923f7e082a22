// Package rollover closes out one calendar day and opens the next for every
// active daily habit.
package rollover

import (
	"context"
	"time"

	"github.com/julianstephens/habitify/internal/errors"
	"github.com/julianstephens/habitify/internal/logger"
	"github.com/julianstephens/habitify/internal/metrics"
	"github.com/julianstephens/habitify/internal/models"
	"github.com/julianstephens/habitify/internal/storage"
	"github.com/julianstephens/habitify/internal/utils"
)

// Trigger labels, used in logs and metrics
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// Engine runs the daily rollover
type Engine struct {
	store storage.Provider
	clock utils.Clock
}

// NewEngine builds an Engine. A nil clock reads the local wall clock.
func NewEngine(store storage.Provider, clock utils.Clock) *Engine {
	if clock == nil {
		clock = utils.ZoneClock{}
	}
	return &Engine{store: store, clock: clock}
}

// Today returns the engine's current date
func (e *Engine) Today() string {
	return utils.Today(e.clock)
}

// Rollover makes asOfDate the current day. In one transaction it fails the
// previous day's unfinished logs and resets those streaks, moves completed
// and failed habits back to todo, and opens a todo log for asOfDate.
// Running it again for the same date changes nothing.
func (e *Engine) Rollover(ctx context.Context, asOfDate string) (models.RolloverResult, error) {
	return e.run(ctx, asOfDate, TriggerScheduled)
}

// ManualReset runs the same rollover on operator request. An empty date means
// today. Dates before today are rejected: the days since then are already open.
func (e *Engine) ManualReset(ctx context.Context, date string) (models.RolloverResult, error) {
	today := e.Today()
	if date == "" {
		date = today
	}
	if _, err := utils.ParseDate(date); err != nil {
		return models.RolloverResult{}, errors.Validation("Invalid date format. Use YYYY-MM-DD")
	}
	if date < today {
		return models.RolloverResult{}, errors.Validation("Reset date cannot be before today (%s)", today)
	}
	return e.run(ctx, date, TriggerManual)
}

func (e *Engine) run(ctx context.Context, asOfDate, trigger string) (models.RolloverResult, error) {
	previous, err := utils.AddDays(asOfDate, -1)
	if err != nil {
		return models.RolloverResult{}, errors.Validation("Invalid date format. Use YYYY-MM-DD")
	}

	res := models.RolloverResult{PreviousDate: previous, ResetDate: asOfDate}
	now := e.clock.Now()
	start := time.Now()

	err = e.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		// Streaks first: the next statement clears the todo marker they key on
		if res.StreaksReset, err = tx.ResetStragglerStreaks(ctx, previous, asOfDate, now); err != nil {
			return err
		}
		if res.YesterdayFailed, err = tx.FailStragglerLogs(ctx, previous, now); err != nil {
			return err
		}
		if res.HabitsReopened, err = tx.ReopenHabits(ctx, asOfDate, now); err != nil {
			return err
		}
		res.NewTodosCreated, err = tx.OpenLogs(ctx, asOfDate, now)
		return err
	})

	metrics.RecordRollover(trigger, time.Since(start),
		res.YesterdayFailed, res.StreaksReset, res.HabitsReopened, res.NewTodosCreated, err)

	if err != nil {
		metrics.RecordTransactionError("rollover")
		logger.Error("Rollover failed", "trigger", trigger, "date", asOfDate, "error", err)
		return models.RolloverResult{}, errors.RolloverFailed(asOfDate, err)
	}

	logger.Info("Rollover completed",
		"trigger", trigger,
		"previous_date", res.PreviousDate,
		"reset_date", res.ResetDate,
		"yesterday_failed", res.YesterdayFailed,
		"streaks_reset", res.StreaksReset,
		"habits_reopened", res.HabitsReopened,
		"new_todos_created", res.NewTodosCreated,
	)
	return res, nil
}

// Pending reports how many active daily habits still lack a log for date,
// i.e. whether the rollover for date has not run yet.
func (e *Engine) Pending(ctx context.Context, date string) (int, error) {
	n, err := e.store.CountMissingLogs(ctx, date)
	if err != nil {
		return 0, errors.Transient("Database error", err)
	}
	return n, nil
}
