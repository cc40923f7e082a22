package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitify/internal/backup"
	"github.com/julianstephens/habitify/internal/runlock"
)

// RolloverCmd runs the daily rollover once, e.g. from cron when the server's
// scheduler is disabled
type RolloverCmd struct {
	Date   string `help:"Day to roll over to (YYYY-MM-DD), today or later. Defaults to today in rollover.timezone."`
	Backup bool   `help:"Snapshot the SQLite database before rolling over."`
}

func (c *RolloverCmd) Run(ctx *Context) error {
	lock, err := runlock.Acquire(ctx.LockPath())
	if err != nil {
		if errors.Is(err, runlock.ErrLocked) {
			state, _ := runlock.Inspect(ctx.LockPath())
			return fmt.Errorf("another rollover is running (pid %d since %s)",
				state.Owner.PID, state.Owner.Since.Format(time.RFC3339))
		}
		return err
	}
	defer lock.Release()

	if c.Backup {
		if ctx.IsSQLite() {
			path, err := backup.NewManager(ctx.Store.GetConfigPath()).Create(context.Background())
			if err != nil {
				return fmt.Errorf("backup failed, rollover not run: %w", err)
			}
			fmt.Println(OK("Backup created: %s", path))
		} else {
			fmt.Println(Warn("--backup only applies to SQLite databases, skipping"))
		}
	}

	start := time.Now()
	res, err := ctx.Engine().ManualReset(context.Background(), c.Date)
	if err != nil {
		return err
	}

	fmt.Println(Heading("Rollover " + res.ResetDate))
	fmt.Println(KeyValue("Previous date", res.PreviousDate))
	fmt.Println(KeyValue("Failed yesterday", res.YesterdayFailed))
	fmt.Println(KeyValue("Streaks reset", res.StreaksReset))
	fmt.Println(KeyValue("Habits reopened", res.HabitsReopened))
	fmt.Println(KeyValue("New todos", res.NewTodosCreated))
	fmt.Println(KeyValue("Took", FormatDuration(time.Since(start))))
	if !res.Changed() {
		fmt.Println()
		fmt.Println(Detail("Nothing to do, %s was already rolled over.", res.ResetDate))
	}
	return nil
}
