package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitify/internal/backup"
	"github.com/julianstephens/habitify/internal/cli"
	"github.com/julianstephens/habitify/internal/runlock"
)

type DoctorCmd struct{}

// checkResult is the outcome of one diagnostic. A warning is reported but
// does not fail the run.
type checkResult struct {
	warning string
	err     error
}

func ok() checkResult { return checkResult{} }

func warn(format string, args ...interface{}) checkResult {
	return checkResult{warning: fmt.Sprintf(format, args...)}
}

func fail(err error) checkResult { return checkResult{err: err} }

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println(cli.Heading("Running diagnostics..."))

	hasError := false
	report := func(name string, res checkResult) {
		switch {
		case res.err != nil:
			fmt.Println(cli.Fail("%s: FAIL", name))
			fmt.Println(cli.Detail("Error: %v", res.err))
			hasError = true
		case res.warning != "":
			fmt.Println(cli.Warn("%s: WARNING", name))
			fmt.Println(cli.Detail("%s", res.warning))
		default:
			fmt.Println(cli.OK("%s: OK", name))
		}
	}

	reachable := checkDBReachable(ctx)
	report("Database reachable", reachable)

	dbChecks := []struct {
		name  string
		check func(*cli.Context) checkResult
	}{
		{"Schema version", checkSchemaVersion},
		{"Today's rollover", checkTodayRolledOver},
		{"Backups present", checkBackupsPresent},
	}
	for _, c := range dbChecks {
		if reachable.err != nil {
			fmt.Println(cli.Skip("%s: SKIPPED (database not reachable)", c.name))
			continue
		}
		report(c.name, c.check(ctx))
	}

	report("Rollover lock", checkRunLock(ctx))
	report("Clock/timezone", checkClockTimezone(ctx))

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) checkResult {
	if err := ctx.Store.Load(); err != nil {
		return fail(fmt.Errorf("failed to load database: %w", err))
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ctx.Store.Ping(pingCtx); err != nil {
		return fail(fmt.Errorf("failed to query database: %w", err))
	}
	return ok()
}

func checkSchemaVersion(ctx *cli.Context) checkResult {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fail(fmt.Errorf("failed to get schema version: %w", err))
	}
	if current > latest {
		return fail(fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest))
	}
	if current < latest {
		return fail(fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitify migrate')", current, latest))
	}
	return ok()
}

func checkTodayRolledOver(ctx *cli.Context) checkResult {
	today := ctx.Today()
	missing, err := ctx.Engine().Pending(context.Background(), today)
	if err != nil {
		return fail(fmt.Errorf("failed to count missing logs: %w", err))
	}
	if missing > 0 {
		return warn("%d active daily habit(s) have no log for %s; run 'habitify rollover' or start the server", missing, today)
	}
	return ok()
}

func checkBackupsPresent(ctx *cli.Context) checkResult {
	if !ctx.IsSQLite() {
		return ok()
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fail(fmt.Errorf("failed to list backups: %w", err))
	}
	if len(backups) == 0 {
		return warn("no backups found, consider creating one with 'habitify backup create'")
	}
	return ok()
}

func checkRunLock(ctx *cli.Context) checkResult {
	path := ctx.LockPath()
	state, err := runlock.Inspect(path)
	if err != nil {
		return fail(fmt.Errorf("failed to read lock file %s: %w", path, err))
	}
	switch {
	case !state.Exists:
		return ok()
	case state.Alive:
		return warn("rollover in progress (pid %d since %s)", state.Owner.PID, state.Owner.Since.Format(time.RFC3339))
	default:
		return warn("stale lock file at %s; it will be reclaimed by the next rollover", path)
	}
}

func checkClockTimezone(ctx *cli.Context) checkResult {
	if ctx.Config != nil {
		if _, err := ctx.Config.Location(); err != nil {
			return fail(fmt.Errorf("invalid rollover timezone %q: %w", ctx.Config.Rollover.Timezone, err))
		}
	}

	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fail(fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339)))
	}
	return ok()
}
