// Package scheduler runs the daily rollover at a fixed local time as a
// supervised service.
package scheduler

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/logger"
	"github.com/julianstephens/habitify/internal/models"
	"github.com/julianstephens/habitify/internal/runlock"
	"github.com/julianstephens/habitify/internal/utils"
)

// Roller is the part of the rollover engine the scheduler drives.
// Satisfied by *rollover.Engine.
type Roller interface {
	Rollover(ctx context.Context, asOfDate string) (models.RolloverResult, error)
}

// Config controls when the rollover runs
type Config struct {
	// At is the local time of day (HH:MM) the new day starts
	At string
	// Location is the timezone At is read in
	Location *time.Location
	// LockPath is the cross-process run lock; empty uses runlock.DefaultPath
	LockPath string
}

// RolloverService runs a catch-up rollover when it starts, then one at every
// boundary. A failed run returns an error so the supervisor restarts the
// service, which retries through the catch-up.
type RolloverService struct {
	roller Roller
	cfg    Config
	now    func() time.Time
	after  func(time.Duration) <-chan time.Time
	name   string
}

func New(roller Roller, cfg Config) (*RolloverService, error) {
	if cfg.At == "" {
		cfg.At = constants.DefaultRolloverAt
	}
	if !utils.ValidateTimeFormat(cfg.At) {
		return nil, fmt.Errorf("invalid rollover time %q: expected HH:MM", cfg.At)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.LockPath == "" {
		cfg.LockPath = runlock.DefaultPath()
	}
	return &RolloverService{
		roller: roller,
		cfg:    cfg,
		now:    time.Now,
		after:  time.After,
		name:   "rollover-scheduler",
	}, nil
}

// Serve implements suture.Service
func (s *RolloverService) Serve(ctx context.Context) error {
	if err := s.runOnce(ctx, s.now().In(s.cfg.Location)); err != nil {
		return err
	}

	for {
		next, err := utils.NextBoundary(s.now(), s.cfg.At, s.cfg.Location)
		if err != nil {
			return err
		}
		wait := next.Sub(s.now())
		logger.Debug("Next rollover scheduled", "at", next.Format(time.RFC3339), "in", wait.Round(time.Second))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.after(wait):
		}

		if err := s.runOnce(ctx, next); err != nil {
			return err
		}
	}
}

// runOnce rolls over to the date of day, holding the run lock
func (s *RolloverService) runOnce(ctx context.Context, day time.Time) error {
	date := day.In(s.cfg.Location).Format(constants.DateFormat)

	lock, err := runlock.Acquire(s.cfg.LockPath)
	if err != nil {
		if stderrors.Is(err, runlock.ErrLocked) {
			// Another process is doing the same work
			logger.Warn("Skipping rollover, lock held elsewhere", "date", date, "error", err)
			return nil
		}
		return fmt.Errorf("rollover lock: %w", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release run lock", "path", lock.Path(), "error", err)
		}
	}()

	if _, err := s.roller.Rollover(ctx, date); err != nil {
		return fmt.Errorf("scheduled rollover for %s: %w", date, err)
	}
	return nil
}

// String implements fmt.Stringer for logging.
func (s *RolloverService) String() string {
	return s.name
}
