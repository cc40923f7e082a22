package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitify/internal/api"
	"github.com/julianstephens/habitify/internal/logger"
	"github.com/julianstephens/habitify/internal/scheduler"
	"github.com/julianstephens/habitify/internal/supervisor"
)

// ServeCmd runs the HTTP API and, when enabled, the rollover scheduler
type ServeCmd struct {
	Addr       string `help:"Listen address, overrides server.addr."`
	NoRollover bool   `help:"Do not run the rollover scheduler in this process."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	addr := cfg.Server.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	handler := api.NewRouter(
		api.NewHandler(ctx.Store, ctx.Habits(), ctx.Catalog(), ctx.Engine()),
		api.Options{
			CORSOrigins:   cfg.Server.CORSOrigins,
			RateLimit:     cfg.Server.RateLimit,
			OperatorToken: cfg.Server.OperatorToken,
		},
	)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logger.Slog(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(supervisor.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	rolloverEnabled := cfg.Rollover.Enabled && !c.NoRollover
	if rolloverEnabled {
		loc, err := cfg.Location()
		if err != nil {
			return fmt.Errorf("invalid rollover timezone: %w", err)
		}
		sched, err := scheduler.New(ctx.Engine(), scheduler.Config{
			At:       cfg.Rollover.At,
			Location: loc,
			LockPath: ctx.LockPath(),
		})
		if err != nil {
			return err
		}
		tree.AddJobService(sched)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting habitify server", "addr", addr, "rollover", rolloverEnabled,
		"rollover_at", cfg.Rollover.At, "timezone", cfg.Rollover.Timezone)

	if err := tree.Serve(sigCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped: %w", err)
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logger.Warn("Services did not stop in time", "count", len(report))
	}
	logger.Info("Server stopped")
	return nil
}
