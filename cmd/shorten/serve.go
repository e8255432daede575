package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/relistan/shorten/bloom"
	shortenhttp "github.com/relistan/shorten/http"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the process is
// interrupted or deps.Ctx is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := c.Server(deps)
	maintainer := bloom.NewMaintainer(deps.Filter, deps.Filter.Config().ResizeInterval, deps.Logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return maintainer.Run(gctx)
	})
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shortenhttp.DefaultShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	deps.Logger.Info("shutdown complete")
	return nil
}

// Server builds the HTTP server for the command's flags. The admin routes
// can grow the filter without bound, so they are only mounted when Admin
// is set.
func (c *ServeCmd) Server(deps *Dependencies) *shortenhttp.Server {
	opts := []shortenhttp.Option{
		shortenhttp.WithAddr(c.Addr),
		shortenhttp.WithLogger(deps.Logger),
		shortenhttp.WithRateLimit(c.RateLimit, c.Burst),
	}
	if c.Admin {
		opts = append(opts, shortenhttp.WithFilter(deps.Filter))
	}
	return shortenhttp.NewServer(deps.Shortener, opts...)
}
