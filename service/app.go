package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"newsboard/app/config"
	"newsboard/app/metrics"
	"newsboard/app/routes"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// runAppServer serves the site on ln until ctx is cancelled, then shuts
// down gracefully within cfg.ShutdownTimeout.
func (c *cli) runAppServer(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	zl, err := c.newLogger(cfg)
	if err != nil {
		return err
	}
	defer zl.Sync()

	store, err := c.openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	router, err := routes.SetupRoutes(routes.Options{
		Store:       store,
		Logger:      zl,
		Metrics:     metrics.New(),
		NewsPerPage: cfg.NewsPerPage,
		SessionTTL:  cfg.SessionTTL,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(zl),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("server started",
			zap.String("addr", ln.Addr().String()),
			zap.String("storage", cfg.Storage.Type),
			zap.String("version", Version),
		)
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		zl.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	zl.Info("server stopped")
	return nil
}
