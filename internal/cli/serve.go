package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	jujuerrors "github.com/juju/errors"
	"github.com/rs/zerolog"

	"notifyd/internal/config"
	"notifyd/internal/httpapi"
	"notifyd/internal/notifier"
	"notifyd/internal/registry"
)

const shutdownTimeout = 5 * time.Second

// registryApp is a registry wired to a notifier and its HTTP handler.
type registryApp struct {
	reg      *registry.Registry
	notifier *notifier.Notifier
	handler  http.Handler
}

// newRegistryApp wires the registry side from cfg. cfg must already have
// defaults applied.
func newRegistryApp(cfg config.Config, log zerolog.Logger) (*registryApp, error) {
	nlog := log.With().Str("component", "notifier").Logger()
	n := notifier.New(notifier.Config{
		Timeout:        cfg.DeliveryTimeout(),
		MaxConcurrency: cfg.MaxConcurrency,
		Recent:         cfg.RecentDeliveries,
		Logger:         &nlog,
	})
	rlog := log.With().Str("component", "registry").Logger()
	reg := registry.New(registry.Config{Publisher: n, Logger: &rlog})

	if cfg.SeedFile != "" {
		reqs, err := registry.LoadSeed(cfg.SeedFile)
		if err != nil {
			return nil, jujuerrors.Annotatef(err, "seed file %s", cfg.SeedFile)
		}
		added, err := reg.Seed(reqs)
		if err != nil {
			return nil, jujuerrors.Trace(err)
		}
		log.Info().Int("records", added).Str("file", cfg.SeedFile).Msg("seeded registry")
	}

	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)

	return &registryApp{reg: reg, notifier: n, handler: httpapi.NewMux(reg, n)}, nil
}

// serve runs the registry server until ctx is cancelled.
func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	app, err := newRegistryApp(cfg, log)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return jujuerrors.Annotatef(err, "listen on %s", cfg.Addr)
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("notifyd registry listening")
	srv := &http.Server{Handler: app.handler, ReadHeaderTimeout: 10 * time.Second}
	return runServer(ctx, srv, ln, log, func(sctx context.Context) {
		if err := app.notifier.Close(sctx); err != nil {
			log.Warn().Err(err).Msg("pending deliveries abandoned")
		}
	})
}

// runServer serves on ln until ctx is done, then shuts down gracefully and
// runs cleanup with the remaining shutdown budget.
func runServer(ctx context.Context, srv *http.Server, ln net.Listener, log zerolog.Logger, cleanup func(context.Context)) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return jujuerrors.Annotate(err, "server error")
		}
		return nil
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	if cleanup != nil {
		cleanup(sctx)
	}
	log.Info().Msg("stopped")
	return nil
}
