package cli

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/juju/errors"
	"github.com/rs/zerolog"

	"notifyd/internal/client"
	"notifyd/internal/config"
	"notifyd/internal/httpapi"
	"notifyd/internal/listener"
)

// newListener builds a Listener from the listener section of cfg. A
// registry client is attached only when a registry url is configured.
func newListener(cfg config.Config, log zerolog.Logger) (*listener.Listener, error) {
	lc := listener.Config{
		ID:           cfg.Listener.ID,
		WebhookPath:  cfg.Listener.WebhookPath,
		PublicURL:    cfg.Listener.PublicURL,
		Recent:       cfg.RecentDeliveries,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Logger:       &log,
	}
	if cfg.Listener.RegistryURL != "" {
		c, err := client.New(cfg.Listener.RegistryURL, nil)
		if err != nil {
			return nil, errors.Trace(err)
		}
		lc.Registry = c
	}
	return listener.New(lc), nil
}

// listen runs the webhook listener until ctx is cancelled. With a registry
// url it subscribes once serving and unsubscribes on the way out.
func listen(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	l, err := newListener(cfg, log)
	if err != nil {
		return err
	}
	defer l.Close()
	httpapi.SetLogger(log.With().Str("component", "http").Logger())

	ln, err := net.Listen("tcp", cfg.Listener.Addr)
	if err != nil {
		return errors.Annotatef(err, "listen on %s", cfg.Listener.Addr)
	}
	log.Info().
		Str("addr", ln.Addr().String()).
		Str("id", l.ID()).
		Str("webhook", l.WebhookPath()).
		Msg("notifyd listener running")

	subscribed := false
	if cfg.Listener.RegistryURL != "" {
		sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		_, err := l.Subscribe(sctx)
		cancel()
		if err != nil {
			// keep serving; POST /subscribe can retry later
			log.Error().Err(err).Str("registry", cfg.Listener.RegistryURL).Msg("failed to subscribe")
		} else {
			subscribed = true
		}
	}

	srv := &http.Server{Handler: l.Handler(), ReadHeaderTimeout: 10 * time.Second}
	return runServer(ctx, srv, ln, log, func(sctx context.Context) {
		if !subscribed {
			return
		}
		if _, err := l.Unsubscribe(sctx); err != nil {
			log.Warn().Err(err).Msg("failed to unsubscribe")
		}
	})
}
