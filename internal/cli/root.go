// Package cli implements the notifyd command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"notifyd/internal/config"
	"notifyd/internal/httpapi"
)

// Version is stamped at build time with -ldflags "-X notifyd/internal/cli.Version=...".
var Version = "dev"

// state is shared by every command in one invocation.
type state struct {
	configPath string
	logLevel   string
	logFormat  string
	httpLog    string
	registry   string

	// populated by the root pre-run
	cfg config.Config
	log zerolog.Logger
}

// buildRootCmd constructs the command tree. Output goes to out.
func buildRootCmd(out io.Writer) *cobra.Command {
	st := &state{}
	root := &cobra.Command{
		Use:           "notifyd",
		Short:         "Record registry with webhook fan-out to observers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&st.configPath, "config", envStr("NOTIFYD_CONFIG", ""), "Config file (.yaml|.yml|.json|.toml); defaults NOTIFYD_CONFIG or a discovered notifyd.*")
	pf.StringVar(&st.logLevel, "log-level", envStr("NOTIFYD_LOG_LEVEL", ""), "Log level: trace|debug|info|warn|error")
	pf.StringVar(&st.logFormat, "log-format", "", "Log format: console|json")
	pf.StringVar(&st.httpLog, "http-log-level", envStr("NOTIFYD_HTTP_LOG_LEVEL", "error"), "Per-request log level: off|error|info|debug")
	pf.StringVar(&st.registry, "registry", envStr("NOTIFYD_REGISTRY_URL", "http://localhost:3000"), "Registry base URL for client commands")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(st.configPath)
		if err != nil {
			return err
		}
		if st.logLevel != "" {
			cfg.LogLevel = st.logLevel
		}
		if st.logFormat != "" {
			cfg.LogFormat = st.logFormat
		}
		d := cfg.WithDefaults()
		log, err := newLogger(d.LogLevel, d.LogFormat, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		httpapi.SetDefaultLogLevel(st.httpLog)
		st.cfg, st.log = cfg, log
		return nil
	}

	root.AddCommand(
		serveCmd(st),
		listenCmd(st),
		subscribeCmd(st),
		unsubscribeCmd(st),
		observersCmd(st),
		dataCmd(st),
		statusCmd(st),
		deliveriesCmd(st),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "notifyd %s\n", Version)
				return err
			},
		},
	)
	return root
}

// loadConfig reads path, or the first discovered config file when path is
// empty. No file at all yields the zero Config.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		path = config.Discover()
	}
	var cfg config.Config
	if path != "" {
		c, err := config.Load(path)
		if err != nil {
			return cfg, errors.Annotatef(err, "load config %s", path)
		}
		cfg = c
	}
	if cfg.Addr == "" {
		cfg.Addr = os.Getenv("NOTIFYD_ADDR")
	}
	return cfg, nil
}

func serveCmd(st *state) *cobra.Command {
	var (
		addr, seed, corsOrigins string
		timeoutMS, maxConc      int
		maxBody                 int64
	)
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the registry server",
		Example: "  notifyd serve --addr :3000 --seed seed.yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := st.cfg
			f := cmd.Flags()
			if f.Changed("addr") {
				cfg.Addr = addr
			}
			if f.Changed("seed") {
				cfg.SeedFile = seed
			}
			if f.Changed("delivery-timeout-ms") {
				cfg.DeliveryTimeoutMS = timeoutMS
			}
			if f.Changed("max-concurrency") {
				cfg.MaxConcurrency = maxConc
			}
			if f.Changed("max-body-bytes") {
				cfg.MaxBodyBytes = maxBody
			}
			if f.Changed("cors-origins") {
				cfg.CORSOrigins = splitCSV(corsOrigins)
				cfg.CORSEnabled = len(cfg.CORSOrigins) > 0
			}
			return fnServe(cmd.Context(), cfg.WithDefaults(), st.log)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", config.DefaultAddr, "HTTP listen address (defaults NOTIFYD_ADDR or :3000)")
	f.StringVar(&seed, "seed", "", "Seed file with initial records (.yaml|.yml|.json)")
	f.IntVar(&timeoutMS, "delivery-timeout-ms", config.DefaultDeliveryTimeoutMS, "Per-webhook delivery timeout in milliseconds")
	f.IntVar(&maxConc, "max-concurrency", 0, "Max concurrent deliveries per event (0=unbounded)")
	f.Int64Var(&maxBody, "max-body-bytes", config.DefaultMaxBodyBytes, "Max JSON request body size")
	f.StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins; enables CORS when set")
	return cmd
}

func listenCmd(st *state) *cobra.Command {
	var addr, id, path, publicURL, registryURL string
	cmd := &cobra.Command{
		Use:     "listen",
		Short:   "Run a webhook listener, optionally subscribing it to a registry",
		Example: "  notifyd listen --addr :3001 --id caller-app-1 --registry-url http://localhost:3000",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := st.cfg
			f := cmd.Flags()
			if f.Changed("addr") {
				cfg.Listener.Addr = addr
			}
			if f.Changed("id") {
				cfg.Listener.ID = id
			}
			if f.Changed("webhook-path") {
				cfg.Listener.WebhookPath = path
			}
			if f.Changed("public-url") {
				cfg.Listener.PublicURL = publicURL
			}
			if f.Changed("registry-url") {
				cfg.Listener.RegistryURL = registryURL
			}
			return fnListen(cmd.Context(), cfg.WithDefaults(), st.log)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", config.DefaultListenerAddr, "Listener HTTP address")
	f.StringVar(&id, "id", "", "Observer id registered with the registry (random when empty)")
	f.StringVar(&path, "webhook-path", config.DefaultWebhookPath, "Path that accepts webhook POSTs")
	f.StringVar(&publicURL, "public-url", "", "Callback URL advertised to the registry (derived from --addr when empty)")
	f.StringVar(&registryURL, "registry-url", "", "Registry to subscribe to on start")
	return cmd
}

// Main runs the CLI with os.Args and returns an exit code for cmd/notifyd.
func Main() int { return MainWithArgs(os.Args[1:]) }

// MainWithArgs is a testable variant of Main that accepts args explicitly.
// It returns an exit code (0 for success, 2 for usage, 1 on error).
func MainWithArgs(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	root := buildRootCmd(os.Stdout)
	if len(args) == 0 {
		_ = root.Help()
		return 2
	}
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
