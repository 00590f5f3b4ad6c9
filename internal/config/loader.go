package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"notifyd/internal/common/fsutil"
)

// Defaults applied by WithDefaults when the corresponding field is unset.
const (
	DefaultAddr              = ":3000"
	DefaultListenerAddr      = ":3001"
	DefaultWebhookPath       = "/webhook"
	DefaultDeliveryTimeoutMS = 5000
	DefaultRecentDeliveries  = 100
	DefaultMaxBodyBytes      = 1 << 20
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
)

// SearchPaths are tried in order when no config path is given.
var SearchPaths = []string{"notifyd.yaml", "notifyd.toml", "notifyd.json", "~/.config/notifyd/notifyd.yaml"}

// Config holds runtime parameters for the registry server and the listener.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr              string   `json:"addr" yaml:"addr" toml:"addr"`
	SeedFile          string   `json:"seed_file" yaml:"seed_file" toml:"seed_file"`
	DeliveryTimeoutMS int      `json:"delivery_timeout_ms" yaml:"delivery_timeout_ms" toml:"delivery_timeout_ms"`
	MaxConcurrency    int      `json:"max_concurrency" yaml:"max_concurrency" toml:"max_concurrency"`
	RecentDeliveries  int      `json:"recent_deliveries" yaml:"recent_deliveries" toml:"recent_deliveries"`
	MaxBodyBytes      int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CORSEnabled       bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins       []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	LogLevel          string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat         string   `json:"log_format" yaml:"log_format" toml:"log_format"`

	Listener Listener `json:"listener" yaml:"listener" toml:"listener"`
}

// Listener configures `notifyd listen`.
type Listener struct {
	Addr        string `json:"addr" yaml:"addr" toml:"addr"`
	ID          string `json:"id" yaml:"id" toml:"id"`
	WebhookPath string `json:"webhook_path" yaml:"webhook_path" toml:"webhook_path"`
	// PublicURL is the callback address registered with the registry.
	// Derived from Addr and WebhookPath when empty.
	PublicURL   string `json:"public_url" yaml:"public_url" toml:"public_url"`
	RegistryURL string `json:"registry_url" yaml:"registry_url" toml:"registry_url"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Discover returns the first existing file among SearchPaths, or "".
func Discover() string { return fsutil.FirstExisting(SearchPaths...) }

// WithDefaults returns a copy of c with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.DeliveryTimeoutMS <= 0 {
		c.DeliveryTimeoutMS = DefaultDeliveryTimeoutMS
	}
	if c.MaxConcurrency < 0 {
		c.MaxConcurrency = 0
	}
	if c.RecentDeliveries <= 0 {
		c.RecentDeliveries = DefaultRecentDeliveries
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.Listener.Addr == "" {
		c.Listener.Addr = DefaultListenerAddr
	}
	if c.Listener.WebhookPath == "" {
		c.Listener.WebhookPath = DefaultWebhookPath
	}
	if !strings.HasPrefix(c.Listener.WebhookPath, "/") {
		c.Listener.WebhookPath = "/" + c.Listener.WebhookPath
	}
	if c.Listener.PublicURL == "" {
		c.Listener.PublicURL = publicURL(c.Listener.Addr, c.Listener.WebhookPath)
	}
	return c
}

// DeliveryTimeout is DeliveryTimeoutMS as a duration.
func (c Config) DeliveryTimeout() time.Duration {
	return time.Duration(c.DeliveryTimeoutMS) * time.Millisecond
}

// publicURL derives a callback URL from a listen address like ":3001".
func publicURL(addr, path string) string {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	return "http://" + host + path
}
