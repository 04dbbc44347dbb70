// Package config loads service configuration from an optional YAML file,
// applying defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mcuadros/go-defaults"
)

// Config holds service configuration
type Config struct {
	Server    Server    `koanf:"server"`
	Discovery Discovery `koanf:"discovery"`
	Store     Store     `koanf:"store"`
	Slack     Slack     `koanf:"slack"`
}

// Server configures the HTTP listener
type Server struct {
	// Listen is the address the API server binds to
	Listen string `koanf:"listen" default:":8080"`
	// Debug enables debug-level logging
	Debug bool `koanf:"debug"`
	// Pretty enables human-readable console logging
	Pretty bool `koanf:"pretty"`
	// ReadTimeout bounds request reads
	ReadTimeout time.Duration `koanf:"read_timeout"`
	// WriteTimeout bounds response writes; discovery requests are slow, so
	// this must cover a full fallback chain
	WriteTimeout time.Duration `koanf:"write_timeout"`
	// ShutdownGracePeriod bounds graceful shutdown
	ShutdownGracePeriod time.Duration `koanf:"shutdown_grace_period"`
	// MaxBodySize caps request body bytes
	MaxBodySize int64 `koanf:"max_body_size" default:"102400"`
}

// Discovery configures the policy discovery chain
type Discovery struct {
	// StageTimeout bounds each discovery stage
	StageTimeout time.Duration `koanf:"stage_timeout"`
	// FetchTimeout bounds static page fetches
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
	// RenderTimeout bounds browser navigations
	RenderTimeout time.Duration `koanf:"render_timeout"`
	// BrowserSlots caps concurrent browser pages
	BrowserSlots int `koanf:"browser_slots" default:"4"`
	// ChromePath points at a specific Chrome binary; empty auto-detects
	ChromePath string `koanf:"chrome_path"`
	// UserAgent overrides the crawler user agent
	UserAgent string `koanf:"user_agent"`
	// SearchEngines lists enabled fallback engines (duckduckgo, bing)
	SearchEngines []string `koanf:"search_engines"`
	// DisableBrowser turns off the rendered and scroll stages entirely
	DisableBrowser bool `koanf:"disable_browser"`
}

// Store configures document persistence
type Store struct {
	// Path is the SQLite database file location
	Path string `koanf:"path" default:"data/poliscan.db"`
}

// Slack configures webhook notifications
type Slack struct {
	// WebhookURL enables notifications when set
	WebhookURL string `koanf:"webhook_url" sensitive:"true"`
	// RequestTimeout bounds webhook posts
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// Load reads configuration from the YAML file at path, when it exists, over
// the built-in defaults. A missing file is not an error; the defaults stand.
func Load(path *string) (*Config, error) {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	applyDurationDefaults(cfg)

	k := koanf.New(".")

	if path != nil && *path != "" {
		if _, err := os.Stat(*path); err == nil {
			if err := k.Load(file.Provider(*path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config file %s: %w", *path, err)
			}
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
	}

	if len(cfg.Discovery.SearchEngines) == 0 {
		cfg.Discovery.SearchEngines = []string{"duckduckgo", "bing"}
	}

	return cfg, nil
}

// applyDurationDefaults fills zero durations; duration literals aren't
// expressible as struct tag defaults.
func applyDurationDefaults(cfg *Config) {
	setDuration(&cfg.Server.ReadTimeout, 30*time.Second)
	setDuration(&cfg.Server.WriteTimeout, 180*time.Second)
	setDuration(&cfg.Server.ShutdownGracePeriod, 30*time.Second)
	setDuration(&cfg.Discovery.StageTimeout, 45*time.Second)
	setDuration(&cfg.Discovery.FetchTimeout, 15*time.Second)
	setDuration(&cfg.Discovery.RenderTimeout, 30*time.Second)
	setDuration(&cfg.Slack.RequestTimeout, 10*time.Second)
}

func setDuration(d *time.Duration, def time.Duration) {
	if *d == 0 {
		*d = def
	}
}
