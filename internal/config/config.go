package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paularlott/cli"
)

const (
	SourceREST   = "rest"
	SourceStore  = "store"
	SourceSample = "sample"

	FallbackSample = "sample"
	FallbackEmpty  = "empty"
)

var (
	ErrManagerURLRequired = errors.New("manager URL is required for the rest source")
	ErrInvalidSource      = errors.New("invalid asset source")
	ErrInvalidFallback    = errors.New("invalid fallback mode")
	ErrInvalidTimeout     = errors.New("fetch timeout must not be negative")
)

// Config holds the server configuration
type Config struct {
	DataDir    string
	ListenAddr string

	APIAuthToken string
	MCPAuthToken string

	Source       string // "rest", "store" or "sample"
	ManagerURL   string
	Realm        string
	ClientID     string
	ClientSecret string
	FetchTimeout time.Duration
	Fallback     string // "sample" or "empty"

	RefreshSchedule string // cron spec, empty disables periodic refresh
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		DataDir:         "./data",
		ListenAddr:      ":8080",
		Source:          SourceStore,
		Realm:           "master",
		FetchTimeout:    10 * time.Second,
		Fallback:        FallbackSample,
		RefreshSchedule: "@every 5m",
	}
}

// GetFlags returns the server flags. Each flag can also be set through its
// ASSETBOARD_ environment variable, which includes values loaded from .env.
func GetFlags() []cli.Flag {
	d := Default()
	return []cli.Flag{
		&cli.StringFlag{
			Name:         "data-dir",
			Usage:        "Data directory path",
			DefaultValue: d.DataDir,
			EnvVars:      []string{"ASSETBOARD_DATA_DIR"},
		},
		&cli.StringFlag{
			Name:         "addr",
			Usage:        "Server listen address",
			DefaultValue: d.ListenAddr,
			EnvVars:      []string{"ASSETBOARD_LISTEN_ADDR"},
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "API bearer token for authentication",
			EnvVars: []string{"ASSETBOARD_API_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "mcp-token",
			Usage:   "MCP bearer token for authentication",
			EnvVars: []string{"ASSETBOARD_MCP_TOKEN"},
		},
		&cli.StringFlag{
			Name:         "source",
			Usage:        "Asset source (rest, store, sample)",
			DefaultValue: d.Source,
			EnvVars:      []string{"ASSETBOARD_SOURCE"},
		},
		&cli.StringFlag{
			Name:    "manager-url",
			Usage:   "Base URL of the asset manager (rest source)",
			EnvVars: []string{"ASSETBOARD_MANAGER_URL"},
		},
		&cli.StringFlag{
			Name:         "realm",
			Usage:        "Realm to show on startup",
			DefaultValue: d.Realm,
			EnvVars:      []string{"ASSETBOARD_REALM"},
		},
		&cli.StringFlag{
			Name:    "client-id",
			Usage:   "OAuth2 client ID for the asset manager",
			EnvVars: []string{"ASSETBOARD_CLIENT_ID"},
		},
		&cli.StringFlag{
			Name:    "client-secret",
			Usage:   "OAuth2 client secret for the asset manager",
			EnvVars: []string{"ASSETBOARD_CLIENT_SECRET"},
		},
		&cli.IntFlag{
			Name:         "fetch-timeout",
			Usage:        "Asset fetch timeout in seconds (0 disables)",
			DefaultValue: int(d.FetchTimeout / time.Second),
			EnvVars:      []string{"ASSETBOARD_FETCH_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:         "fallback",
			Usage:        "Records served when the source fails (sample, empty)",
			DefaultValue: d.Fallback,
			EnvVars:      []string{"ASSETBOARD_FALLBACK"},
		},
		&cli.StringFlag{
			Name:         "refresh-schedule",
			Usage:        "Cron spec for periodic overview refresh (empty disables)",
			DefaultValue: d.RefreshSchedule,
			EnvVars:      []string{"ASSETBOARD_REFRESH_SCHEDULE"},
		},
	}
}

// Load builds the configuration from the parsed server flags
func Load(cmd *cli.Command) (*Config, error) {
	cfg := &Config{
		DataDir:         cmd.GetString("data-dir"),
		ListenAddr:      cmd.GetString("addr"),
		APIAuthToken:    cmd.GetString("api-token"),
		MCPAuthToken:    cmd.GetString("mcp-token"),
		Source:          cmd.GetString("source"),
		ManagerURL:      cmd.GetString("manager-url"),
		Realm:           cmd.GetString("realm"),
		ClientID:        cmd.GetString("client-id"),
		ClientSecret:    cmd.GetString("client-secret"),
		FetchTimeout:    time.Duration(cmd.GetInt("fetch-timeout")) * time.Second,
		Fallback:        cmd.GetString("fallback"),
		RefreshSchedule: cmd.GetString("refresh-schedule"),
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize fills empty fields with defaults and validates the result
func (c *Config) Normalize() error {
	d := Default()
	c.DataDir = coalesce(c.DataDir, d.DataDir)
	c.ListenAddr = coalesce(c.ListenAddr, d.ListenAddr)
	c.Realm = coalesce(strings.TrimSpace(c.Realm), d.Realm)
	c.Source = coalesce(strings.ToLower(strings.TrimSpace(c.Source)), d.Source)
	c.Fallback = coalesce(strings.ToLower(strings.TrimSpace(c.Fallback)), d.Fallback)
	c.ManagerURL = strings.TrimRight(strings.TrimSpace(c.ManagerURL), "/")
	c.RefreshSchedule = strings.TrimSpace(c.RefreshSchedule)

	switch c.Source {
	case SourceREST:
		if c.ManagerURL == "" {
			return ErrManagerURLRequired
		}
	case SourceStore, SourceSample:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSource, c.Source)
	}

	if c.Fallback != FallbackSample && c.Fallback != FallbackEmpty {
		return fmt.Errorf("%w: %q", ErrInvalidFallback, c.Fallback)
	}
	if c.FetchTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// IsAPIAuthEnabled checks if API authentication is configured
func (c *Config) IsAPIAuthEnabled() bool {
	return c.APIAuthToken != ""
}

// IsMCPEnabled checks if MCP authentication is configured
func (c *Config) IsMCPEnabled() bool {
	return c.MCPAuthToken != ""
}

// UsesClientCredentials reports whether the rest source authenticates with
// OAuth2 client credentials
func (c *Config) UsesClientCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// coalesce returns the first non-empty string value
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
