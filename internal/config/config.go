package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider exposes configuration values to the rest of the application.
// Handlers and services depend on this interface instead of the struct so
// tests can swap in a small mock.
type Provider interface {
	GetHost() string
	GetPort() int
	GetAddr() string
	GetBaseURL() string
	GetDistDir() string
	GetSessionSecret() string
	GetFlowTTL() time.Duration
	GetLogFormat() string
	GetLogLevel() string
}

// Config holds all configuration for the web login server.
type Config struct {
	Host          string
	Port          int
	BaseURL       string
	DistDir       string
	SessionSecret string
	FlowTTL       time.Duration
	LogFormat     string
	LogLevel      string
}

const (
	keyHost          = "WEB_AUTH_HOST"
	keyPort          = "WEB_AUTH_PORT"
	keyBaseURL       = "WEB_AUTH_BASE_URL"
	keyDistDir       = "WEB_AUTH_DIST"
	keySessionSecret = "WEB_AUTH_SESSION_SECRET"
	keyFlowTTL       = "WEB_AUTH_FLOW_TTL"
	keyLogFormat     = "LOG_FORMAT"
	keyLogLevel      = "LOG_LEVEL"
)

// defaultSessionSecret is public. It is only accepted while the server is
// reachable on a loopback address.
const defaultSessionSecret = "change-me-web-auth-flash-secret"

// New loads configuration from a .env file (if present) and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// slog is not configured yet, the default handler is fine here.
		slog.Debug("No .env file found, relying on environment variables")
	}
	return Load(viper.New())
}

// Load reads configuration from v, applying defaults for anything unset.
func Load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetDefault(keyHost, "127.0.0.1")
	v.SetDefault(keyPort, 8080)
	v.SetDefault(keyFlowTTL, 10*time.Minute)
	v.SetDefault(keyLogFormat, "text")
	v.SetDefault(keyLogLevel, "debug")
	v.SetDefault(keySessionSecret, defaultSessionSecret)

	cfg := &Config{
		Host:          v.GetString(keyHost),
		Port:          v.GetInt(keyPort),
		BaseURL:       strings.TrimRight(v.GetString(keyBaseURL), "/"),
		DistDir:       v.GetString(keyDistDir),
		SessionSecret: v.GetString(keySessionSecret),
		FlowTTL:       v.GetDuration(keyFlowTTL),
		LogFormat:     v.GetString(keyLogFormat),
		LogLevel:      v.GetString(keyLogLevel),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://" + cfg.GetAddr()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail at startup.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", keyPort, c.Port)
	}
	if c.FlowTTL <= 0 {
		return fmt.Errorf("%s must be positive, got %s", keyFlowTTL, c.FlowTTL)
	}
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("%s must be at least 16 characters", keySessionSecret)
	}
	if c.UsesDefaultSessionSecret() && !c.isLoopback() {
		return fmt.Errorf("%s must be set when %s (%s) is not a loopback address",
			keySessionSecret, keyBaseURL, c.BaseURL)
	}
	return nil
}

// UsesDefaultSessionSecret reports whether the session secret was left unset.
func (c *Config) UsesDefaultSessionSecret() bool {
	return c.SessionSecret == defaultSessionSecret
}

func (c *Config) isLoopback() bool {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (c *Config) GetHost() string { return c.Host }
func (c *Config) GetPort() int { return c.Port }
func (c *Config) GetBaseURL() string { return c.BaseURL }
func (c *Config) GetDistDir() string { return c.DistDir }
func (c *Config) GetSessionSecret() string { return c.SessionSecret }
func (c *Config) GetFlowTTL() time.Duration { return c.FlowTTL }
func (c *Config) GetLogFormat() string { return c.LogFormat }
func (c *Config) GetLogLevel() string { return c.LogLevel }

// GetAddr returns the host:port pair the server listens on.
func (c *Config) GetAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LoginURL builds the link the bot sends to a user for the given token.
func (c *Config) LoginURL(token string) string {
	return c.BaseURL + "/auth/" + token
}
