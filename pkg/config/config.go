package config

import (
	"os"
	"strings"
	"time"

	"github.com/DeBrosOfficial/cable/pkg/errors"
)

// Environment overrides applied by ApplyEnv.
const (
	EnvAppURL    = "CABLE_APP_URL"
	EnvSocketURL = "CABLE_SOCKET_URL"
	EnvLogLevel  = "CABLE_LOG_LEVEL"
)

// Config represents the configuration of a cable client
type Config struct {
	AppURL    string          `yaml:"app_url"`    // Page URL the REST and socket hosts are derived from
	SocketURL string          `yaml:"socket_url"` // Explicit socket URL, overrides the derived one
	Transport TransportConfig `yaml:"transport"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TransportConfig contains websocket dial settings
type TransportConfig struct {
	HandshakeTimeout time.Duration     `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration     `yaml:"write_timeout"`
	ReadBufferSize   int               `yaml:"read_buffer_size"`
	WriteBufferSize  int               `yaml:"write_buffer_size"`
	Origin           string            `yaml:"origin"`  // Defaults to the REST host
	Headers          map[string]string `yaml:"headers"` // Extra dial headers (e.g. Authorization)
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Transport: TransportConfig{
			HandshakeTimeout: 10 * time.Second,
			WriteTimeout:     10 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			Headers:          make(map[string]string),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewConfigError("open "+path, err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	if err := DecodeStrict(f, cfg); err != nil {
		return nil, errors.NewConfigError("decode "+path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from CABLE_* environment variables.
// Priority: flags > env > file > defaults; flags are applied by the caller.
func (c *Config) ApplyEnv() {
	if v := getEnv(EnvAppURL); v != "" {
		c.AppURL = v
	}
	if v := getEnv(EnvSocketURL); v != "" {
		c.SocketURL = v
	}
	if v := getEnv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
