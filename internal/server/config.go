package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/care-forecast/internal/config"
	"github.com/iwvelando/care-forecast/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string               `yaml:"address"`
	AllowedOrigins  []string             `yaml:"allowedOrigins"`
	RedisURL        string               `yaml:"redisURL"`
	SuggestCacheTTL string               `yaml:"suggestCacheTTL"`
	Logging         config.LoggingConfig `yaml:"logging"`
	suggestCacheTTL time.Duration
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	ttl, _ := time.ParseDuration(constants.DefaultSuggestCacheTTL)
	return &Config{
		Address:         constants.DefaultServerAddress,
		AllowedOrigins:  append([]string(nil), constants.DefaultAllowedOrigins...),
		SuggestCacheTTL: constants.DefaultSuggestCacheTTL,
		Logging:         config.LoggingConfig{},
		suggestCacheTTL: ttl,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SuggestCacheTTLDuration returns how long suggestion results stay cached.
func (c *Config) SuggestCacheTTLDuration() time.Duration {
	return c.suggestCacheTTL
}

// SetSuggestCacheTTL overrides the suggestion cache lifetime.
func (c *Config) SetSuggestCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		c.suggestCacheTTL = ttl
		c.SuggestCacheTTL = ttl.String()
	}
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, strings.TrimRight(trimmed, "/"))
		}
	}
	if len(origins) == 0 {
		origins = append(origins, constants.DefaultAllowedOrigins...)
	}
	c.AllowedOrigins = origins

	c.RedisURL = strings.TrimSpace(c.RedisURL)

	ttl, err := ParseDuration(c.SuggestCacheTTL)
	if err != nil {
		return err
	}
	c.suggestCacheTTL = ttl
	c.SuggestCacheTTL = ttl.String()
	return nil
}

// ParseDuration converts a duration string such as "90s" or "5m" into a
// time.Duration. Blank input selects the default cache lifetime; a bare number
// is read as seconds.
func ParseDuration(value string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = constants.DefaultSuggestCacheTTL
	}
	if strings.Trim(trimmed, "0123456789") == "" {
		trimmed += "s"
	}

	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", value)
	}
	return d, nil
}
