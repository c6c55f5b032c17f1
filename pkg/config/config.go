package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
		SlowRequest     time.Duration `yaml:"slow_request" default:"2s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Provider struct {
		Type       string `yaml:"type" default:"yahoo"`
		MaxResults int    `yaml:"max_results" default:"10"`
		Yahoo      struct {
			SearchURL string        `yaml:"search_url" default:"https://query2.finance.yahoo.com"`
			ChartURL  string        `yaml:"chart_url" default:"https://query1.finance.yahoo.com"`
			UserAgent string        `yaml:"user_agent" default:"Mozilla/5.0"`
			Timeout   time.Duration `yaml:"timeout" default:"15s"`
		} `yaml:"yahoo"`
		EODHD struct {
			BaseURL   string        `yaml:"base_url" default:"https://eodhd.com/api"`
			APIKey    string        `yaml:"api_key"`
			RateLimit int           `yaml:"rate_limit" default:"10"`
			Timeout   time.Duration `yaml:"timeout" default:"30s"`
		} `yaml:"eodhd"`
	} `yaml:"provider"`
	Viewer struct {
		APIURL         string        `yaml:"api_url" default:"http://localhost:8080"`
		Debounce       time.Duration `yaml:"debounce" default:"300ms"`
		MinQueryLength int           `yaml:"min_query_length" default:"2"`
		OutDir         string        `yaml:"out_dir" default:"."`
		LogFile        string        `yaml:"log_file" default:"viewer.log"`
		Timeout        time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"viewer"`
}

// Default returns a config populated only from `default` tags.
func Default() *Config {
	var c Config
	// Tags are static; a failure here is a programming error.
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads and parses a YAML configuration file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}

	ApplyEnv(c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func load(path string) (*Config, error) {
	var c Config

	// Defaults first so an explicit `false` or `0` in the file survives.
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	return &c, nil
}

// ApplyEnv overrides config fields from environment variables.
func ApplyEnv(c *Config) {
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider.Type = v
	}
	if v := os.Getenv("EODHD_API_KEY"); v != "" {
		c.Provider.EODHD.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("STOCKHISTORY_API_URL"); v != "" {
		c.Viewer.APIURL = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	switch c.Provider.Type {
	case "yahoo":
	case "eodhd":
		if c.Provider.EODHD.APIKey == "" {
			return fmt.Errorf("provider.eodhd.api_key is required when provider.type is 'eodhd'")
		}
	default:
		return fmt.Errorf("provider.type must be 'yahoo' or 'eodhd', got '%s'", c.Provider.Type)
	}
	if c.Provider.MaxResults <= 0 {
		return fmt.Errorf("provider.max_results must be positive")
	}
	if c.Viewer.Debounce <= 0 {
		return fmt.Errorf("viewer.debounce must be positive")
	}
	if c.Viewer.MinQueryLength < 0 {
		return fmt.Errorf("viewer.min_query_length cannot be negative")
	}
	return nil
}
