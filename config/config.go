package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFetchTimeout bounds how long a single page fetch may take
const DefaultFetchTimeout = 30 * time.Second

// PaginateConfig expands one configured page into a numbered range of pages
// by rewriting a query parameter, e.g. page=1..5
type PaginateConfig struct {
	Param string `yaml:"param"`
	From  int    `yaml:"from"`
	To    int    `yaml:"to"`
}

// PageConfig describes one page to visit
type PageConfig struct {
	URL      string          `yaml:"url"`
	Label    string          `yaml:"label"`
	Paginate *PaginateConfig `yaml:"paginate,omitempty"`
}

// ValueFilter optionally excludes parsed values outside a range from the
// subtotals. Disabled by default.
type ValueFilter struct {
	Enabled  bool    `yaml:"enabled"`
	MinValue float64 `yaml:"min_value"`
	MaxValue float64 `yaml:"max_value"`
}

// Config is the tool's configuration: the ordered page list plus options
type Config struct {
	Pages               []PageConfig `yaml:"pages"`
	Fetcher             string       `yaml:"fetcher"` // "browser" or "http"
	FetchTimeoutSeconds int          `yaml:"fetch_timeout_seconds"`
	Filter              ValueFilter  `yaml:"filter"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for obvious mistakes
func (c *Config) Validate() error {
	if len(c.Pages) == 0 {
		return fmt.Errorf("config must list at least one page")
	}
	for i, page := range c.Pages {
		if page.URL == "" {
			return fmt.Errorf("page %d has no url", i)
		}
		if page.Paginate != nil {
			if page.Paginate.Param == "" {
				return fmt.Errorf("page %d paginate block has no param", i)
			}
			if page.Paginate.To < page.Paginate.From {
				return fmt.Errorf("page %d paginate range is inverted", i)
			}
		}
	}
	if c.Fetcher != "" && c.Fetcher != "browser" && c.Fetcher != "http" {
		return fmt.Errorf("unknown fetcher %q (use \"browser\" or \"http\")", c.Fetcher)
	}
	return nil
}

// FetchTimeout returns the configured per-page timeout, or the default
func (c *Config) FetchTimeout() time.Duration {
	if c.FetchTimeoutSeconds <= 0 {
		return DefaultFetchTimeout
	}
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Fetcher:             "browser",
		FetchTimeoutSeconds: int(DefaultFetchTimeout / time.Second),
	}
}
