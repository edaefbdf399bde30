// Package config loads prdash configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bjulian5/prdash/internal/gh"
	"github.com/bjulian5/prdash/internal/model"
	"github.com/bjulian5/prdash/internal/pipeline"
)

const (
	envFile   = ".env"
	envPrefix = "PRDASH"

	// TokenFallbackEnv is read when no token is configured under the prdash keys
	TokenFallbackEnv = "GITHUB_TOKEN"
)

var keys = []string{
	"github.api_url",
	"github.token",
	"github.user_agent",
	"github.request_timeout",
	"github.probe_timeout",
	"github.max_attempts",
	"github.backoff_unit",
	"workitem.marker",
	"workitem.url_template",
	"cache.ttl",
	"cache.max_entries",
	"logging.level",
}

// NewConfig loads configuration from .env, PRDASH_* environment variables and
// an optional config file, in increasing order of precedence for the file.
func NewConfig(configFile string) (*Config, error) {
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, val := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, val)
			}
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.GitHub.Token) == "" {
		cfg.GitHub.Token = os.Getenv(TokenFallbackEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.api_url", gh.DefaultBaseURL)
	v.SetDefault("github.token", "")
	v.SetDefault("github.user_agent", gh.DefaultUserAgent)
	v.SetDefault("github.request_timeout", gh.DefaultRequestTimeout)
	v.SetDefault("github.probe_timeout", gh.DefaultProbeTimeout)
	v.SetDefault("github.max_attempts", gh.DefaultMaxAttempts)
	v.SetDefault("github.backoff_unit", gh.DefaultBackoffUnit)

	v.SetDefault("workitem.marker", model.DefaultWorkItemMarker)
	v.SetDefault("workitem.url_template", model.DefaultWorkItemURLTemplate)

	v.SetDefault("cache.ttl", pipeline.DefaultCacheTTL)
	v.SetDefault("cache.max_entries", 64)

	v.SetDefault("logging.level", "warn")
}

// Config holds application configuration.
type Config struct {
	GitHub   GitHubConfig   `mapstructure:"github"`
	WorkItem WorkItemConfig `mapstructure:"workitem"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// GitHubConfig contains API client settings.
type GitHubConfig struct {
	APIURL         string        `mapstructure:"api_url"`
	Token          string        `mapstructure:"token"`
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ProbeTimeout   time.Duration `mapstructure:"probe_timeout"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	BackoffUnit    time.Duration `mapstructure:"backoff_unit"`
}

// WorkItemConfig controls work item extraction from titles and bodies.
type WorkItemConfig struct {
	Marker      string `mapstructure:"marker"`
	URLTemplate string `mapstructure:"url_template"`
}

// CacheConfig sizes the retrieval cache used by watch.
type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Validate ensures values are usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.GitHub.APIURL) == "" {
		return fmt.Errorf("github.api_url is required")
	}
	if c.GitHub.MaxAttempts <= 0 {
		return fmt.Errorf("github.max_attempts must be positive, got %d", c.GitHub.MaxAttempts)
	}
	if c.GitHub.RequestTimeout <= 0 || c.GitHub.ProbeTimeout <= 0 {
		return fmt.Errorf("github timeouts must be positive")
	}
	if c.GitHub.BackoffUnit <= 0 {
		return fmt.Errorf("github.backoff_unit must be positive")
	}
	if !strings.Contains(c.WorkItem.URLTemplate, "{id}") {
		return fmt.Errorf("workitem.url_template must contain {id}")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative")
	}
	return nil
}

// ClientOptions maps the github section onto gh.Options
func (c Config) ClientOptions() gh.Options {
	return gh.Options{
		BaseURL:        c.GitHub.APIURL,
		RequestTimeout: c.GitHub.RequestTimeout,
		ProbeTimeout:   c.GitHub.ProbeTimeout,
		MaxAttempts:    c.GitHub.MaxAttempts,
		BackoffUnit:    c.GitHub.BackoffUnit,
	}
}
