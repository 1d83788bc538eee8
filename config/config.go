// Package config loads settings from defaults, an optional YAML file, .env
// and environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// APIKeyEnv is the environment variable holding the Envato personal token.
const APIKeyEnv = "ENVATO_MARKET_API_KEY"

// ErrMissingAPIKey is returned by RequireAPIKey when no token is configured.
var ErrMissingAPIKey = fmt.Errorf("%s environment variable is not set; set it using: export %s='your_api_key'",
	APIKeyEnv, APIKeyEnv)

// Config holds all application configuration.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Crawl  CrawlConfig  `mapstructure:"crawl"`
	Log    LogConfig    `mapstructure:"log"`
	Sentry SentryConfig `mapstructure:"sentry"`
	HTTP   HTTPConfig   `mapstructure:"http"`
}

// APIConfig configures the Envato API client.
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Key           string        `mapstructure:"key"`
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	RateBurst     int           `mapstructure:"rate_burst"`
	// RetryFallback is the wait after a 429 without a usable Retry-After.
	RetryFallback time.Duration `mapstructure:"retry_fallback"`
	// MaxRateLimitRetries bounds 429 retries; 0 retries forever.
	MaxRateLimitRetries int `mapstructure:"max_rate_limit_retries"`
}

// CacheConfig locates the persistence file.
type CacheConfig struct {
	File string `mapstructure:"file"`
}

// CrawlConfig holds crawl limits.
type CrawlConfig struct {
	MaxPages int `mapstructure:"max_pages"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console, json
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// HTTPConfig configures serve-http.
type HTTPConfig struct {
	Port   string `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:       "https://api.envato.com/v1/",
			UserAgent:     "envato-scrape/0.1.0",
			Timeout:       30 * time.Second,
			RatePerSecond: 2,
			RateBurst:     1,
			RetryFallback: 60 * time.Second,
		},
		Cache:  CacheConfig{File: ".envato_scrape_cache.json"},
		Crawl:  CrawlConfig{MaxPages: 60},
		Log:    LogConfig{Level: "info", Format: "console"},
		Sentry: SentryConfig{Environment: "production"},
		HTTP:   HTTPConfig{Port: "8080"},
	}
}

// Load reads configuration. Priority: env vars > config file > defaults.
// A .env file in the working directory is loaded first if present. An
// empty configPath looks for envato-scrape.yaml in the working directory.
func Load(configPath string) (*Config, error) {
	// silently ignored if missing
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, DefaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("envato-scrape")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("ENVATO_SCRAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.key", APIKeyEnv); err != nil {
		return nil, fmt.Errorf("binding %s: %w", APIKeyEnv, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.key", "")
	v.SetDefault("api.user_agent", d.API.UserAgent)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.rate_per_second", d.API.RatePerSecond)
	v.SetDefault("api.rate_burst", d.API.RateBurst)
	v.SetDefault("api.retry_fallback", d.API.RetryFallback)
	v.SetDefault("api.max_rate_limit_retries", d.API.MaxRateLimitRetries)

	v.SetDefault("cache.file", d.Cache.File)
	v.SetDefault("crawl.max_pages", d.Crawl.MaxPages)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("sentry.dsn", d.Sentry.DSN)
	v.SetDefault("sentry.environment", d.Sentry.Environment)

	v.SetDefault("http.port", d.HTTP.Port)
	v.SetDefault("http.api_key", d.HTTP.APIKey)
}

// Validate checks that the settings are usable together.
func (c *Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout))
	}
	if c.API.RatePerSecond < 0 {
		errs = append(errs, fmt.Errorf("api.rate_per_second must not be negative, got %g", c.API.RatePerSecond))
	}
	if c.API.RetryFallback < 0 {
		errs = append(errs, fmt.Errorf("api.retry_fallback must not be negative, got %s", c.API.RetryFallback))
	}
	if c.API.MaxRateLimitRetries < 0 {
		errs = append(errs, fmt.Errorf("api.max_rate_limit_retries must not be negative, got %d", c.API.MaxRateLimitRetries))
	}
	if c.Cache.File == "" {
		errs = append(errs, errors.New("cache.file must be set"))
	}
	if c.Crawl.MaxPages < 1 {
		errs = append(errs, fmt.Errorf("crawl.max_pages must be at least 1, got %d", c.Crawl.MaxPages))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// RequireAPIKey returns the API token or ErrMissingAPIKey.
func (c *Config) RequireAPIKey() (string, error) {
	key := strings.TrimSpace(c.API.Key)
	if key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}
