package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DatabaseURL      string
	RedisURL         string
	ExtractCacheTTL  time.Duration
	SearchAPIKey     string
	SearchEngineID   string
	WebMaxSnippets   int
	WebSnippetTokens int
	WebMaxResults    int
	WebQueryTimeout  time.Duration
	WebBudget        time.Duration
	WebFetchTimeout  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// WebSearchEnabled reports whether search provider credentials are configured.
// Without them checks run with web corroboration disabled.
func (c Config) WebSearchEnabled() bool {
	return c.SearchAPIKey != "" && c.SearchEngineID != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SIMCHECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SIMCHECK API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("extract.cache_ttl", "24h")
	v.SetDefault("web.max_snippets", 3)
	v.SetDefault("web.snippet_tokens", 12)
	v.SetDefault("web.max_results", 5)
	v.SetDefault("web.query_timeout", "8s")
	v.SetDefault("web.budget", "30s")
	v.SetDefault("web.fetch_timeout", "10s")

	ttl, err := parseDuration(v, "extract.cache_ttl")
	if err != nil {
		return Config{}, fmt.Errorf("invalid extract cache ttl: %w", err)
	}

	queryTimeout, err := parseDuration(v, "web.query_timeout")
	if err != nil {
		return Config{}, fmt.Errorf("invalid web query timeout: %w", err)
	}

	budget, err := parseDuration(v, "web.budget")
	if err != nil {
		return Config{}, fmt.Errorf("invalid web budget: %w", err)
	}

	fetchTimeout, err := parseDuration(v, "web.fetch_timeout")
	if err != nil {
		return Config{}, fmt.Errorf("invalid web fetch timeout: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		ExtractCacheTTL:  ttl,
		SearchAPIKey:     v.GetString("search.api_key"),
		SearchEngineID:   v.GetString("search.engine_id"),
		WebMaxSnippets:   v.GetInt("web.max_snippets"),
		WebSnippetTokens: v.GetInt("web.snippet_tokens"),
		WebMaxResults:    v.GetInt("web.max_results"),
		WebQueryTimeout:  queryTimeout,
		WebBudget:        budget,
		WebFetchTimeout:  fetchTimeout,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	value := v.GetString(key)
	if value == "" {
		return 0, fmt.Errorf("%s must not be empty", key)
	}

	return time.ParseDuration(value)
}
