// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache backends.
const (
	CacheBackendMemory   = "memory"
	CacheBackendPostgres = "postgres"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Steam   SteamConfig   `mapstructure:"steam"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Cache   CacheConfig   `mapstructure:"cache"`
	DB      DBConfig      `mapstructure:"db"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                  int `mapstructure:"port"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
}

// SteamConfig points the gateway at the upstream services.
type SteamConfig struct {
	APIBaseURL       string `mapstructure:"api_base_url"`
	CommunityBaseURL string `mapstructure:"community_base_url"`
	APIKey           string `mapstructure:"api_key"`
	AppID            int    `mapstructure:"app_id"`
	PageSize         int    `mapstructure:"page_size"`
	UserAgent        string `mapstructure:"user_agent"`
}

// HTTPConfig configures outbound HTTP calls.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// CacheConfig selects and sizes the response cache.
type CacheConfig struct {
	Backend             string `mapstructure:"backend"`
	TTLSeconds          int    `mapstructure:"ttl_seconds"`
	MaxEntries          int    `mapstructure:"max_entries"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

// DBConfig controls access to the Postgres cache backend.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int    `mapstructure:"max_conns"`
}

// LoggingConfig toggles zap development features and the minimum level.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WORKSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_seconds", 60)
	v.SetDefault("steam.api_base_url", "https://api.steampowered.com")
	v.SetDefault("steam.community_base_url", "https://steamcommunity.com")
	v.SetDefault("steam.api_key", "")
	v.SetDefault("steam.app_id", 550)
	v.SetDefault("steam.page_size", 20)
	v.SetDefault("steam.user_agent", "")
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.ttl_seconds", 3600)
	v.SetDefault("cache.max_entries", 4096)
	v.SetDefault("cache.write_timeout_seconds", 5)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.table", "response_cache")
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Steam.APIBaseURL == "" {
		return fmt.Errorf("steam.api_base_url must be set")
	}
	if c.Steam.CommunityBaseURL == "" {
		return fmt.Errorf("steam.community_base_url must be set")
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be > 0")
	}
	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("db.dsn must be set when cache.backend is postgres")
		}
	default:
		return fmt.Errorf("cache.backend must be %q or %q, got %q", CacheBackendMemory, CacheBackendPostgres, c.Cache.Backend)
	}
	return nil
}

// UpstreamTimeout bounds each outbound call.
func (c Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// RequestTimeout bounds a whole inbound request; zero disables it.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// CacheTTL is the lifetime of a cached response.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// CacheWriteTimeout bounds one background cache write.
func (c Config) CacheWriteTimeout() time.Duration {
	return time.Duration(c.Cache.WriteTimeoutSeconds) * time.Second
}
