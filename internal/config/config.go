package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Match modes control whether relaxed fallback searches are allowed.
const (
	MatchModeNormal = "normal"
	MatchModeStrict = "strict"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Secondary SecondaryConfig `mapstructure:"secondary"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	Keyword   KeywordConfig   `mapstructure:"keyword"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// RateLimit is the number of API requests one client may make per minute.
	RateLimit int `mapstructure:"rate_limit"`
}

// DatabaseConfig holds database configuration. An empty path keeps every cache in memory.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// CatalogConfig configures the primary metadata catalog (TMDB).
type CatalogConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	BaseURL           string  `mapstructure:"base_url"`
	WebBaseURL        string  `mapstructure:"web_base_url"`
	Language          string  `mapstructure:"language"`
	Timeout           int     `mapstructure:"timeout"` // seconds
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`

	// DevMode serves a small built-in catalog instead of TMDB.
	DevMode bool `mapstructure:"dev_mode"`
}

// SecondaryConfig configures the regional secondary catalog (Douban).
type SecondaryConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

// ResolverConfig tunes the identity resolution engine.
type ResolverConfig struct {
	MatchMode         string `mapstructure:"match_mode"`
	SearchKeyword     bool   `mapstructure:"search_keyword"`
	WantChinese       bool   `mapstructure:"want_chinese"`
	WebProbeTimeout   int    `mapstructure:"web_probe_timeout"` // seconds
	WebProbeCacheSize int    `mapstructure:"web_probe_cache_size"`
	WebProbeCacheTTL  int    `mapstructure:"web_probe_cache_ttl"` // minutes
	KeywordCacheTTL   int    `mapstructure:"keyword_cache_ttl"`   // hours
	SecondaryCacheTTL int    `mapstructure:"secondary_cache_ttl"` // minutes
	BatchWorkers      int    `mapstructure:"batch_workers"`
}

// KeywordConfig configures the supplemental keyword extractor.
type KeywordConfig struct {
	BingURL   string `mapstructure:"bing_url"`
	BaiduURL  string `mapstructure:"baidu_url"`
	Timeout   int    `mapstructure:"timeout"` // seconds
	RulesFile string `mapstructure:"rules_file"`
}

// SchedulerConfig configures background maintenance.
type SchedulerConfig struct {
	CacheMaintenanceCron string `mapstructure:"cache_maintenance_cron"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8088,
			RateLimit: 120,
		},
		Database: DatabaseConfig{
			Path: "./data/reelid.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Catalog: CatalogConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			WebBaseURL:        "https://www.themoviedb.org",
			Language:          "zh-CN",
			Timeout:           10,
			RequestsPerSecond: 20,
		},
		Secondary: SecondaryConfig{
			BaseURL: "https://frodo.douban.com/api/v2",
			Timeout: 10,
		},
		Resolver: ResolverConfig{
			MatchMode:         MatchModeNormal,
			WantChinese:       true,
			WebProbeTimeout:   5,
			WebProbeCacheSize: 128,
			WebProbeCacheTTL:  24 * 60,
			KeywordCacheTTL:   7 * 24,
			SecondaryCacheTTL: 60,
			BatchWorkers:      4,
		},
		Keyword: KeywordConfig{
			BingURL:  "https://cn.bing.com/search",
			BaiduURL: "https://www.baidu.com/s",
			Timeout:  5,
		},
		Scheduler: SchedulerConfig{
			CacheMaintenanceCron: "0 3 * * *",
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > .env file > config file > defaults
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.reelid")
	}

	v.SetEnvPrefix("REELID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Catalog.APIKey == "" && EmbeddedTMDBKey != "" {
		cfg.Catalog.APIKey = EmbeddedTMDBKey
	}

	return cfg, nil
}

// setDefaults mirrors Default so that env-only keys are picked up by AutomaticEnv.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.base_url", d.Catalog.BaseURL)
	v.SetDefault("catalog.web_base_url", d.Catalog.WebBaseURL)
	v.SetDefault("catalog.language", d.Catalog.Language)
	v.SetDefault("catalog.timeout", d.Catalog.Timeout)
	v.SetDefault("catalog.requests_per_second", d.Catalog.RequestsPerSecond)
	v.SetDefault("catalog.dev_mode", false)

	v.SetDefault("secondary.api_key", "")
	v.SetDefault("secondary.base_url", d.Secondary.BaseURL)
	v.SetDefault("secondary.timeout", d.Secondary.Timeout)

	v.SetDefault("resolver.match_mode", d.Resolver.MatchMode)
	v.SetDefault("resolver.search_keyword", d.Resolver.SearchKeyword)
	v.SetDefault("resolver.want_chinese", d.Resolver.WantChinese)
	v.SetDefault("resolver.web_probe_timeout", d.Resolver.WebProbeTimeout)
	v.SetDefault("resolver.web_probe_cache_size", d.Resolver.WebProbeCacheSize)
	v.SetDefault("resolver.web_probe_cache_ttl", d.Resolver.WebProbeCacheTTL)
	v.SetDefault("resolver.keyword_cache_ttl", d.Resolver.KeywordCacheTTL)
	v.SetDefault("resolver.secondary_cache_ttl", d.Resolver.SecondaryCacheTTL)
	v.SetDefault("resolver.batch_workers", d.Resolver.BatchWorkers)

	v.SetDefault("keyword.bing_url", d.Keyword.BingURL)
	v.SetDefault("keyword.baidu_url", d.Keyword.BaiduURL)
	v.SetDefault("keyword.timeout", d.Keyword.Timeout)
	v.SetDefault("keyword.rules_file", "")

	v.SetDefault("scheduler.cache_maintenance_cron", d.Scheduler.CacheMaintenanceCron)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Strict reports whether relaxed fallback searches are disabled.
func (c *ResolverConfig) Strict() bool {
	return strings.EqualFold(c.MatchMode, MatchModeStrict)
}
