// Package config loads the engine's runtime configuration using Viper, with
// the hierarchy Flags (handled by the caller) > Env Vars > Config File >
// Defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/codelens/internal/logger"
)

// Config is the top-level configuration structure for the engine and its
// front ends.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Scan    ScanConfig    `mapstructure:"scan"`
	Rules   RulesConfig   `mapstructure:"rules"`
	History HistoryConfig `mapstructure:"history"`
	GitHub  GitHubConfig  `mapstructure:"github"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Logging logger.Config `mapstructure:"logging"`
}

// GitHubConfig configures the optional GitHub front-end integration used by
// the CLI's --pr review mode: either a personal access token or a GitHub
// App installation.
type GitHubConfig struct {
	Token          string `mapstructure:"token"`
	AppID          int64  `mapstructure:"app_id"`
	InstallationID int64  `mapstructure:"installation_id"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
}

// LLMConfig configures the CLI's LLM collaborator: an external command the
// assembled prompt is piped to. The engine itself never reads this; prompts
// stay local unless a front end explicitly invokes the command.
type LLMConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// ServerConfig configures the optional HTTP front end.
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	SharedSecret string `mapstructure:"shared_secret"`
}

// StorageConfig configures the on-disk locations the engine reads and
// writes: the scan cache root and the rule store root.
type StorageConfig struct {
	CacheRoot string `mapstructure:"cache_root"`
	RulesRoot string `mapstructure:"rules_root"`
}

// ScanConfig configures the default scan behaviour: worker pool size,
// syntax-tree cache capacity, and the maximum number of findings before a
// scan is marked truncated.
type ScanConfig struct {
	Parallelism    int      `mapstructure:"parallelism"`
	TreeCacheSize  int      `mapstructure:"tree_cache_size"`
	MaxIssues      int      `mapstructure:"max_issues"`
	ExcludeDirs    []string `mapstructure:"exclude_dirs"`
	ExcludeGlobs   []string `mapstructure:"exclude_globs"`
	IncludeGlobs   []string `mapstructure:"include_globs"`
	CacheTTLHours  int      `mapstructure:"cache_ttl_hours"`
	MaxMemoryCache int      `mapstructure:"max_memory_cache_entries"`
}

// RulesConfig configures where rule sources fetch from and how strictly
// integrity failures are treated.
type RulesConfig struct {
	Strict       bool          `mapstructure:"strict"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// HistoryConfig configures the optional Postgres-backed scan-history audit
// trail (internal/history). It is disabled by default: the core's only
// required persisted state is the scan cache and rule metadata.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// LoadConfig loads configuration from config.toml (or env vars / defaults
// if absent) using Viper.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.codelens")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded configuration", "file", v.ConfigFileUsed())
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")

	v.SetDefault("storage.cache_root", "./data/cache")
	v.SetDefault("storage.rules_root", "./data/rules")

	v.SetDefault("scan.parallelism", 0) // 0 => runtime.NumCPU()
	v.SetDefault("scan.tree_cache_size", 64)
	v.SetDefault("scan.max_issues", 0) // 0 => unlimited
	v.SetDefault("scan.exclude_dirs", []string{".git", "node_modules", "target", "build", "dist", "vendor"})
	v.SetDefault("scan.cache_ttl_hours", 24)
	v.SetDefault("scan.max_memory_cache_entries", 500)

	v.SetDefault("rules.strict", false)
	v.SetDefault("rules.fetch_timeout", "30s")

	v.SetDefault("history.enabled", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
}

// Validate checks internal consistency of the configuration.
func (c *Config) Validate() error {
	if c.Scan.Parallelism < 0 {
		return errors.New("scan.parallelism must be >= 0")
	}
	if c.Scan.TreeCacheSize <= 0 {
		return errors.New("scan.tree_cache_size must be > 0")
	}
	if c.History.Enabled && c.History.DSN == "" {
		return errors.New("history.dsn is required when history.enabled is true")
	}
	return nil
}
