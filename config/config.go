/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "SEARCHSTORE"

// DefaultHost is used when no Elasticsearch host is configured.
const DefaultHost = "http://127.0.0.1:9200"

// Backend names.
const (
	BackendElasticsearch = "elasticsearch"
	BackendDynamoDB      = "dynamodb"
	BackendMemory        = "memory"
)

// Config holds all searchstore configuration.
type Config struct {
	Backend       string              `mapstructure:"backend"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	DynamoDB      DynamoDBConfig      `mapstructure:"dynamodb"`
	Scan          ScanConfig          `mapstructure:"scan"`
	Log           LogConfig           `mapstructure:"log"`
}

type ElasticsearchConfig struct {
	// Hosts is a comma-separated list of scheme://host:port entries.
	Hosts    string `mapstructure:"hosts"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Refresh  string `mapstructure:"refresh"`
}

type DynamoDBConfig struct {
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Endpoint  string `mapstructure:"endpoint"`
}

type ScanConfig struct {
	BasePackages []string `mapstructure:"base_packages"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Hosts returns the configured Elasticsearch hosts, or DefaultHost when the
// list is unset or blank.
func (c *Config) Hosts() []string {
	var hosts []string
	for _, h := range strings.Split(c.Elasticsearch.Hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	if len(hosts) == 0 {
		return []string{DefaultHost}
	}
	return hosts
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	for _, h := range c.Hosts() {
		if !strfmt.Default.Validates("uri", h) {
			warnings = append(warnings, fmt.Sprintf("elasticsearch host %q is not a URI", h))
		}
	}

	switch c.Backend {
	case BackendElasticsearch, BackendDynamoDB, BackendMemory:
	default:
		warnings = append(warnings, fmt.Sprintf("unknown backend %q", c.Backend))
	}

	if c.Backend == BackendDynamoDB && c.DynamoDB.Region == "" {
		warnings = append(warnings, "dynamodb backend is configured but region is empty")
	}

	if len(c.Scan.BasePackages) > 1 {
		warnings = append(warnings, fmt.Sprintf("%d base packages configured, only %q is scanned", len(c.Scan.BasePackages), c.Scan.BasePackages[0]))
	}

	return warnings
}

// Load reads configuration from an optional YAML file, a .env file in the
// working directory and SEARCHSTORE_ environment variables, in increasing
// order of precedence. An empty path skips the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendElasticsearch)
	v.SetDefault("elasticsearch.hosts", DefaultHost)
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")
	v.SetDefault("elasticsearch.refresh", "")
	v.SetDefault("dynamodb.region", "")
	v.SetDefault("dynamodb.access_key", "")
	v.SetDefault("dynamodb.secret_key", "")
	v.SetDefault("dynamodb.endpoint", "")
	v.SetDefault("scan.base_packages", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// NewLogger builds a slog logger writing to stderr.
func NewLogger(cfg LogConfig) *slog.Logger {
	return newLogger(os.Stderr, cfg)
}

func newLogger(w io.Writer, cfg LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to a slog level, info when unknown.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
