package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

const (
	defaultPort                = 8080
	defaultMetricsPort         = 2112
	defaultLoginRateLimit      = 15
	defaultTimezone            = "Asia/Bangkok"
	defaultPostgresPort        = "5432"
	defaultPostgresSSLMode     = "disable"
	defaultRedisPort           = "6379"
	defaultPrometheusMetricsIP = "localhost"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost    string `toml:"postgres_host"`
	PostgresPort    string `toml:"postgres_port"`
	PostgresUser    string `toml:"postgres_user"`
	PostgresDBName  string `toml:"postgres_db_name"`
	PostgresSSLMode string `toml:"postgres_ssl_mode"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`
	Timezone                    string   `toml:"timezone"`
	AllowedOrigins              []string `toml:"allowed_origins"`
	StaticDir                   string   `toml:"static_dir"`
	SecureCookies               bool     `toml:"secure_cookies"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
		if cfg != nil {
			cfg.Environment = "development"
		}
	case "prod", "production":
		cfg = t.Production
		if cfg != nil {
			cfg.Environment = "production"
		}
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.setDefaults()
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return t.Get(env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return t.Get(env)
}

func (c *Config) setDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = defaultPrometheusMetricsIP
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = fmt.Sprintf("%d", defaultMetricsPort)
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = defaultLoginRateLimit
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.PostgresPort == "" {
		c.PostgresPort = defaultPostgresPort
	}
	if c.PostgresSSLMode == "" {
		c.PostgresSSLMode = defaultPostgresSSLMode
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.RedisPort == "" {
		c.RedisPort = defaultRedisPort
	}
}

// Location resolves the configured timezone used for calendar day and month boundaries.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
