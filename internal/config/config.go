package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultAppEnv          = "dev"
	defaultHTTPAddr        = ":5050"
	defaultDatabaseURL     = "landscaping.db"
	defaultReportCacheTTL  = "60s"
	defaultShutdownTimeout = "10s"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	DatabaseURL     string
	DBDebug         bool
	RedisURL        string
	ReportCacheTTL  time.Duration
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// configFile mirrors the optional YAML file named by CONFIG_FILE.
type configFile struct {
	App struct {
		Env             string   `yaml:"env"`
		HTTPAddr        string   `yaml:"http_addr"`
		ShutdownTimeout string   `yaml:"shutdown_timeout"`
		CORSOrigins     []string `yaml:"cors_allowed_origins"`
	} `yaml:"app"`
	Database struct {
		URL   string `yaml:"url"`
		Debug *bool  `yaml:"debug"`
	} `yaml:"database"`
	Reports struct {
		RedisURL string `yaml:"redis_url"`
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"reports"`
}

// Load resolves configuration with precedence defaults < YAML file < environment.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}

	values := map[string]string{
		"APP_ENV":              defaultAppEnv,
		"HTTP_ADDR":            defaultHTTPAddr,
		"DATABASE_URL":         defaultDatabaseURL,
		"DB_DEBUG":             "false",
		"REDIS_URL":            "",
		"REPORT_CACHE_TTL":     defaultReportCacheTTL,
		"CORS_ALLOWED_ORIGINS": "",
		"SHUTDOWN_TIMEOUT":     defaultShutdownTimeout,
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyFile(path, values); err != nil {
			return nil, err
		}
	}

	for key := range values {
		values[key] = getEnv(key, values[key])
	}

	cfg := &Config{
		AppEnv:      strings.ToLower(strings.TrimSpace(values["APP_ENV"])),
		HTTPAddr:    strings.TrimSpace(values["HTTP_ADDR"]),
		DatabaseURL: strings.TrimSpace(values["DATABASE_URL"]),
		DBDebug:     parseBool(values["DB_DEBUG"]),
		RedisURL:    strings.TrimSpace(values["REDIS_URL"]),
		CORSOrigins: splitList(values["CORS_ALLOWED_ORIGINS"]),
	}

	var err error
	cfg.ReportCacheTTL, err = parseDuration("REPORT_CACHE_TTL", values["REPORT_CACHE_TTL"])
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", values["SHUTDOWN_TIMEOUT"])
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s addr=%s redis=%t cache_ttl=%s", cfg.AppEnv, cfg.HTTPAddr, cfg.RedisURL != "", cfg.ReportCacheTTL)
	return cfg, nil
}

func applyFile(path string, values map[string]string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	set := func(key, v string) {
		if strings.TrimSpace(v) != "" {
			values[key] = v
		}
	}
	set("APP_ENV", f.App.Env)
	set("HTTP_ADDR", f.App.HTTPAddr)
	set("SHUTDOWN_TIMEOUT", f.App.ShutdownTimeout)
	set("CORS_ALLOWED_ORIGINS", strings.Join(f.App.CORSOrigins, ","))
	set("DATABASE_URL", f.Database.URL)
	if f.Database.Debug != nil {
		values["DB_DEBUG"] = fmt.Sprintf("%t", *f.Database.Debug)
	}
	set("REDIS_URL", f.Reports.RedisURL)
	set("REPORT_CACHE_TTL", f.Reports.CacheTTL)
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.ReportCacheTTL <= 0 {
		return fmt.Errorf("REPORT_CACHE_TTL must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	return nil
}

// IsProdLike reports whether the environment should run gin in release mode.
func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func parseDuration(name, value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBool(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
