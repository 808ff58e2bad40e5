package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// Config holds application configuration.
type Config struct {
	Env         string `koanf:"app_env"`
	Port        string `koanf:"port"`
	APIPrefix   string `koanf:"api_prefix"`
	DatabaseURL string `koanf:"database_url"`
	// TursoAuthToken enables the remote-replica mode for libsql:// URLs.
	TursoAuthToken string `koanf:"turso_auth_token"`

	TMDBAPIKey       string        `koanf:"tmdb_api_key"`
	TMDBLanguage     string        `koanf:"tmdb_language"`
	TMDBBaseURL      string        `koanf:"tmdb_base_url"`
	TMDBImageBaseURL string        `koanf:"tmdb_image_base_url"`
	OMDBAPIKey       string        `koanf:"omdb_api_key"`
	OMDBBaseURL      string        `koanf:"omdb_base_url"`
	ProviderTimeout  time.Duration `koanf:"provider_timeout"`

	LogLevel    string   `koanf:"log_level"`
	LogFormat   string   `koanf:"log_format"`
	CORSOrigins []string `koanf:"cors_origins"`
}

// envKeys lists the environment variables that map onto Config.
var envKeys = map[string]bool{
	"app_env":             true,
	"port":                true,
	"api_prefix":          true,
	"database_url":        true,
	"turso_auth_token":    true,
	"tmdb_api_key":        true,
	"tmdb_language":       true,
	"tmdb_base_url":       true,
	"tmdb_image_base_url": true,
	"omdb_api_key":        true,
	"omdb_base_url":       true,
	"provider_timeout":    true,
	"log_level":           true,
	"log_format":          true,
	"cors_origins":        true,
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Env:              "development",
		Port:             "8000",
		APIPrefix:        "/api",
		DatabaseURL:      "sqlite://./movies.db",
		TMDBLanguage:     "es-ES",
		TMDBBaseURL:      "https://api.themoviedb.org/3",
		TMDBImageBaseURL: "https://image.tmdb.org/t/p",
		OMDBBaseURL:      "http://www.omdbapi.com",
		ProviderTimeout:  10 * time.Second,
		LogLevel:         "info",
		LogFormat:        "console",
		CORSOrigins:      []string{"*"},
	}
}

// Load builds the configuration from defaults, then an optional YAML file, then the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := splitCommaList(k, "cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.APIPrefix = normalizePrefix(cfg.APIPrefix)
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 10 * time.Second
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// HasTMDB reports whether the primary search tier is enabled.
func (c *Config) HasTMDB() bool {
	return c.TMDBAPIKey != ""
}

// HasOMDB reports whether the fallback search tier is enabled.
func (c *Config) HasOMDB() bool {
	return c.OMDBAPIKey != ""
}

// WriteTimeout bounds one HTTP response. A search can chain a TMDB call, an
// OMDB search and a round of concurrent OMDB detail calls, each bounded by
// ProviderTimeout.
func (c *Config) WriteTimeout() time.Duration {
	return 3*c.ProviderTimeout + 10*time.Second
}

func envTransform(key string) string {
	key = strings.ToLower(key)
	if envKeys[key] {
		return key
	}
	return ""
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// splitCommaList turns "a, b" from the environment into a string slice.
func splitCommaList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func normalizePrefix(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimSuffix(p, "/")
}
