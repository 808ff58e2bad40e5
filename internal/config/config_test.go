package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("OMDB_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.APIPrefix != "/api" {
		t.Errorf("APIPrefix = %q, want /api", cfg.APIPrefix)
	}
	if cfg.TMDBLanguage != "es-ES" {
		t.Errorf("TMDBLanguage = %q, want es-ES", cfg.TMDBLanguage)
	}
	if cfg.ProviderTimeout != 10*time.Second {
		t.Errorf("ProviderTimeout = %v, want 10s", cfg.ProviderTimeout)
	}
	if cfg.HasTMDB() || cfg.HasOMDB() {
		t.Error("expected both provider tiers disabled without keys")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("TMDB_API_KEY", "tmdb-key")
	t.Setenv("OMDB_API_KEY", "omdb-key")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/movies")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("API_PREFIX", "v1/")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.HasTMDB() || !cfg.HasOMDB() {
		t.Error("expected both provider tiers enabled")
	}
	if cfg.DatabaseURL != "postgres://u:p@localhost:5432/movies" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.ProviderTimeout != 3*time.Second {
		t.Errorf("ProviderTimeout = %v, want 3s", cfg.ProviderTimeout)
	}
	if cfg.APIPrefix != "/v1" {
		t.Errorf("APIPrefix = %q, want /v1", cfg.APIPrefix)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movienote.yaml")
	content := "tmdb_language: en-US\nlog_format: json\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TMDBLanguage != "en-US" {
		t.Errorf("TMDBLanguage = %q, want en-US", cfg.TMDBLanguage)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
}

func TestNormalizePrefix(t *testing.T) {
	tests := map[string]string{
		"":      "",
		"/":     "",
		"api":   "/api",
		"/api/": "/api",
	}
	for in, want := range tests {
		if got := normalizePrefix(in); got != want {
			t.Errorf("normalizePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteTimeout_CoversProviderChain(t *testing.T) {
	cfg := Default()
	cfg.ProviderTimeout = 10 * time.Second

	got := cfg.WriteTimeout()
	if got != 40*time.Second {
		t.Errorf("WriteTimeout() = %v, want 40s", got)
	}
	if got <= 3*cfg.ProviderTimeout {
		t.Errorf("WriteTimeout() = %v does not outlast three provider calls", got)
	}
}
