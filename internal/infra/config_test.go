package infra

import (
	"os"
	"strings"
	"testing"
	"time"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetEnv(t, "APP_ENV", "PORT", "LEDGER_DRIVER", "HTTP_READ_TIMEOUT", "RATE_LIMIT_PER_MINUTE", "CORS_ALLOWED_ORIGINS", "DB_MAX_CONNS")
	t.Setenv("DATABASE_URL", "postgres://example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.AppEnv != "development" {
		t.Fatalf("unexpected defaults: port=%q env=%q", cfg.Port, cfg.AppEnv)
	}
	if cfg.LedgerDriver != LedgerPostgres {
		t.Fatalf("LedgerDriver = %q, want %q", cfg.LedgerDriver, LedgerPostgres)
	}
	if cfg.HTTPReadTimeout != 15*time.Second {
		t.Fatalf("HTTPReadTimeout = %s, want 15s", cfg.HTTPReadTimeout)
	}
	if cfg.RateLimitPerMin != 30 || cfg.DBMaxConns != 10 {
		t.Fatalf("unexpected limits: rate=%d conns=%d", cfg.RateLimitPerMin, cfg.DBMaxConns)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigRequiresDatabaseURLForPostgres(t *testing.T) {
	unsetEnv(t, "DATABASE_URL")
	t.Setenv("LEDGER_DRIVER", "postgres")

	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("LoadConfig error = %v, want DATABASE_URL error", err)
	}
}

func TestLoadConfigSQLiteDoesNotNeedDatabaseURL(t *testing.T) {
	unsetEnv(t, "DATABASE_URL")
	t.Setenv("LEDGER_DRIVER", " SQLite ")
	t.Setenv("SQLITE_PATH", "/tmp/ledger.db")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.LedgerDriver != LedgerSQLite || cfg.SQLitePath != "/tmp/ledger.db" {
		t.Fatalf("unexpected ledger config: %q %q", cfg.LedgerDriver, cfg.SQLitePath)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("LEDGER_DRIVER", "mongo")
	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "LEDGER_DRIVER") {
		t.Fatalf("LoadConfig error = %v, want LEDGER_DRIVER error", err)
	}
}

func TestLoadConfigParsesOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("LEDGER_DRIVER", "postgres")
	t.Setenv("HTTP_WRITE_TIMEOUT", "45s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://alumni.example.edu, ,http://localhost:5173 ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.HTTPWriteTimeout != 45*time.Second || cfg.RateLimitPerMin != 5 {
		t.Fatalf("overrides not applied: write=%s rate=%d", cfg.HTTPWriteTimeout, cfg.RateLimitPerMin)
	}
	expected := []string{"https://alumni.example.edu", "http://localhost:5173"}
	if len(cfg.CORSAllowedOrigins) != len(expected) {
		t.Fatalf("CORSAllowedOrigins mismatch: got %#v want %#v", cfg.CORSAllowedOrigins, expected)
	}
	for i, origin := range expected {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], origin)
		}
	}
}

func TestLoadConfigRejectsMalformedDuration(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("HTTP_IDLE_TIMEOUT", "soon")
	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Fatalf("LoadConfig error = %v, want parse env error", err)
	}
}
