package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port int `env:"CHESSTACTOE_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("CHESSTACTOE_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

type loadTestConfig struct {
	Addr    string        `env:"CHESSTACTOE_TEST_ADDR" envDefault:":1" toml:"addr"`
	Store   string        `env:"CHESSTACTOE_TEST_STORE" envDefault:"memory" toml:"store"`
	Timeout time.Duration `env:"CHESSTACTOE_TEST_TIMEOUT" envDefault:"2s" toml:"timeout"`
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsOnly(t *testing.T) {
	var cfg loadTestConfig
	if _, err := Load("", &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":1" || cfg.Store != "memory" || cfg.Timeout != 2*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "addr = \":2\"\ntimeout = \"5s\"\n")
	var cfg loadTestConfig
	meta, err := Load(path, &cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":2" || cfg.Timeout != 5*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Store != "memory" {
		t.Fatalf("store = %q, want default", cfg.Store)
	}
	if !meta.IsDefined("addr") || meta.IsDefined("store") {
		t.Fatal("unexpected defined keys")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "addr = \":2\"\nstore = \"bbolt\"\n")
	t.Setenv("CHESSTACTOE_TEST_ADDR", ":3")
	var cfg loadTestConfig
	if _, err := Load(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":3" {
		t.Fatalf("addr = %q, want env value", cfg.Addr)
	}
	if cfg.Store != "bbolt" {
		t.Fatalf("store = %q, want file value", cfg.Store)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "adr = \":2\"\n")
	var cfg loadTestConfig
	if _, err := Load(path, &cfg); err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Fatalf("error = %v, want unknown key", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg loadTestConfig
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}
