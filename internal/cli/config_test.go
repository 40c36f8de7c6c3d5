package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
[cache]
backend = "none"
ttl = "2h"

[resolver]
user_catalog = "/tmp/cat.json"
pypi_max_entries = 5
keep_going = true
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("backend = %q", cfg.Cache.Backend)
	}
	if time.Duration(cfg.Cache.TTL) != 2*time.Hour {
		t.Errorf("ttl = %v", time.Duration(cfg.Cache.TTL))
	}
	if cfg.Resolver.UserCatalog != "/tmp/cat.json" || cfg.Resolver.PyPIMaxEntries != 5 || !cfg.Resolver.KeepGoing {
		t.Errorf("resolver config = %+v", cfg.Resolver)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("explicitly named missing config must error")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Cache.Backend != "file" {
		t.Errorf("default backend = %q", cfg.Cache.Backend)
	}
	if time.Duration(cfg.Cache.TTL) != 24*time.Hour {
		t.Errorf("default ttl = %v", time.Duration(cfg.Cache.TTL))
	}
	if cfg.Resolver.UserCatalog == "" {
		t.Error("default user catalog path must be set")
	}
}

func TestOpenCacheUnknownBackend(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.Backend = "bogus"
	if _, err := cfg.openCache(context.Background()); err == nil {
		t.Fatal("unknown backend must error")
	}
}

func TestOpenCacheNone(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.Backend = "none"
	backend, err := cfg.openCache(context.Background())
	if err != nil {
		t.Fatalf("openCache: %v", err)
	}
	defer backend.Close()
	if _, ok, _ := backend.Get(context.Background(), "k"); ok {
		t.Error("null backend must never hit")
	}
}
