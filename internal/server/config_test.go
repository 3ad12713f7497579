package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/1mgroot/Tracil-sub000/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
	if cfg.Addr == "" {
		t.Error("Addr should have a default")
	}
	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("Cache backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Store.Backend != StoreBackendMemory {
		t.Errorf("Store backend = %q, want memory", cfg.Store.Backend)
	}
}

func TestLoadConfig(t *testing.T) {
	content := `
addr = ":9090"
log_level = "debug"

[upstream]
url = "http://inference:8000"
strict = true

[cache]
backend = "none"

[store]
backend = "memory"
`
	path := filepath.Join(t.TempDir(), "tracil.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Upstream.URL != "http://inference:8000" || !cfg.Upstream.Strict {
		t.Errorf("Upstream = %+v", cfg.Upstream)
	}
	if cfg.Cache.Backend != CacheBackendNone {
		t.Errorf("Cache backend = %q, want none", cfg.Cache.Backend)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracil.toml")
	if err := os.WriteFile(path, []byte(`addr = ":7070"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", cfg.Addr)
	}
	if cfg.Upstream.URL != DefaultConfig().Upstream.URL {
		t.Errorf("Upstream URL should keep its default, got %q", cfg.Upstream.URL)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("Missing file should fail")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Error code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Empty path should return defaults: %v", err)
	}
	if cfg.Addr != DefaultConfig().Addr {
		t.Errorf("Addr = %q, want default", cfg.Addr)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"bad upstream url", func(c *Config) { c.Upstream.URL = "inference:8000" }},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without address", func(c *Config) { c.Cache.Backend = CacheBackendRedis }},
		{"unknown store backend", func(c *Config) { c.Store.Backend = "postgres" }},
		{"mongo without uri", func(c *Config) { c.Store.Backend = StoreBackendMongo }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should fail")
			} else if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Error code = %v, want INVALID_CONFIG", errors.GetCode(err))
			}
		})
	}
}

func TestConfigNewCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Backend = CacheBackendNone
	c, err := cfg.NewCache(context.Background())
	if err != nil {
		t.Fatalf("NewCache(none) failed: %v", err)
	}
	defer c.Close()

	cfg.Cache.Backend = CacheBackendFile
	cfg.Cache.Dir = t.TempDir()
	fc, err := cfg.NewCache(context.Background())
	if err != nil {
		t.Fatalf("NewCache(file) failed: %v", err)
	}
	defer fc.Close()

	if err := fc.Set(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	data, hit, err := fc.Get(context.Background(), "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
}
