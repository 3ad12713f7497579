package server

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/1mgroot/Tracil-sub000/pkg/cache"
	"github.com/1mgroot/Tracil-sub000/pkg/errors"
	"github.com/1mgroot/Tracil-sub000/pkg/store"
)

// Cache backend names accepted in [cache] backend.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Store backend names accepted in [store] backend.
const (
	StoreBackendMemory = "memory"
	StoreBackendMongo  = "mongo"
)

// Config holds the API server configuration, loadable from a TOML file.
type Config struct {
	// Addr is the listen address (host:port).
	Addr string `toml:"addr"`

	// LogLevel filters server logs: debug, info, warn, or error.
	LogLevel string `toml:"log_level"`

	Upstream UpstreamConfig `toml:"upstream"`
	Cache    CacheConfig    `toml:"cache"`
	Store    StoreConfig    `toml:"store"`
}

// UpstreamConfig configures the lineage inference backend.
type UpstreamConfig struct {
	// URL is the inference service base URL.
	URL string `toml:"url"`

	// Strict fails analyze requests on upstream errors instead of
	// returning a degraded single-node graph.
	Strict bool `toml:"strict"`
}

// CacheConfig configures the pipeline cache backend.
type CacheConfig struct {
	// Backend selects the cache: file, redis, or none.
	Backend string `toml:"backend"`

	// Dir is the file backend directory. Empty means the user cache dir.
	Dir string `toml:"dir"`

	// Redis is the redis backend address (host:port).
	Redis string `toml:"redis"`
}

// StoreConfig configures snapshot persistence.
type StoreConfig struct {
	// Backend selects the store: memory or mongo.
	Backend string `toml:"backend"`

	// MongoURI is the connection string for the mongo backend.
	MongoURI string `toml:"mongo_uri"`

	// Database is the mongo database name. Empty selects the default.
	Database string `toml:"database"`
}

// DefaultConfig returns the configuration used when no file is given:
// local listen address, file cache, in-memory snapshots.
func DefaultConfig() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Upstream: UpstreamConfig{
			URL: "http://localhost:8000",
		},
		Cache: CacheConfig{
			Backend: CacheBackendFile,
		},
		Store: StoreConfig{
			Backend: StoreBackendMemory,
		},
	}
}

// LoadConfig reads a TOML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field values without touching any backend.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "addr must not be empty")
	}
	if err := errors.ValidateURL(c.Upstream.URL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid upstream url")
	}

	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendNone:
	case CacheBackendRedis:
		if c.Cache.Redis == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires a redis address")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend: %q (valid: file, redis, none)", c.Cache.Backend)
	}

	switch c.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store backend mongo requires a mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend: %q (valid: memory, mongo)", c.Store.Backend)
	}
	return nil
}

// NewCache builds the configured cache backend. File cache failures fall
// back to a null cache; the server runs uncached rather than not at all.
func (c Config) NewCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheBackendNone:
		return cache.NewNullCache(), nil
	case CacheBackendRedis:
		return cache.NewRedisCache(ctx, c.Cache.Redis)
	default:
		dir := c.Cache.Dir
		if dir == "" {
			base, err := os.UserCacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = filepath.Join(base, "tracil")
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// NewStore builds the configured snapshot store.
func (c Config) NewStore(ctx context.Context) (store.Store, error) {
	if c.Store.Backend == StoreBackendMongo {
		return store.NewMongoStore(ctx, c.Store.MongoURI, c.Store.Database)
	}
	return store.NewMemoryStore(), nil
}
