package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/docdex/docdex/pkg/cache"
	"github.com/docdex/docdex/pkg/sources"
)

// duration lets TOML values like "24h" decode into a time.Duration.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// config holds the settings of the optional configuration file.
type config struct {
	Cache struct {
		Backend string   `toml:"backend"` // file | redis | none
		Dir     string   `toml:"dir"`
		TTL     duration `toml:"ttl"`
		Redis   struct {
			Addr string `toml:"addr"`
		} `toml:"redis"`
	} `toml:"cache"`
	Resolver struct {
		UserCatalog    string `toml:"user_catalog"`
		PyPIMaxEntries int    `toml:"pypi_max_entries"`
		KeepGoing      bool   `toml:"keep_going"`
	} `toml:"resolver"`
}

func defaultConfig() *config {
	cfg := &config{}
	cfg.Cache.Backend = "file"
	cfg.Cache.TTL = duration(24 * time.Hour)
	cfg.Cache.Redis.Addr = "localhost:6379"
	cfg.Resolver.UserCatalog = defaultUserCatalogPath()
	return cfg
}

func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "docdex")
}

func defaultConfigPath() string {
	return filepath.Join(configDir(), "config.toml")
}

func defaultUserCatalogPath() string {
	return filepath.Join(configDir(), "catalog.json")
}

// loadConfig reads a TOML configuration file over the defaults. An
// empty path means the default location; a missing file at the default
// location is not an error, while an explicitly named missing file is.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// openCache creates the cache backend the configuration names.
func (c *config) openCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case "", "file":
		return cache.NewFileCache(c.Cache.Dir)
	case "redis":
		return cache.NewRedisCache(ctx, c.Cache.Redis.Addr)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
}

// newClient builds an HTTP client over the configured cache backend.
func (c *config) newClient(ctx context.Context, prefix string) (*sources.Client, cache.Cache, error) {
	backend, err := c.openCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	return sources.NewClient(backend, prefix, time.Duration(c.Cache.TTL), nil), backend, nil
}
