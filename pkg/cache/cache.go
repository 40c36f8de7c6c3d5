// Package cache provides byte-oriented caching for HTTP lookups.
//
// Source fetchers hit external services (PyPI, readthedocs.org) whose
// answers change rarely; caching their responses keeps repeated catalog
// updates fast and polite. Three backends implement the same interface:
//
//   - FileCache: per-user directory cache for normal CLI usage
//   - RedisCache: shared cache for CI farms running many batch updates
//   - NullCache: no-op backend for tests and --refresh style bypasses
//
// Entries carry a TTL; a TTL of zero means the entry never expires.
// Backends are used sequentially by a single batch run and make no
// goroutine-safety promises beyond what their storage gives them.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit;
	// an expired or missing entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given time-to-live.
	// A ttl of zero stores the value without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// DefaultDir returns the default on-disk cache directory,
// ~/.cache/docdex on most systems.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "docdex"), nil
}
