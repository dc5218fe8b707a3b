// Package cache stores evaluation results on disk, keyed by a deterministic
// fingerprint of the inputs that produced them.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// namespace scopes cache keys so fingerprints from other tools never collide.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/guimove/greendc/cache"))

// Key returns a stable name-based UUID for v. Values that marshal to the
// same JSON share a key.
func Key(kind string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("fingerprinting %s: %w", kind, err)
	}
	return kind + "-" + uuid.NewSHA1(namespace, data).String(), nil
}

// FileCache keeps JSON-encoded entries in a directory. Entries older than
// the TTL are treated as missing.
type FileCache struct {
	dir string
	ttl time.Duration
}

// NewFileCache creates a cache in dir.
func NewFileCache(dir string, ttl time.Duration) *FileCache {
	return &FileCache{dir: dir, ttl: ttl}
}

// Dir returns the cache directory.
func (fc *FileCache) Dir() string { return fc.dir }

// Get loads the entry for key into dest. It reports false on a miss, an
// expired entry, or an unreadable file.
func (fc *FileCache) Get(key string, dest any) bool {
	path := fc.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) > fc.ttl {
		logrus.WithField("key", key).Debug("cache entry expired")
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("discarding corrupt cache entry")
		return false
	}
	return true
}

// Set stores value under key. The file is written to a temporary name and
// renamed so concurrent readers never see a partial entry.
func (fc *FileCache) Set(key string, value any) error {
	if err := os.MkdirAll(fc.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling cache value: %w", err)
	}

	tmp, err := os.CreateTemp(fc.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fc.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("committing cache file: %w", err)
	}
	return nil
}

// Clear removes all cached entries.
func (fc *FileCache) Clear() error {
	entries, err := os.ReadDir(fc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		if err := os.Remove(filepath.Join(fc.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, key+".json")
}
