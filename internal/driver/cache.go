package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"mica/internal/project"
)

// Bump when the Payload format changes; stale entries then read as misses.
const cacheSchema uint16 = 1

var cacheTag = project.HashBytes(fmt.Appendf(nil, "asm/%d", cacheSchema))

// cacheKey folds the schema tag into the content digest, so entries
// written under an older payload format are never even opened.
func cacheKey(content project.Digest) project.Digest {
	return project.Combine(content, cacheTag)
}

// Cache stores compiled artifacts on disk, keyed by source content hash.
// A nil *Cache is valid and caches nothing. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is the serialized form of one cached artifact.
type Payload struct {
	Schema   uint16
	Path     string
	Assembly string
}

// OpenCache initializes the cache at the standard per-user location,
// honoring XDG_CACHE_HOME.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "asm", hex.EncodeToString(key[:])+".mp")
}

// Put serializes a payload to a temp file and renames it into place, so
// readers never observe a half-written entry.
func (c *Cache) Put(key project.Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// Gone already if the rename went through.
		_ = os.Remove(f.Name())
	}()
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry is (false, nil), not an error.
func (c *Cache) Get(key project.Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// Drop invalidates the whole cache.
func (c *Cache) Drop() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
