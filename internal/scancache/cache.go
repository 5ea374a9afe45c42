package scancache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sevigo/codelens/internal/cerr"
	"github.com/sevigo/codelens/internal/match"
)

// DefaultMaxMemoryEntries mirrors the original's memory_cache ceiling.
const DefaultMaxMemoryEntries = 500

// DefaultExpiry mirrors the original's default_expiry_hours.
const DefaultExpiry = 24 * time.Hour

// Stats summarises cache composition and hit behaviour since construction.
type Stats struct {
	Total   int
	Expired int
	Valid   int
	Hits    int64
	Misses  int64
}

// HitRatio returns Hits / (Hits + Misses), or 0 with no lookups yet.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is the two-tier scan-result cache: an in-memory map bounded at
// maxMemoryEntries, backed by one JSON document per entry under dir.
type Cache struct {
	dir              string
	maxMemoryEntries int
	expiry           time.Duration

	mu     sync.Mutex
	memory map[string]*Entry
	hits   int64
	misses int64
}

// New creates a Cache rooted at dir, creating it if necessary.
func New(dir string, maxMemoryEntries int, expiry time.Duration) (*Cache, error) {
	if maxMemoryEntries <= 0 {
		maxMemoryEntries = DefaultMaxMemoryEntries
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, cerr.New(cerr.IOFailed, "scancache.New", fmt.Errorf("create cache dir %s: %w", dir, err))
	}
	return &Cache{
		dir:              dir,
		maxMemoryEntries: maxMemoryEntries,
		expiry:           expiry,
		memory:           make(map[string]*Entry),
	}, nil
}

// Get returns the cached findings for (path, hash) if present, unexpired,
// and still valid for the file's current size. A pure mtime drift with a
// matching hash and size is treated as a hit whose stale ModTime is
// repaired in place (scenario S3).
func (c *Cache) Get(path, hash string, currentSize int64, currentModTime time.Time) (*Entry, bool) {
	key := cacheKey(path, hash)

	c.mu.Lock()
	entry, ok := c.memory[key]
	c.mu.Unlock()

	if !ok {
		var err error
		entry, err = c.readDisk(key)
		if err != nil || entry == nil {
			c.recordMiss()
			return nil, false
		}
		c.mu.Lock()
		c.memory[key] = entry
		c.mu.Unlock()
	}

	if entry.isExpired(c.expiry) {
		c.invalidate(key)
		c.recordMiss()
		return nil, false
	}
	if entry.FileSize != currentSize {
		c.invalidate(key)
		c.recordMiss()
		return nil, false
	}
	if !entry.ModTime.Equal(currentModTime) {
		entry.ModTime = currentModTime
		c.writeDisk(key, entry)
	}

	c.recordHit()
	return entry, true
}

// Put writes findings through to disk and inserts into the memory tier,
// evicting the oldest ~10% by CreatedAt if the tier is full.
func (c *Cache) Put(path, hash string, findings []match.Finding, fileSize int64, modTime time.Time) error {
	return c.putAt(path, hash, findings, fileSize, modTime, time.Now())
}

// putAt is Put with an explicit creation timestamp, used internally and by
// tests that need deterministic CreatedAt values.
func (c *Cache) putAt(path, hash string, findings []match.Finding, fileSize int64, modTime, createdAt time.Time) error {
	entry := &Entry{
		FilePath:  path,
		FileHash:  hash,
		Findings:  findings,
		CreatedAt: createdAt,
		FileSize:  fileSize,
		ModTime:   modTime,
	}
	key := cacheKey(path, hash)

	c.mu.Lock()
	if len(c.memory) >= c.maxMemoryEntries {
		c.evictOldestLocked(c.maxMemoryEntries / 10)
	}
	c.memory[key] = entry
	c.mu.Unlock()

	return c.writeDisk(key, entry)
}

func (c *Cache) evictOldestLocked(n int) {
	if n <= 0 {
		n = 1
	}
	type kv struct {
		key     string
		created time.Time
	}
	all := make([]kv, 0, len(c.memory))
	for k, e := range c.memory {
		all = append(all, kv{k, e.CreatedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].created.Before(all[j].created) })
	for i := 0; i < n && i < len(all); i++ {
		delete(c.memory, all[i].key)
	}
}

// CleanupExpired removes expired entries from both tiers and returns the
// count removed.
func (c *Cache) CleanupExpired() (int, error) {
	c.mu.Lock()
	var expiredKeys []string
	for k, e := range c.memory {
		if e.isExpired(c.expiry) {
			expiredKeys = append(expiredKeys, k)
		}
	}
	for _, k := range expiredKeys {
		delete(c.memory, k)
	}
	c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return len(expiredKeys), cerr.New(cerr.IOFailed, "scancache.CleanupExpired", err)
	}
	count := len(expiredKeys)
	seen := map[string]bool{}
	for _, k := range expiredKeys {
		seen[k] = true
	}
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		key := keyFromFilename(de.Name())
		if seen[key] {
			os.Remove(filepath.Join(c.dir, de.Name()))
			continue
		}
		entry, err := c.readDiskFile(filepath.Join(c.dir, de.Name()))
		if err != nil || entry == nil {
			os.Remove(filepath.Join(c.dir, de.Name()))
			count++
			continue
		}
		if entry.isExpired(c.expiry) {
			os.Remove(filepath.Join(c.dir, de.Name()))
			count++
		}
	}
	return count, nil
}

// Stats reports current cache composition plus lifetime hit/miss counts.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{Hits: c.hits, Misses: c.misses}
	for _, e := range c.memory {
		s.Total++
		if e.isExpired(c.expiry) {
			s.Expired++
		} else {
			s.Valid++
		}
	}
	return s
}

func (c *Cache) invalidate(key string) {
	c.mu.Lock()
	delete(c.memory, key)
	c.mu.Unlock()
	os.Remove(c.diskPath(key))
}

func (c *Cache) recordHit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *Cache) recordMiss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

func (c *Cache) diskPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *Cache) writeDisk(key string, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return cerr.New(cerr.InternalInvariant, "scancache.writeDisk", err)
	}
	tmp := c.diskPath(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return cerr.New(cerr.IOFailed, "scancache.writeDisk", err)
	}
	if err := os.Rename(tmp, c.diskPath(key)); err != nil {
		return cerr.New(cerr.IOFailed, "scancache.writeDisk", err)
	}
	return nil
}

func (c *Cache) readDisk(key string) (*Entry, error) {
	return c.readDiskFile(c.diskPath(key))
}

// readDiskFile loads an entry, silently discarding (deleting) it if it is
// corrupt or missing required fields, per the self-healing contract.
func (c *Cache) readDiskFile(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		os.Remove(path)
		return nil, nil
	}
	if entry.FilePath == "" || entry.FileHash == "" {
		os.Remove(path)
		return nil, nil
	}
	return &entry, nil
}

func keyFromFilename(name string) string {
	const suffix = ".json"
	if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
		return name[:len(name)-len(suffix)]
	}
	return name
}
