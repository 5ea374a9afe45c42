// Package scancache is the persistent scan-result cache: a two-tier
// (in-memory plus on-disk) content-hash-keyed store of per-file findings,
// validated against the filesystem state and an expiry window on every
// read.
package scancache

import (
	"time"

	"github.com/sevigo/codelens/internal/match"
)

// Entry is one cached file's scan results, self-describing enough to
// detect staleness without re-scanning.
type Entry struct {
	FilePath  string          `json:"file_path"`
	FileHash  string          `json:"file_hash"`
	Findings  []match.Finding `json:"findings"`
	CreatedAt time.Time       `json:"created_at"`
	FileSize  int64           `json:"file_size"`
	ModTime   time.Time       `json:"mod_time"`
}

// isExpired reports whether e is older than maxAge.
func (e *Entry) isExpired(maxAge time.Duration) bool {
	return time.Since(e.CreatedAt) > maxAge
}

// cacheKey is sanitize(path) + ":" + hash, matching the original's
// cache_key() (slashes become underscores so the key is a safe filename).
func cacheKey(path, hash string) string {
	return sanitizePath(path) + ":" + hash
}

func sanitizePath(path string) string {
	out := make([]byte, len(path))
	for i := 0; i < len(path); i++ {
		if path[i] == '/' || path[i] == '\\' {
			out[i] = '_'
		} else {
			out[i] = path[i]
		}
	}
	return string(out)
}
