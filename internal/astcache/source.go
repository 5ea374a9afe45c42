package astcache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sevigo/codelens/internal/lang"
)

// SourceFile is a file's bytes plus the metadata the rest of the engine
// keys off of. ContentHash is a hash of bytes, never of path/mtime, so two
// SourceFiles with identical bytes always produce identical SyntaxTrees.
type SourceFile struct {
	Path        string
	Bytes       []byte
	ContentHash string
	Language    lang.Tag
	ModTime     time.Time
	Size        int64
}

// NewSourceFile builds a SourceFile, computing ContentHash from bytes.
func NewSourceFile(path string, data []byte, tag lang.Tag, modTime time.Time) *SourceFile {
	return &SourceFile{
		Path:        path,
		Bytes:       data,
		ContentHash: HashBytes(data),
		Language:    tag,
		ModTime:     modTime,
		Size:        int64(len(data)),
	}
}

// HashBytes computes the stable content hash used as the cache key for
// both the syntax-tree cache and the scan cache.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
