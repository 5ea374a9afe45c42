package rulesource

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"

	"github.com/sevigo/codelens/internal/cerr"
)

// checksumFiles computes a single sha256 digest over the canonical payload
// of dir: every file in files (already relative, sorted for determinism),
// each contributing its path and content to the hash so a rename-only
// change also changes the checksum.
func checksumFiles(dir string, files []string) (string, error) {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	h := sha256.New()
	for _, rel := range sorted {
		data, err := os.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			return "", cerr.New(cerr.IOFailed, "rulesource.checksumFiles", err)
		}
		h.Write([]byte(rel))
		h.Write([]byte{0})
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
