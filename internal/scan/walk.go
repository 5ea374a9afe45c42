package scan

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sevigo/codelens/internal/cerr"
)

// enumerate returns the candidate file list for cfg: either cfg.Files
// verbatim, or a walk of cfg.Root honouring the built-in and user exclude
// directories plus the include/exclude globs.
func enumerate(cfg Config) ([]string, error) {
	if len(cfg.Files) > 0 {
		return cfg.Files, nil
	}

	excludedDirs := cfg.excludedDirSet()
	var out []string

	err := filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != cfg.Root && (excludedDirs[name] || isHidden(name)) {
				return filepath.SkipDir
			}
			return nil
		}
		if isHidden(name) {
			return nil
		}

		rel, relErr := filepath.Rel(cfg.Root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if len(cfg.IncludeGlobs) > 0 && !matchesAny(cfg.IncludeGlobs, rel) {
			return nil
		}
		if matchesAny(cfg.ExcludeGlobs, rel) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, cerr.New(cerr.IOFailed, "scan.enumerate", err)
	}
	return out, nil
}

func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
