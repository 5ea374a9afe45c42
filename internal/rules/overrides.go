package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	ErrOverridesNotFound = errors.New("rules: override file not found")
	ErrOverridesParsing  = errors.New("rules: override file parsing failed")
)

// Overrides represents the structure of a repository-local .codelens.yml
// file: scan-time adjustments layered on top of the merged Catalog without
// touching the rule sources themselves.
type Overrides struct {
	// DisabledRules are rule ids to skip regardless of catalog priority.
	DisabledRules []string `yaml:"disabled_rules"`
	// ExcludeDirs are additional directory names excluded from the scan
	// walk.
	ExcludeDirs []string `yaml:"exclude_dirs"`
	// ExcludeExts are additional file extensions excluded from the walk.
	// The leading dot is optional.
	ExcludeExts []string `yaml:"exclude_exts"`
	// SeverityFloor, if set, drops findings below this severity from what is
	// reported for this repository.
	SeverityFloor string `yaml:"severity_floor"`
}

// DefaultOverrides returns an Overrides with no adjustments.
func DefaultOverrides() *Overrides {
	return &Overrides{
		DisabledRules: []string{},
		ExcludeDirs:   []string{},
		ExcludeExts:   []string{},
	}
}

// LoadOverrides loads and parses the .codelens.yml file from a repository
// path, if present. A missing file is not an error condition callers need
// to treat specially beyond checking ErrOverridesNotFound; DefaultOverrides
// is always returned alongside it.
func LoadOverrides(repoPath string) (*Overrides, error) {
	path := filepath.Join(repoPath, ".codelens.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultOverrides(), ErrOverridesNotFound
		}
		return nil, fmt.Errorf("rules: read %s: %w", path, err)
	}

	o := DefaultOverrides()
	if err := yaml.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOverridesParsing, err)
	}
	return o, nil
}

// Apply returns the subset of rules not disabled by o.
func (o *Overrides) Apply(in []Rule) []Rule {
	if len(o.DisabledRules) == 0 {
		return in
	}
	disabled := make(map[string]bool, len(o.DisabledRules))
	for _, id := range o.DisabledRules {
		disabled[id] = true
	}
	out := make([]Rule, 0, len(in))
	for _, r := range in {
		if disabled[r.ID] {
			continue
		}
		out = append(out, r)
	}
	return out
}
