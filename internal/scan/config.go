// Package scan orchestrates a scan: walking a file tree or explicit file
// list, dispatching (file, ruleset) units to a bounded worker pool,
// consulting and populating the scan cache, and aggregating Findings and
// Stats.
package scan

import (
	"time"

	"github.com/sevigo/codelens/internal/lang"
)

// builtinExcludeDirs is always applied; callers add to it via
// Config.ExcludeDirs, never replace it.
var builtinExcludeDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"target":       true,
	"build":        true,
	"dist":         true,
	"vendor":       true,
}

// Config parameterises one Scan call.
type Config struct {
	// Root is walked recursively when Files is empty.
	Root string
	// Files, when non-empty, is used verbatim instead of walking Root.
	Files []string
	// IncludeGlobs and ExcludeGlobs are doublestar patterns (relative to
	// Root) layered on top of the built-in exclude list.
	IncludeGlobs []string
	ExcludeGlobs []string
	// ExcludeDirs supplements (never replaces) the built-in exclude list.
	ExcludeDirs []string
	// Languages restricts the scan to these tags; empty means all
	// languages with rules in the catalog.
	Languages []lang.Tag
	// MaxIssues bounds the number of findings collected before the scan
	// truncates; 0 means unlimited.
	MaxIssues int
	// Parallelism bounds concurrent file-processing units; <= 0 uses
	// runtime.GOMAXPROCS(0).
	Parallelism int
}

func (c Config) excludedDirSet() map[string]bool {
	out := make(map[string]bool, len(builtinExcludeDirs)+len(c.ExcludeDirs))
	for k := range builtinExcludeDirs {
		out[k] = true
	}
	for _, d := range c.ExcludeDirs {
		out[d] = true
	}
	return out
}

// Diagnostic captures a non-fatal per-file or per-rule failure that did not
// abort the scan.
type Diagnostic struct {
	Path   string
	RuleID string
	Msg    string
}

// Stats aggregates counts across one Scan call.
type Stats struct {
	TotalFiles int
	Scanned    int
	CacheHits  int
	BySeverity map[string]int
	ByLanguage map[lang.Tag]int
	ByRule     map[string]int
	Duration   time.Duration
}

func newStats() Stats {
	return Stats{
		BySeverity: map[string]int{},
		ByLanguage: map[lang.Tag]int{},
		ByRule:     map[string]int{},
	}
}
