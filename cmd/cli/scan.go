package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevigo/codelens/internal/lang"
	"github.com/sevigo/codelens/internal/match"
	"github.com/sevigo/codelens/internal/rules"
	"github.com/sevigo/codelens/internal/scan"
)

var (
	scanIncludeGlobs []string
	scanExcludeGlobs []string
	scanLanguages    []string
	scanMaxIssues    int
	scanFailOn       string
	scanShowStats    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a directory tree against the installed rule packs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringArrayVar(&scanIncludeGlobs, "include", nil, "include glob, relative to the root (repeatable)")
	scanCmd.Flags().StringArrayVar(&scanExcludeGlobs, "exclude", nil, "exclude glob, relative to the root (repeatable)")
	scanCmd.Flags().StringArrayVar(&scanLanguages, "lang", nil, "restrict the scan to these languages (repeatable)")
	scanCmd.Flags().IntVar(&scanMaxIssues, "max-issues", 0, "stop after this many findings (0 = unlimited)")
	scanCmd.Flags().StringVar(&scanFailOn, "fail-on", "", "exit 1 when findings at or above this severity exist")
	scanCmd.Flags().BoolVar(&scanShowStats, "stats", false, "print scan statistics")
}

func runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	// Repository-local .codelens.yml adjustments layer on top of the global
	// configuration; a repo without one scans with the defaults.
	overrides, err := rules.LoadOverrides(root)
	if err != nil && !errors.Is(err, rules.ErrOverridesNotFound) {
		return err
	}

	excludeGlobs := append(app.cfg.Scan.ExcludeGlobs, scanExcludeGlobs...)
	for _, ext := range overrides.ExcludeExts {
		excludeGlobs = append(excludeGlobs, "**/*."+strings.TrimPrefix(ext, "."))
	}

	cfg := scan.Config{
		Root:         root,
		IncludeGlobs: append(app.cfg.Scan.IncludeGlobs, scanIncludeGlobs...),
		ExcludeGlobs: excludeGlobs,
		ExcludeDirs:  append(app.cfg.Scan.ExcludeDirs, overrides.ExcludeDirs...),
		MaxIssues:    scanMaxIssues,
		Parallelism:  app.cfg.Scan.Parallelism,
	}
	if cfg.MaxIssues == 0 {
		cfg.MaxIssues = app.cfg.Scan.MaxIssues
	}
	for _, l := range scanLanguages {
		cfg.Languages = append(cfg.Languages, lang.Tag(l))
	}

	result, err := app.engine.Scan(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	result.Findings = applyOverrides(result.Findings, overrides)

	printFindings(result)
	if scanShowStats {
		printStats(result.Stats)
	}
	return checkThreshold(result, scanFailOn)
}

// applyOverrides drops findings for rules the repository disabled and, when
// a severity floor is configured, findings below it.
func applyOverrides(findings []match.Finding, o *rules.Overrides) []match.Finding {
	if len(o.DisabledRules) == 0 && o.SeverityFloor == "" {
		return findings
	}
	disabled := make(map[string]bool, len(o.DisabledRules))
	for _, id := range o.DisabledRules {
		disabled[id] = true
	}
	floor, hasFloor := rules.ParseSeverity(o.SeverityFloor)

	out := findings[:0]
	for _, f := range findings {
		if disabled[f.RuleID] {
			continue
		}
		if hasFloor && f.Severity.Rank() < floor.Rank() {
			continue
		}
		out = append(out, f)
	}
	return out
}
