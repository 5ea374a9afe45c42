package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/sevigo/codelens/internal/match"
	"github.com/sevigo/codelens/internal/rules"
	"github.com/sevigo/codelens/internal/scan"
	"github.com/sevigo/codelens/internal/summary"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	pathColor    = color.New(color.FgWhite, color.Bold)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgBlue)
	hintColor    = color.New(color.FgHiBlack)
)

func severityColor(s rules.Severity) *color.Color {
	switch s {
	case rules.Error:
		return errorColor
	case rules.Warning:
		return warningColor
	case rules.Info:
		return infoColor
	default:
		return hintColor
	}
}

func printSummary(sum *summary.StructuralSummary) {
	titleColor.Println("Structural Summary")
	for _, f := range sum.Files {
		fmt.Printf("  %s (%s): %s\n", pathColor.Sprint(f.Path), f.ChangeKind, f.OneLine)
	}
	fmt.Printf("  pattern: %s, scope: %s\n\n", sum.Aggregate.ChangePattern, sum.Aggregate.ChangeScope)
}

func printFindings(result *scan.Result) {
	if len(result.Findings) == 0 {
		successColor.Println("No findings.")
		return
	}

	titleColor.Printf("Findings (%d)\n", len(result.Findings))
	for _, f := range result.Findings {
		sev := severityColor(f.Severity).Sprintf("%-7s", f.Severity)
		fmt.Printf("  %s %s:%d:%d %s\n", sev, pathColor.Sprint(f.FilePath), f.Line, f.Column, f.RuleID)
		if f.MatchedText != "" {
			fmt.Printf("          %s\n", f.MatchedText)
		}
	}
	if result.Truncated {
		warningColor.Println("  (result truncated at the configured max issues)")
	}
	fmt.Println()

	for _, d := range result.Diagnostics {
		hintColor.Printf("  diagnostic: %s %s %s\n", d.Path, d.RuleID, d.Msg)
	}
}

func printStats(stats scan.Stats) {
	fmt.Printf("scanned %d/%d files (%d cache hits) in %s\n",
		stats.Scanned, stats.TotalFiles, stats.CacheHits, stats.Duration.Round(time.Millisecond))
	for sev, n := range stats.BySeverity {
		fmt.Printf("  %s: %d\n", sev, n)
	}
}

// countAtOrAbove counts findings whose severity ranks at or above floor.
func countAtOrAbove(findings []match.Finding, floor rules.Severity) int {
	n := 0
	for _, f := range findings {
		if f.Severity.Rank() >= floor.Rank() {
			n++
		}
	}
	return n
}

// checkThreshold returns errFindingsAboveThreshold when failOn names a
// severity and the result carries findings at or above it.
func checkThreshold(result *scan.Result, failOn string) error {
	if failOn == "" {
		return nil
	}
	floor, ok := rules.ParseSeverity(failOn)
	if !ok {
		return fmt.Errorf("%w: unknown severity %q for --fail-on (want error, warning, info, or hint)", errUsage, failOn)
	}
	if countAtOrAbove(result.Findings, floor) > 0 {
		return errFindingsAboveThreshold
	}
	return nil
}
