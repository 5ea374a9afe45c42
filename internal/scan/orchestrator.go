package scan

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/codelens/internal/astcache"
	"github.com/sevigo/codelens/internal/cerr"
	"github.com/sevigo/codelens/internal/lang"
	"github.com/sevigo/codelens/internal/match"
	"github.com/sevigo/codelens/internal/rules"
	"github.com/sevigo/codelens/internal/scancache"
)

// Result is the outcome of one Scan call.
type Result struct {
	Findings    []match.Finding
	Stats       Stats
	Diagnostics []Diagnostic
	Truncated   bool
}

// Orchestrator owns the collaborators a scan needs: the syntax-tree cache,
// the scan-result cache, and the rule catalog.
type Orchestrator struct {
	trees   *astcache.Cache
	results *scancache.Cache
	catalog *rules.Catalog
}

// New builds an Orchestrator. catalog may be swapped between scans by
// constructing a fresh Orchestrator; it is treated as immutable here.
func New(trees *astcache.Cache, results *scancache.Cache, catalog *rules.Catalog) *Orchestrator {
	return &Orchestrator{trees: trees, results: results, catalog: catalog}
}

type scanState struct {
	mu          sync.Mutex
	findings    []match.Finding
	diagnostics []Diagnostic
	stats       Stats
	invalidRule map[string]bool
	truncated   bool
	maxIssues   int
}

// Scan enumerates candidate files, dispatches them to the worker pool, and
// returns an aggregated Result.
func (o *Orchestrator) Scan(ctx context.Context, cfg Config) (*Result, error) {
	start := time.Now()

	if o.catalog == nil || o.catalog.Len() == 0 {
		return nil, cerr.New(cerr.ConfigInvalid, "scan.Scan", fmt.Errorf("rule catalog is empty"))
	}
	if len(cfg.Files) == 0 {
		if info, err := os.Stat(cfg.Root); err != nil || !info.IsDir() {
			return nil, cerr.New(cerr.ConfigInvalid, "scan.Scan", fmt.Errorf("root path %q is not a usable directory", cfg.Root))
		}
	}

	files, err := enumerate(cfg)
	if err != nil {
		return nil, err
	}

	state := &scanState{stats: newStats(), invalidRule: map[string]bool{}, maxIssues: cfg.MaxIssues}
	state.stats.TotalFiles = len(files)

	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for _, path := range files {
		path := path
		if err := gctx.Err(); err != nil {
			break
		}
		if state.isTruncated() {
			break
		}
		g.Go(func() error {
			if state.isTruncated() {
				return nil
			}
			o.processFile(gctx, cfg, path, state)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, cerr.New(cerr.InternalInvariant, "scan.Scan", err)
	}
	if err := ctx.Err(); err != nil {
		// Cancelled work returns the typed error, not partial results.
		return nil, cerr.New(cerr.Cancelled, "scan.Scan", err)
	}

	state.mu.Lock()
	findings := state.findings
	diagnostics := state.diagnostics
	stats := state.stats
	truncated := state.truncated
	state.mu.Unlock()

	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.RuleID < b.RuleID
	})

	stats.Duration = time.Since(start)
	return &Result{Findings: findings, Stats: stats, Diagnostics: diagnostics, Truncated: truncated}, nil
}

func (s *scanState) isTruncated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.truncated
}

func (o *Orchestrator) processFile(ctx context.Context, cfg Config, path string, state *scanState) {
	tag, ok := lang.Detect(path)
	if !ok {
		return
	}
	if len(cfg.Languages) > 0 && !containsTag(cfg.Languages, tag) {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		state.addDiagnostic(Diagnostic{Path: path, Msg: "stat failed: " + err.Error()})
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		state.addDiagnostic(Diagnostic{Path: path, Msg: "read failed: " + err.Error()})
		return
	}

	source := astcache.NewSourceFile(path, data, tag, info.ModTime())

	if entry, ok := o.results.Get(path, source.ContentHash, info.Size(), info.ModTime()); ok {
		state.addFindings(entry.Findings, tag, true)
		return
	}

	ruleset := o.catalog.ForLanguage(tag)
	if len(ruleset) == 0 {
		state.markScanned(tag)
		return
	}

	var tree *astcache.SyntaxTree
	if lang.HasGrammar(tag) {
		tree, err = o.trees.Parse(ctx, source)
		if err != nil {
			state.addDiagnostic(Diagnostic{Path: path, Msg: "parse failed: " + err.Error()})
			return
		}
	}

	var fileFindings []match.Finding
	for _, rule := range ruleset {
		if state.ruleInvalid(rule.ID) {
			continue
		}
		findings, err := match.Match(rule, data, tag, tree)
		if err != nil {
			state.markRuleInvalid(rule.ID)
			state.addDiagnostic(Diagnostic{Path: path, RuleID: rule.ID, Msg: "rule failed: " + err.Error()})
			continue
		}
		for i := range findings {
			findings[i].FilePath = path
		}
		fileFindings = append(fileFindings, findings...)
	}

	if err := o.results.Put(path, source.ContentHash, fileFindings, info.Size(), info.ModTime()); err != nil {
		state.addDiagnostic(Diagnostic{Path: path, Msg: "cache write failed: " + err.Error()})
	}

	state.addFindings(fileFindings, tag, false)
}

func containsTag(tags []lang.Tag, tag lang.Tag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (s *scanState) addDiagnostic(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = append(s.diagnostics, d)
}

func (s *scanState) ruleInvalid(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidRule[id]
}

func (s *scanState) markRuleInvalid(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidRule[id] = true
}

func (s *scanState) markScanned(tag lang.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Scanned++
	s.stats.ByLanguage[tag]++
}

func (s *scanState) addFindings(findings []match.Finding, tag lang.Tag, fromCache bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Scanned++
	s.stats.ByLanguage[tag]++
	if fromCache {
		s.stats.CacheHits++
	}
	for _, f := range findings {
		s.stats.BySeverity[string(f.Severity)]++
		s.stats.ByRule[f.RuleID]++
	}
	s.findings = append(s.findings, findings...)

	if s.maxIssues > 0 && len(s.findings) >= s.maxIssues {
		s.truncated = true
	}
}
