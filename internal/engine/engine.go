// Package engine is the public façade over the analysis core: diff
// analysis, scanning, rule-source updates, and prompt assembly. An Engine
// is constructed explicitly from configuration and collaborator
// dependencies; there is no package-level state, so multiple engines can
// coexist in one process.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sevigo/codelens/internal/astcache"
	"github.com/sevigo/codelens/internal/cerr"
	"github.com/sevigo/codelens/internal/collab"
	"github.com/sevigo/codelens/internal/config"
	"github.com/sevigo/codelens/internal/diffmap"
	"github.com/sevigo/codelens/internal/diffmodel"
	"github.com/sevigo/codelens/internal/history"
	"github.com/sevigo/codelens/internal/lang"
	"github.com/sevigo/codelens/internal/prompt"
	"github.com/sevigo/codelens/internal/rules"
	"github.com/sevigo/codelens/internal/rulesource"
	"github.com/sevigo/codelens/internal/scan"
	"github.com/sevigo/codelens/internal/scancache"
	"github.com/sevigo/codelens/internal/summary"
)

// Dependencies bundles the external collaborators an Engine may use. Every
// field is optional: a nil Fetcher disables url rule sources, a nil Cloner
// disables git rule sources, a nil History disables the audit trail.
type Dependencies struct {
	Fetcher collab.NetworkFetcher
	Cloner  rulesource.GitCloner
	History history.Store
}

// Engine is the stable entry point external collaborators drive. All
// methods are safe for concurrent use and honour context cancellation.
type Engine struct {
	cfg       *config.Config
	logger    *slog.Logger
	trees     *astcache.Cache
	results   *scancache.Cache
	sources   *rulesource.Manager
	assembler *prompt.Assembler
	history   history.Store

	mu      sync.RWMutex
	catalog *rules.Catalog
}

// New builds an Engine from validated configuration.
func New(cfg *config.Config, logger *slog.Logger, deps Dependencies) (*Engine, error) {
	if cfg == nil {
		return nil, cerr.New(cerr.ConfigInvalid, "engine.New", fmt.Errorf("nil configuration"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, cerr.New(cerr.ConfigInvalid, "engine.New", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	results, err := scancache.New(
		filepath.Join(cfg.Storage.CacheRoot, "scan-cache"),
		cfg.Scan.MaxMemoryCache,
		time.Duration(cfg.Scan.CacheTTLHours)*time.Hour,
	)
	if err != nil {
		return nil, err
	}

	sources, err := rulesource.New(cfg.Storage.RulesRoot, deps.Fetcher, deps.Cloner)
	if err != nil {
		return nil, err
	}

	assembler, err := prompt.NewAssembler()
	if err != nil {
		return nil, cerr.New(cerr.InternalInvariant, "engine.New", err)
	}

	return &Engine{
		cfg:       cfg,
		logger:    logger,
		trees:     astcache.New(cfg.Scan.TreeCacheSize),
		results:   results,
		sources:   sources,
		assembler: assembler,
		history:   deps.History,
	}, nil
}

// AnalyzeDiff parses diffText, maps every changed file onto its syntax
// tree, and returns the parsed diff plus the structural summary. root is
// the working tree the post-image files are read from; a file that cannot
// be read (or has no grammar) still appears in the summary, just with no
// affected nodes. Deleted files are analysed against a pre-image
// reconstructed from the hunks themselves, so no pre-image checkout is
// needed.
func (e *Engine) AnalyzeDiff(ctx context.Context, root string, diffText []byte) (*diffmodel.GitDiff, *summary.StructuralSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, cerr.New(cerr.Cancelled, "engine.AnalyzeDiff", err)
	}

	diff, err := diffmodel.Parse(diffText)
	if err != nil {
		return nil, nil, cerr.New(cerr.ParseFailed, "engine.AnalyzeDiff", err)
	}

	inputs := make([]summary.FileInput, 0, len(diff.Files))
	for _, cf := range diff.Files {
		if err := ctx.Err(); err != nil {
			return nil, nil, cerr.New(cerr.Cancelled, "engine.AnalyzeDiff", err)
		}

		in := summary.FileInput{Path: cf.Key(), ChangeKind: cf.ChangeKind}
		tag, ok := lang.Detect(cf.Key())
		if ok {
			in.Language = tag
			in.Nodes = e.affectedNodes(ctx, root, cf, tag)
		}
		inputs = append(inputs, in)
	}

	sum := summary.Summarize(inputs)
	return diff, &sum, nil
}

func (e *Engine) affectedNodes(ctx context.Context, root string, cf diffmodel.ChangedFile, tag lang.Tag) []diffmap.AffectedNode {
	meta, ok := lang.Get(tag)
	if !ok || !lang.HasGrammar(tag) || cf.Binary {
		return nil
	}

	var data []byte
	var modTime time.Time
	if cf.ChangeKind == diffmodel.Deleted {
		data = preImageOf(cf)
	} else {
		path := filepath.Join(root, cf.Key())
		info, err := os.Stat(path)
		if err != nil {
			e.logger.Debug("diff analysis skipping unreadable file", "path", path, "error", err)
			return nil
		}
		data, err = os.ReadFile(path)
		if err != nil {
			e.logger.Debug("diff analysis skipping unreadable file", "path", path, "error", err)
			return nil
		}
		modTime = info.ModTime()
	}
	if len(data) == 0 {
		return nil
	}

	source := astcache.NewSourceFile(cf.Key(), data, tag, modTime)
	tree, err := e.trees.Parse(ctx, source)
	if err != nil {
		e.logger.Debug("diff analysis parse failed", "path", cf.Key(), "error", err)
		return nil
	}
	return diffmap.Map(cf, tree, meta)
}

// preImageOf reconstructs a deleted file's content from its hunks: every
// context and deletion line, in order. A pure deletion's hunks carry the
// complete pre-image, so this is lossless for the Deleted case.
func preImageOf(cf diffmodel.ChangedFile) []byte {
	var b strings.Builder
	for _, h := range cf.Hunks {
		for _, l := range h.Lines {
			if l.Kind == diffmodel.Addition {
				continue
			}
			b.WriteString(l.Content)
			if !l.NoNewlineAtEOF {
				b.WriteByte('\n')
			}
		}
	}
	return []byte(b.String())
}

// Scan runs the orchestrator over cfg with the current rule catalog,
// recording the run to the history store when one is wired in.
func (e *Engine) Scan(ctx context.Context, cfg scan.Config) (*scan.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, cerr.New(cerr.Cancelled, "engine.Scan", err)
	}

	catalog, err := e.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := scan.New(e.trees, e.results, catalog).Scan(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if e.history != nil {
		e.recordRun(ctx, cfg, result, started)
	}
	return result, nil
}

// ScanFiles scans an explicit file list instead of walking a root.
func (e *Engine) ScanFiles(ctx context.Context, files []string, cfg scan.Config) (*scan.Result, error) {
	cfg.Files = files
	return e.Scan(ctx, cfg)
}

func (e *Engine) recordRun(ctx context.Context, cfg scan.Config, result *scan.Result, started time.Time) {
	run := &history.ScanRun{
		Root:         cfg.Root,
		StartedAt:    started,
		FinishedAt:   started.Add(result.Stats.Duration),
		TotalFiles:   result.Stats.TotalFiles,
		ScannedFiles: result.Stats.Scanned,
		CacheHits:    result.Stats.CacheHits,
		FindingCount: len(result.Findings),
		Truncated:    result.Truncated,
	}
	findings := make([]history.FindingRecord, 0, len(result.Findings))
	for _, f := range result.Findings {
		findings = append(findings, history.FindingRecord{
			RuleID:   f.RuleID,
			Severity: string(f.Severity),
			FilePath: f.FilePath,
			Line:     f.Line,
			Column:   f.Column,
		})
	}
	if err := e.history.SaveRun(ctx, run, findings); err != nil {
		e.logger.Warn("failed to record scan run", "error", err)
	}
}

// UpdateRules updates the named rule source through the rule-source
// manager and invalidates the in-memory catalog so the next scan reloads.
func (e *Engine) UpdateRules(ctx context.Context, sourceName string, args rulesource.UpdateArgs) (rulesource.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return rulesource.Metadata{}, cerr.New(cerr.Cancelled, "engine.UpdateRules", err)
	}

	meta, err := e.sources.Update(ctx, sourceName, args)
	if err != nil {
		return rulesource.Metadata{}, err
	}

	e.mu.Lock()
	e.catalog = nil
	e.mu.Unlock()
	return meta, nil
}

// CheckRuleUpdates checks the named source (or, with an empty name, every
// enabled source) for remote updates.
func (e *Engine) CheckRuleUpdates(ctx context.Context, sourceName string) ([]rulesource.UpdateInfo, error) {
	return e.sources.CheckUpdates(ctx, sourceName)
}

// RuleSources exposes the rule-source manager for source administration
// (list/add/remove, backups, disk usage).
func (e *Engine) RuleSources() *rulesource.Manager {
	return e.sources
}

// AssemblePrompt composes the prompt bundle from in. Deterministic, no
// network.
func (e *Engine) AssemblePrompt(ctx context.Context, in prompt.Inputs) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", cerr.New(cerr.Cancelled, "engine.AssemblePrompt", err)
	}
	return e.assembler.Assemble(in)
}

// ScanCacheStats reports the scan cache's hit/size counters.
func (e *Engine) ScanCacheStats() scancache.Stats {
	return e.results.Stats()
}

// Catalog returns the merged rule catalog, loading it from the installed
// rule sources on first use (and after every UpdateRules). Sources merge in
// descending priority order so higher-priority definitions shadow lower
// ones.
func (e *Engine) Catalog(ctx context.Context) (*rules.Catalog, error) {
	e.mu.RLock()
	catalog := e.catalog
	e.mu.RUnlock()
	if catalog != nil {
		return catalog, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.catalog != nil {
		return e.catalog, nil
	}

	catalog, err := e.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	e.catalog = catalog
	return catalog, nil
}

func (e *Engine) loadCatalog(ctx context.Context) (*rules.Catalog, error) {
	var docs [][]rules.Rule
	for _, s := range e.sources.ListSources() {
		if err := ctx.Err(); err != nil {
			return nil, cerr.New(cerr.Cancelled, "engine.loadCatalog", err)
		}
		if !s.Enabled {
			continue
		}

		ok, err := e.sources.VerifyIntegrity(s.Name)
		if err != nil {
			e.logger.Warn("rule source integrity check failed", "source", s.Name, "error", err)
		} else if !ok {
			if e.cfg.Rules.Strict {
				return nil, cerr.New(cerr.IntegrityFailed, "engine.loadCatalog",
					fmt.Errorf("checksum mismatch for rule source %q", s.Name))
			}
			e.logger.Warn("rule source checksum mismatch, continuing in non-strict mode", "source", s.Name)
		}

		files, err := e.sources.InstalledRuleFiles(s.Name)
		if err != nil {
			e.logger.Warn("failed to list rule files", "source", s.Name, "error", err)
			continue
		}
		dir := e.sources.SourceDir(s.Name)
		for _, rel := range files {
			format, ok := rules.FormatForPath(rel)
			if !ok {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
			if err != nil {
				e.logger.Warn("failed to read rule file", "source", s.Name, "file", rel, "error", err)
				continue
			}
			doc, err := rules.Load(data, format, s.Name, s.Priority)
			if err != nil {
				e.logger.Warn("failed to decode rule file", "source", s.Name, "file", rel, "error", err)
				continue
			}
			docs = append(docs, doc)
		}
	}

	catalog := rules.NewCatalog(docs...)
	for _, d := range catalog.Diagnostics() {
		e.logger.Debug("rule catalog diagnostic", "rule", d.RuleID, "source", d.Source, "message", d.Message)
	}
	return catalog, nil
}
