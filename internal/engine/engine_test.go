package engine

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/codelens/internal/cerr"
	"github.com/sevigo/codelens/internal/config"
	"github.com/sevigo/codelens/internal/prompt"
	"github.com/sevigo/codelens/internal/rulesource"
	"github.com/sevigo/codelens/internal/scan"
	"github.com/sevigo/codelens/internal/summary"
	"github.com/sevigo/codelens/mocks"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Storage: config.StorageConfig{
			CacheRoot: filepath.Join(t.TempDir(), "cache"),
			RulesRoot: filepath.Join(t.TempDir(), "rules"),
		},
		Scan: config.ScanConfig{
			TreeCacheSize:  64,
			CacheTTLHours:  24,
			MaxMemoryCache: 100,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, deps Dependencies) *Engine {
	t.Helper()
	e, err := New(testConfig(t), testLogger(), deps)
	require.NoError(t, err)
	return e
}

const mainGo = `package main

func main() {
	println("hello")
	println("extra")
}
`

const mainGoDiff = `diff --git a/main.go b/main.go
index 4fca9e2..8a1f3b0 100644
--- a/main.go
+++ b/main.go
@@ -3,3 +3,4 @@
 func main() {
 	println("hello")
+	println("extra")
 }
`

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte(mainGo), 0o644))
	return root
}

func installLocalRules(t *testing.T, e *Engine, ruleYAML string) {
	t.Helper()
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "rules.yaml"), []byte(ruleYAML), 0o644))
	e.RuleSources().AddSource(rulesource.Source{
		Name: "local", Type: rulesource.TypeLocal, Location: src,
		Enabled: true, Priority: 10,
	})
	_, err := e.UpdateRules(context.Background(), "local", rulesource.UpdateArgs{Verify: true})
	require.NoError(t, err)
}

const printlnRule = `rules:
  - id: no-println
    language: go
    severity: warning
    category: best_practice
    message: avoid println in production code
    rule:
      regex: println\(
`

func TestAnalyzeDiffSummarisesChangedFunctions(t *testing.T) {
	e := newTestEngine(t, Dependencies{})
	root := writeProject(t)

	diff, sum, err := e.AnalyzeDiff(context.Background(), root, []byte(mainGoDiff))
	require.NoError(t, err)

	require.Len(t, diff.Files, 1)
	assert.Equal(t, "main.go", diff.Files[0].Path)

	require.Len(t, sum.Files, 1)
	assert.GreaterOrEqual(t, sum.Aggregate.FunctionChanges, 1)
	assert.Equal(t, summary.Trivial, sum.Aggregate.ChangeScope)
}

func TestAnalyzeDiffRejectsMalformedInput(t *testing.T) {
	e := newTestEngine(t, Dependencies{})

	malformed := "diff --git a/x b/x\n--- a/x\n+++ b/x\n@@ -1,1 +1,1 @@\n*no such line prefix\n"
	_, _, err := e.AnalyzeDiff(context.Background(), t.TempDir(), []byte(malformed))
	require.Error(t, err)
	assert.True(t, cerr.Is(err, cerr.ParseFailed), "got %v", err)
}

func TestAnalyzeDiffEmptyDiff(t *testing.T) {
	e := newTestEngine(t, Dependencies{})

	diff, sum, err := e.AnalyzeDiff(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, diff.Files)
	assert.Empty(t, sum.Files)
}

func TestScanFindsRuleMatches(t *testing.T) {
	e := newTestEngine(t, Dependencies{})
	installLocalRules(t, e, printlnRule)
	root := writeProject(t)

	result, err := e.Scan(context.Background(), scan.Config{Root: root})
	require.NoError(t, err)

	require.NotEmpty(t, result.Findings)
	assert.Equal(t, "no-println", result.Findings[0].RuleID)
	assert.False(t, result.Truncated)
	assert.Equal(t, 1, result.Stats.Scanned)
}

func TestScanFilesUsesExplicitList(t *testing.T) {
	e := newTestEngine(t, Dependencies{})
	installLocalRules(t, e, printlnRule)
	root := writeProject(t)

	result, err := e.ScanFiles(context.Background(), []string{filepath.Join(root, "main.go")}, scan.Config{})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Findings)
}

func TestScanWithoutRulesFailsTyped(t *testing.T) {
	e := newTestEngine(t, Dependencies{})

	_, err := e.Scan(context.Background(), scan.Config{Root: t.TempDir()})
	require.Error(t, err)
	assert.True(t, cerr.Is(err, cerr.ConfigInvalid), "got %v", err)
}

func TestUpdateRulesFromURLSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockNetworkFetcher(ctrl)
	fetcher.EXPECT().
		Get(gomock.Any(), "https://rules.example.com/pack.yaml", gomock.Any(), gomock.Any()).
		Return(200, map[string][]string{"Etag": {`"v7"`}}, []byte(printlnRule), nil)

	e := newTestEngine(t, Dependencies{Fetcher: fetcher})
	e.RuleSources().AddSource(rulesource.Source{
		Name: "remote", Type: rulesource.TypeURL,
		Location: "https://rules.example.com/pack.yaml",
		Enabled:  true, Priority: 20,
	})

	meta, err := e.UpdateRules(context.Background(), "remote", rulesource.UpdateArgs{Verify: true})
	require.NoError(t, err)
	assert.Equal(t, 1, meta.RuleCount)
	assert.Equal(t, `"v7"`, meta.Version)

	// The freshly installed source is picked up by the next catalog load.
	catalog, err := e.Catalog(context.Background())
	require.NoError(t, err)
	_, ok := catalog.Get("no-println")
	assert.True(t, ok)
}

func TestUpdateRulesNetworkFailureLeavesStoreUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockNetworkFetcher(ctrl)

	e := newTestEngine(t, Dependencies{Fetcher: fetcher})
	installLocalRules(t, e, printlnRule)

	// Repoint the installed source at a remote that answers 500.
	e.RuleSources().AddSource(rulesource.Source{
		Name: "local", Type: rulesource.TypeURL,
		Location: "https://rules.example.com/broken.yaml",
		Enabled:  true, Priority: 10,
	})
	fetcher.EXPECT().
		Get(gomock.Any(), "https://rules.example.com/broken.yaml", gomock.Any(), gomock.Any()).
		Return(500, nil, nil, nil)

	_, err := e.UpdateRules(context.Background(), "local", rulesource.UpdateArgs{Backup: true})
	require.Error(t, err)
	assert.True(t, cerr.Is(err, cerr.NetworkFailed), "got %v", err)

	// The previously installed rules still load and still match.
	catalog, err := e.Catalog(context.Background())
	require.NoError(t, err)
	_, ok := catalog.Get("no-println")
	assert.True(t, ok)
}

func TestAssemblePromptComposesSections(t *testing.T) {
	e := newTestEngine(t, Dependencies{})
	root := writeProject(t)

	_, sum, err := e.AnalyzeDiff(context.Background(), root, []byte(mainGoDiff))
	require.NoError(t, err)

	out, err := e.AssemblePrompt(context.Background(), prompt.Inputs{
		WorkItems: []string{"PROJ-9: add extra output"},
		DiffText:  mainGoDiff,
		Summary:   sum,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "## Work Items")
	assert.Contains(t, out, "## Diff")
	assert.Contains(t, out, "## Structural Summary")
}

func TestCancelledContextReturnsTypedError(t *testing.T) {
	e := newTestEngine(t, Dependencies{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := e.AnalyzeDiff(ctx, t.TempDir(), []byte(mainGoDiff))
	assert.True(t, cerr.Is(err, cerr.Cancelled), "got %v", err)

	_, err = e.Scan(ctx, scan.Config{Root: t.TempDir()})
	assert.True(t, cerr.Is(err, cerr.Cancelled), "got %v", err)

	_, err = e.AssemblePrompt(ctx, prompt.Inputs{})
	assert.True(t, cerr.Is(err, cerr.Cancelled), "got %v", err)
}

func TestConcurrentEnginesDoNotInterfere(t *testing.T) {
	// Two engines in one process, distinct roots, per the explicit-state
	// design requirement.
	e1 := newTestEngine(t, Dependencies{})
	e2 := newTestEngine(t, Dependencies{})
	installLocalRules(t, e1, printlnRule)

	root := writeProject(t)
	res, err := e1.Scan(context.Background(), scan.Config{Root: root})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Findings)

	// e2 has no installed rules; its catalog stays empty.
	_, err = e2.Scan(context.Background(), scan.Config{Root: root})
	require.Error(t, err)
}

func TestScanUsesCacheOnSecondRun(t *testing.T) {
	e := newTestEngine(t, Dependencies{})
	installLocalRules(t, e, printlnRule)
	root := writeProject(t)

	first, err := e.Scan(context.Background(), scan.Config{Root: root})
	require.NoError(t, err)
	second, err := e.Scan(context.Background(), scan.Config{Root: root})
	require.NoError(t, err)

	assert.Equal(t, first.Findings, second.Findings)
	assert.Equal(t, 1, second.Stats.CacheHits)
	assert.Greater(t, e.ScanCacheStats().HitRatio(), 0.0)

	// Waiting does not invalidate an unexpired, unmodified entry.
	time.Sleep(10 * time.Millisecond)
	third, err := e.Scan(context.Background(), scan.Config{Root: root})
	require.NoError(t, err)
	assert.Equal(t, first.Findings, third.Findings)
}
