package rulesource

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeCloner struct {
	sha      string
	files    map[string]string // relative path -> content, written into the clone dest
	failClon bool
}

func (f *fakeCloner) RemoteHeadSHA(ctx context.Context, repoURL, ref string) (string, error) {
	return f.sha, nil
}

func (f *fakeCloner) CloneRef(ctx context.Context, repoURL, ref, dest string) (string, error) {
	if f.failClon {
		return "", context.DeadlineExceeded
	}
	for rel, content := range f.files {
		path := filepath.Join(dest, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return "", err
		}
	}
	return f.sha, nil
}

type fakeFetcher struct {
	status  int
	body    []byte
	headers map[string][]string
}

func (f *fakeFetcher) Get(ctx context.Context, url string, headers map[string]string, timeout time.Duration) (int, map[string][]string, []byte, error) {
	return f.status, f.headers, f.body, nil
}

func (f *fakeFetcher) Head(ctx context.Context, url string) (map[string][]string, error) {
	return f.headers, nil
}

const validRuleYAML = `
rules:
  - id: no-todo
    language: go
    severity: info
    message: leftover TODO
    rule:
      regex: 'TODO'
`

func TestManager_ListSourcesSortedByPriority(t *testing.T) {
	m, err := New(t.TempDir(), nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sources := m.ListSources()
	if len(sources) < 3 {
		t.Fatalf("expected default sources, got %d", len(sources))
	}
	for i := 1; i < len(sources); i++ {
		if sources[i-1].Priority < sources[i].Priority {
			t.Fatalf("sources not sorted by descending priority: %+v", sources)
		}
	}
	if sources[0].Name != "official" {
		t.Errorf("expected official first, got %s", sources[0].Name)
	}
}

func TestManager_AddRemoveSource(t *testing.T) {
	m, _ := New(t.TempDir(), nil, nil)
	m.AddSource(Source{Name: "custom", Type: TypeLocal, Priority: 5, Enabled: true})
	found := false
	for _, s := range m.ListSources() {
		if s.Name == "custom" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected custom source to be listed")
	}
	if !m.RemoveSource("custom") {
		t.Fatal("expected RemoveSource to report removal")
	}
	if m.RemoveSource("custom") {
		t.Fatal("expected second RemoveSource to report absence")
	}
}

func TestManager_UpdateFromGitSource(t *testing.T) {
	rulesDir := t.TempDir()
	cloner := &fakeCloner{sha: "deadbeef", files: map[string]string{"rules.yaml": validRuleYAML, "README.md": "ignored"}}
	m, err := New(rulesDir, nil, cloner)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	meta, err := m.Update(context.Background(), "official", UpdateArgs{Verify: true})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if meta.Version != "deadbeef" {
		t.Errorf("expected version deadbeef, got %s", meta.Version)
	}
	if meta.RuleCount != 1 {
		t.Fatalf("expected 1 rule file (README.md excluded), got %d: %v", meta.RuleCount, meta.Files)
	}

	installed, err := m.GetInstalledSources()
	if err != nil {
		t.Fatalf("GetInstalledSources: %v", err)
	}
	if len(installed) != 1 || installed[0].Source != "official" {
		t.Fatalf("expected official installed, got %+v", installed)
	}
}

func TestManager_UpdateFromZipURL(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("community-rules-main/rules.yaml")
	w.Write([]byte(validRuleYAML))
	w2, _ := zw.Create("community-rules-main/notes.txt")
	w2.Write([]byte("ignored"))
	zw.Close()

	fetcher := &fakeFetcher{status: 200, body: buf.Bytes(), headers: map[string][]string{"Etag": {`"v1"`}}}
	m, err := New(t.TempDir(), fetcher, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.AddSource(Source{Name: "zipsrc", Type: TypeURL, Location: "https://example.test/rules.zip", Enabled: true, Priority: 1})

	meta, err := m.Update(context.Background(), "zipsrc", UpdateArgs{Verify: true})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if meta.RuleCount != 1 {
		t.Fatalf("expected 1 rule file, got %d: %v", meta.RuleCount, meta.Files)
	}
	if meta.Version != `"v1"` {
		t.Errorf("expected version from Etag, got %s", meta.Version)
	}
}

func TestManager_UpdateVerifyFailureLeavesLiveDirUntouched(t *testing.T) {
	rulesDir := t.TempDir()
	cloner := &fakeCloner{sha: "sha1", files: map[string]string{"rules.yaml": validRuleYAML}}
	m, _ := New(rulesDir, nil, cloner)

	if _, err := m.Update(context.Background(), "official", UpdateArgs{}); err != nil {
		t.Fatalf("initial Update: %v", err)
	}

	badCloner := &fakeCloner{sha: "sha2", files: map[string]string{"rules.yaml": "not: [valid: yaml"}}
	m.cloner = badCloner

	_, err := m.Update(context.Background(), "official", UpdateArgs{Verify: true})
	if err == nil {
		t.Fatal("expected verify failure to abort the update")
	}

	meta, err := loadMetadata(m.metadataPath("official"))
	if err != nil {
		t.Fatalf("expected metadata from the first update to survive: %v", err)
	}
	if meta.Version != "sha1" {
		t.Errorf("expected live metadata to still be sha1, got %s", meta.Version)
	}
}

func TestManager_UpdateFromLocalDirectory(t *testing.T) {
	local := t.TempDir()
	if err := os.WriteFile(filepath.Join(local, "rules.yaml"), []byte(validRuleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	m, _ := New(t.TempDir(), nil, nil)
	m.AddSource(Source{Name: "local", Type: TypeLocal, Location: local, Enabled: true, Priority: 1})

	meta, err := m.Update(context.Background(), "local", UpdateArgs{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if meta.RuleCount != 1 {
		t.Fatalf("expected 1 rule file, got %+v", meta)
	}
}

func TestManager_CleanupBackupsKeepsNewest(t *testing.T) {
	rulesDir := t.TempDir()
	m, _ := New(rulesDir, nil, nil)

	backups := m.backupsDir()
	for i := 0; i < 5; i++ {
		dir := filepath.Join(backups, "official_"+string(rune('a'+i)))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(dir, modTime, modTime); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := m.CleanupBackups(2)
	if err != nil {
		t.Fatalf("CleanupBackups: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 removed, got %d", removed)
	}
	remaining, _ := os.ReadDir(backups)
	if len(remaining) != 2 {
		t.Errorf("expected 2 backups remaining, got %d", len(remaining))
	}
}

func TestManager_DiskUsage(t *testing.T) {
	rulesDir := t.TempDir()
	m, _ := New(rulesDir, nil, nil)
	if err := os.MkdirAll(filepath.Join(rulesDir, "official"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(rulesDir, "official", "rules.yaml"), []byte(validRuleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	usage, err := m.DiskUsage()
	if err != nil {
		t.Fatalf("DiskUsage: %v", err)
	}
	if usage != int64(len(validRuleYAML)) {
		t.Errorf("expected usage %d, got %d", len(validRuleYAML), usage)
	}
}

func TestManager_CheckUpdatesGit(t *testing.T) {
	cloner := &fakeCloner{sha: "abc123"}
	m, _ := New(t.TempDir(), nil, cloner)

	infos, err := m.CheckUpdates(context.Background(), "official")
	if err != nil {
		t.Fatalf("CheckUpdates: %v", err)
	}
	if len(infos) != 1 || !infos[0].UpdateAvailable {
		t.Fatalf("expected an available update with no prior metadata, got %+v", infos)
	}
}
