package rulesource

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sevigo/codelens/internal/cerr"
	"github.com/sevigo/codelens/internal/rules"
)

// fetchTimeout bounds a single network round trip.
const fetchTimeout = 30 * time.Second

// CheckUpdates compares each selected source's stored metadata against its
// remote identifier. name, if non-empty, restricts the check to one source
// (which must exist); otherwise every enabled source is checked, and a
// single source failing to check does not abort the others.
func (m *Manager) CheckUpdates(ctx context.Context, name string) ([]UpdateInfo, error) {
	var targets []Source
	if name != "" {
		s, ok := m.source(name)
		if !ok {
			return nil, cerr.New(cerr.ConfigInvalid, "rulesource.CheckUpdates", fmt.Errorf("%w: %s", ErrSourceNotFound, name))
		}
		targets = []Source{s}
	} else {
		for _, s := range m.ListSources() {
			if s.Enabled {
				targets = append(targets, s)
			}
		}
	}

	var out []UpdateInfo
	for _, s := range targets {
		info, err := m.checkSourceUpdate(ctx, s)
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

func (m *Manager) checkSourceUpdate(ctx context.Context, s Source) (UpdateInfo, error) {
	currentVersion := ""
	if meta, err := loadMetadata(m.metadataPath(s.Name)); err == nil {
		currentVersion = meta.Version
	}

	switch s.Type {
	case TypeGit:
		if m.cloner == nil {
			return UpdateInfo{}, cerr.New(cerr.ConfigInvalid, "rulesource.checkSourceUpdate", fmt.Errorf("no GitCloner configured"))
		}
		sha, err := m.cloner.RemoteHeadSHA(ctx, s.Location, s.Reference)
		if err != nil {
			return UpdateInfo{}, err
		}
		return UpdateInfo{
			SourceName: s.Name, CurrentVersion: currentVersion, AvailableVersion: sha,
			UpdateAvailable: currentVersion != sha,
		}, nil

	case TypeURL:
		if m.fetcher == nil {
			return UpdateInfo{}, cerr.New(cerr.ConfigInvalid, "rulesource.checkSourceUpdate", fmt.Errorf("no NetworkFetcher configured"))
		}
		headers, err := m.fetcher.Head(ctx, s.Location)
		if err != nil {
			return UpdateInfo{}, err
		}
		available := firstHeader(headers, "Etag")
		if available == "" {
			available = firstHeader(headers, "Last-Modified")
		}
		if available == "" {
			available = strconv.FormatInt(time.Now().Unix(), 10)
		}
		var size int64
		if cl := firstHeader(headers, "Content-Length"); cl != "" {
			size, _ = strconv.ParseInt(cl, 10, 64)
		}
		return UpdateInfo{
			SourceName: s.Name, CurrentVersion: currentVersion, AvailableVersion: available,
			UpdateAvailable: currentVersion != available, DownloadSize: size,
		}, nil

	case TypeLocal:
		info, err := os.Stat(s.Location)
		if err != nil {
			return UpdateInfo{}, cerr.New(cerr.IOFailed, "rulesource.checkSourceUpdate", err)
		}
		available := strconv.FormatInt(info.ModTime().Unix(), 10)
		return UpdateInfo{
			SourceName: s.Name, CurrentVersion: currentVersion, AvailableVersion: available,
			UpdateAvailable: currentVersion != available,
		}, nil

	default:
		return UpdateInfo{}, cerr.New(cerr.ConfigInvalid, "rulesource.checkSourceUpdate", fmt.Errorf("unsupported source type %q", s.Type))
	}
}

func firstHeader(headers map[string][]string, key string) string {
	for k, vs := range headers {
		if equalFoldASCII(k, key) && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Update performs the full backup-download-extract-verify-swap sequence
// for the named source and returns the resulting Metadata. At no point is
// the live source directory left partially written: either the swap
// succeeds atomically or the previous content (restored from backup, if a
// backup was taken) remains.
func (m *Manager) Update(ctx context.Context, name string, args UpdateArgs) (Metadata, error) {
	source, ok := m.source(name)
	if !ok {
		return Metadata{}, cerr.New(cerr.ConfigInvalid, "rulesource.Update", fmt.Errorf("%w: %s", ErrSourceNotFound, name))
	}

	liveDir := m.sourceDir(name)
	var backupDir string
	if args.Backup {
		if _, err := os.Stat(liveDir); err == nil {
			backupDir = filepath.Join(m.backupsDir(), fmtTimestampSuffix(name, time.Now()))
			if err := copyDirectory(liveDir, backupDir); err != nil {
				return Metadata{}, cerr.New(cerr.IOFailed, "rulesource.Update", err)
			}
			// Carry the metadata alongside the rule files so a restore
			// brings back version tracking too.
			if _, err := os.Stat(m.metadataPath(name)); err == nil {
				if err := copyFile(m.metadataPath(name), filepath.Join(backupDir, "metadata.json")); err != nil {
					return Metadata{}, cerr.New(cerr.IOFailed, "rulesource.Update", err)
				}
			}
		}
	}

	scratch, err := os.MkdirTemp(m.rulesDir, name+"-update-*")
	if err != nil {
		return Metadata{}, cerr.New(cerr.IOFailed, "rulesource.Update", err)
	}
	defer os.RemoveAll(scratch)

	version, err := m.installInto(ctx, source, scratch)
	if err != nil {
		return Metadata{}, err
	}

	files, err := listRuleFiles(scratch)
	if err != nil {
		return Metadata{}, cerr.New(cerr.IOFailed, "rulesource.Update", err)
	}
	if len(files) == 0 {
		return Metadata{}, cerr.New(cerr.IntegrityFailed, "rulesource.Update", fmt.Errorf("source %q produced no recognised rule files", name))
	}

	if args.Verify {
		if err := verifyRuleFiles(scratch, files); err != nil {
			return Metadata{}, cerr.New(cerr.IntegrityFailed, "rulesource.Update", err)
		}
	}

	checksum, err := checksumFiles(scratch, files)
	if err != nil {
		return Metadata{}, err
	}

	if err := swapDir(liveDir, scratch); err != nil {
		if backupDir != "" {
			_ = os.RemoveAll(liveDir)
			_ = os.Rename(backupDir, liveDir)
		}
		return Metadata{}, cerr.New(cerr.IOFailed, "rulesource.Update", err)
	}

	meta := Metadata{
		Version:      version,
		DownloadedAt: time.Now(),
		Source:       name,
		RuleCount:    len(files),
		Checksum:     checksum,
		Files:        files,
	}
	if err := saveMetadata(m.metadataPath(name), meta); err != nil {
		return meta, err
	}

	source.LastUpdated = meta.DownloadedAt
	m.AddSource(source)

	return meta, nil
}

// installInto fetches/copies source's content into scratch (already
// filtered to recognised rule files) and returns a resolved version
// identifier.
func (m *Manager) installInto(ctx context.Context, source Source, scratch string) (string, error) {
	switch source.Type {
	case TypeGit:
		if m.cloner == nil {
			return "", cerr.New(cerr.ConfigInvalid, "rulesource.installInto", fmt.Errorf("no GitCloner configured"))
		}
		cloneTemp, err := os.MkdirTemp("", "codelens-rulesource-clone-*")
		if err != nil {
			return "", cerr.New(cerr.IOFailed, "rulesource.installInto", err)
		}
		defer os.RemoveAll(cloneTemp)

		sha, err := m.cloner.CloneRef(ctx, source.Location, source.Reference, cloneTemp)
		if err != nil {
			return "", err
		}
		if err := copyDirectory(cloneTemp, scratch); err != nil {
			return "", cerr.New(cerr.IOFailed, "rulesource.installInto", err)
		}
		return sha, nil

	case TypeURL:
		if m.fetcher == nil {
			return "", cerr.New(cerr.ConfigInvalid, "rulesource.installInto", fmt.Errorf("no NetworkFetcher configured"))
		}
		status, headers, body, err := m.fetcher.Get(ctx, source.Location, nil, fetchTimeout)
		if err != nil {
			return "", err
		}
		if status < 200 || status >= 300 {
			return "", cerr.New(cerr.NetworkFailed, "rulesource.installInto", fmt.Errorf("GET %s returned status %d", source.Location, status))
		}

		if isZipPath(source.Location) {
			if _, err := extractZip(body, scratch); err != nil {
				return "", err
			}
		} else if err := writeFromReader(filepath.Join(scratch, "rules.yaml"), bytes.NewReader(body)); err != nil {
			return "", err
		}

		version := firstHeader(headers, "Etag")
		if version == "" {
			version = strconv.FormatInt(time.Now().Unix(), 10)
		}
		return version, nil

	case TypeLocal:
		info, err := os.Stat(source.Location)
		if err != nil {
			return "", cerr.New(cerr.IOFailed, "rulesource.installInto", err)
		}
		if info.IsDir() {
			if err := copyDirectory(source.Location, scratch); err != nil {
				return "", cerr.New(cerr.IOFailed, "rulesource.installInto", err)
			}
		} else {
			if err := copyFile(source.Location, filepath.Join(scratch, filepath.Base(source.Location))); err != nil {
				return "", cerr.New(cerr.IOFailed, "rulesource.installInto", err)
			}
		}
		return strconv.FormatInt(info.ModTime().Unix(), 10), nil

	default:
		return "", cerr.New(cerr.ConfigInvalid, "rulesource.installInto", fmt.Errorf("unsupported source type %q", source.Type))
	}
}

func isZipPath(location string) bool {
	return len(location) > 4 && location[len(location)-4:] == ".zip"
}

// verifyRuleFiles parses every file minimally for structural
// well-formedness.
func verifyRuleFiles(dir string, files []string) error {
	for _, rel := range files {
		format, ok := rules.FormatForPath(rel)
		if !ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			return err
		}
		if _, err := rules.Load(data, format, "verify", 0); err != nil {
			return fmt.Errorf("invalid rule document %s: %w", rel, err)
		}
	}
	return nil
}

// swapDir atomically replaces live with the contents of scratch: live is
// moved aside, scratch is renamed into place, and the old content is
// removed only once the rename into place has succeeded.
func swapDir(live, scratch string) error {
	var displaced string
	if _, err := os.Stat(live); err == nil {
		displaced = live + ".displaced"
		if err := os.RemoveAll(displaced); err != nil {
			return err
		}
		if err := os.Rename(live, displaced); err != nil {
			return err
		}
	}

	if err := os.Rename(scratch, live); err != nil {
		if displaced != "" {
			_ = os.Rename(displaced, live)
		}
		return err
	}
	if displaced != "" {
		_ = os.RemoveAll(displaced)
	}
	return nil
}
