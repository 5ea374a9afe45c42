// Package rulesource manages the local rule store: the configured sources,
// their update/install lifecycle, and the backup/metadata bookkeeping
// around it. Installs are staged in a scratch location and only promoted to
// the live path once every prior step has succeeded, so the live rule
// directory is never left partially written.
package rulesource

import (
	"errors"
	"time"
)

// Type is the closed set of source kinds a Source can be.
type Type string

const (
	// TypeGit fetches a branch from a git-hosted repository via go-git.
	// The clone resolves Reference as a branch name only; tags and commit
	// hashes are not fetched.
	TypeGit Type = "git"
	// TypeURL fetches raw content or a zip archive over HTTP(S) via the
	// collab.NetworkFetcher collaborator.
	TypeURL Type = "url"
	// TypeLocal copies a file or directory already present on disk.
	TypeLocal Type = "local"
)

var ErrSourceNotFound = errors.New("rulesource: source not found")

// Source is one configured rule source.
type Source struct {
	Name        string
	Type        Type
	Location    string
	Reference   string
	Description string
	Enabled     bool
	Priority    int
	LastUpdated time.Time
}

// Metadata describes what is actually installed for a source, written
// alongside the rule files themselves after every successful update.
type Metadata struct {
	Version      string    `json:"version"`
	DownloadedAt time.Time `json:"downloaded_at"`
	Source       string    `json:"source"`
	RuleCount    int       `json:"rule_count"`
	Checksum     string    `json:"checksum"`
	Files        []string  `json:"files"`
}

// UpdateInfo is the result of checking one source for a remote update.
type UpdateInfo struct {
	SourceName       string
	CurrentVersion   string
	AvailableVersion string
	UpdateAvailable  bool
	Changelog        string
	DownloadSize     int64
}

// UpdateArgs parameterises Manager.Update.
type UpdateArgs struct {
	// Backup, if set, copies the existing source directory to a
	// timestamped location under <rules_dir>/backups before installing.
	Backup bool
	// Verify, if set, parses every installed rule file after extraction
	// and fails the update on the first violation, before the live
	// directory is touched.
	Verify bool
}

func defaultSources() map[string]Source {
	return map[string]Source{
		"official": {
			Name: "official", Type: TypeGit,
			Location: "github.com/coderabbitai/ast-grep-essentials", Reference: "main",
			Description: "Canonical codelens rule pack", Enabled: true, Priority: 100,
		},
		"community": {
			Name: "community", Type: TypeGit,
			Location: "github.com/codelens-project/community-rules", Reference: "main",
			Description: "Community-contributed rules", Enabled: true, Priority: 50,
		},
		"security": {
			Name: "security", Type: TypeGit,
			Location: "github.com/codelens-project/security-rules", Reference: "main",
			Description: "Security-focused rules", Enabled: false, Priority: 10,
		},
	}
}
