// Package diffmodel turns unified-diff text into a structured GitDiff and
// back. The parser accepts both git-produced diffs (with their extended
// file headers) and plain unified diffs; parsing is a pure function of the
// input bytes.
package diffmodel

import "fmt"

// ChangeKind is the closed enumeration of ways a file can appear in a diff.
type ChangeKind string

const (
	Added      ChangeKind = "added"
	Modified   ChangeKind = "modified"
	Deleted    ChangeKind = "deleted"
	Renamed    ChangeKind = "renamed"
	Copied     ChangeKind = "copied"
	TypeChange ChangeKind = "type_changed"
)

// LineKind classifies a single line within a hunk's payload.
type LineKind byte

const (
	Context  LineKind = ' '
	Addition LineKind = '+'
	Deletion LineKind = '-'
)

// Line is a single payload line inside a DiffHunk.
type Line struct {
	Kind    LineKind
	Content string
	// OldLineNo/NewLineNo are 1-based line numbers in the pre/post image.
	// Zero means "not applicable" (e.g. NewLineNo for a Deletion line).
	OldLineNo int
	NewLineNo int
	// NoNewlineAtEOF is set when this line was immediately followed by a
	// "\ No newline at end of file" marker in the source diff.
	NoNewlineAtEOF bool
}

// DiffHunk is a contiguous change region within a file, delimited by an
// "@@ -a,b +c,d @@" header. Invariant: OldCount/NewCount match the number of
// context+deletion / context+addition lines respectively in Lines.
type DiffHunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Section  string // optional text trailing the second @@ (function context)
	Lines    []Line
}

// ChangedFile is one file entry in a GitDiff.
type ChangedFile struct {
	Path       string
	OldPath    string // set for Renamed/Copied
	ChangeKind ChangeKind
	Hunks      []DiffHunk
	Binary     bool
	OldMode    string
	NewMode    string
}

// Key returns the unique key ChangedFile is indexed by within a GitDiff: the
// post-image path, or OldPath for a pure deletion (normalizeChangeKinds
// copies OldPath into Path for deletions at parse time, so this is always
// just Path by the time a caller sees it).
func (c ChangedFile) Key() string {
	return c.Path
}

// GitDiff is an ordered set of ChangedFile, keyed unique by post-image path
// (or old_path for deletes).
type GitDiff struct {
	Files []ChangedFile
}

// ByPath returns the ChangedFile for path, if present.
func (d *GitDiff) ByPath(path string) (*ChangedFile, bool) {
	for i := range d.Files {
		if d.Files[i].Key() == path {
			return &d.Files[i], true
		}
	}
	return nil, false
}

// Stats is the insertions/deletions rollup for a GitDiff, the structured
// equivalent of `git diff --numstat`.
type Stats struct {
	FilesChanged int
	Insertions   int
	Deletions    int
}

// Stats tallies added and deleted lines across every file in the diff.
// Binary files count as changed but contribute no line counts.
func (d *GitDiff) Stats() Stats {
	s := Stats{FilesChanged: len(d.Files)}
	for _, f := range d.Files {
		for _, h := range f.Hunks {
			for _, l := range h.Lines {
				switch l.Kind {
				case Addition:
					s.Insertions++
				case Deletion:
					s.Deletions++
				}
			}
		}
	}
	return s
}

// ParseError carries byte-offset context for a malformed-header failure.
type ParseError struct {
	Offset int
	Line   int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("diffmodel: parse error at line %d (byte %d): %s", e.Line, e.Offset, e.Msg)
}
