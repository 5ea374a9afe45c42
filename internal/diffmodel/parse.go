package diffmodel

import (
	"regexp"
	"strconv"
	"strings"
)

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)

const noNewlineMarker = "\\ No newline at end of file"

// Parse parses unified-diff text as produced by `git diff` (default
// options), tolerating binary markers and non-git unified diffs. Empty
// input is a valid empty GitDiff. Malformed headers produce a *ParseError
// with byte-offset context.
func Parse(data []byte) (*GitDiff, error) {
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return &GitDiff{}, nil
	}

	lines := splitKeepOffsets(text)
	diff := &GitDiff{}

	var cur *ChangedFile
	var curHunk *DiffHunk
	var oldLine, newLine int

	flushHunk := func() {
		if cur != nil && curHunk != nil {
			cur.Hunks = append(cur.Hunks, *curHunk)
			curHunk = nil
		}
	}
	flushFile := func() {
		flushHunk()
		if cur != nil {
			diff.Files = append(diff.Files, *cur)
			cur = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		text := ln.text

		switch {
		case strings.HasPrefix(text, "diff --git "):
			flushFile()
			cur = &ChangedFile{ChangeKind: Modified}
			if a, b, ok := parseDiffGitHeader(text); ok {
				cur.OldPath = a
				cur.Path = b
			}

		case strings.HasPrefix(text, "old mode "):
			if cur != nil {
				cur.OldMode = strings.TrimPrefix(text, "old mode ")
			}
		case strings.HasPrefix(text, "new mode "):
			if cur != nil {
				cur.NewMode = strings.TrimPrefix(text, "new mode ")
			}
		case strings.HasPrefix(text, "new file mode "):
			if cur != nil {
				cur.ChangeKind = Added
				cur.NewMode = strings.TrimPrefix(text, "new file mode ")
			}
		case strings.HasPrefix(text, "deleted file mode "):
			if cur != nil {
				cur.ChangeKind = Deleted
				cur.OldMode = strings.TrimPrefix(text, "deleted file mode ")
			}
		case strings.HasPrefix(text, "rename from "):
			if cur != nil {
				cur.ChangeKind = Renamed
				cur.OldPath = strings.TrimPrefix(text, "rename from ")
			}
		case strings.HasPrefix(text, "rename to "):
			if cur != nil {
				cur.ChangeKind = Renamed
				cur.Path = strings.TrimPrefix(text, "rename to ")
			}
		case strings.HasPrefix(text, "copy from "):
			if cur != nil {
				cur.ChangeKind = Copied
				cur.OldPath = strings.TrimPrefix(text, "copy from ")
			}
		case strings.HasPrefix(text, "copy to "):
			if cur != nil {
				cur.ChangeKind = Copied
				cur.Path = strings.TrimPrefix(text, "copy to ")
			}
		case strings.HasPrefix(text, "index "):
			// index <old>..<new> <mode> -- carries no structural info we need.

		case strings.HasPrefix(text, "Binary files ") && strings.HasSuffix(text, " differ"):
			if cur != nil {
				cur.Binary = true
			}

		case strings.HasPrefix(text, "--- "):
			p := stripDiffPrefix(strings.TrimPrefix(text, "--- "))
			if cur == nil {
				cur = &ChangedFile{ChangeKind: Modified}
			}
			if p == "/dev/null" {
				cur.ChangeKind = Added
			} else if cur.OldPath == "" {
				cur.OldPath = p
			}

		case strings.HasPrefix(text, "+++ "):
			p := stripDiffPrefix(strings.TrimPrefix(text, "+++ "))
			if cur == nil {
				cur = &ChangedFile{ChangeKind: Modified}
			}
			if p == "/dev/null" {
				cur.ChangeKind = Deleted
			} else {
				cur.Path = p
			}

		case hunkHeaderRe.MatchString(text):
			flushHunk()
			m := hunkHeaderRe.FindStringSubmatch(text)
			oldStart, _ := strconv.Atoi(m[1])
			oldCount := 1
			if m[2] != "" {
				oldCount, _ = strconv.Atoi(m[2])
			}
			newStart, _ := strconv.Atoi(m[3])
			newCount := 1
			if m[4] != "" {
				newCount, _ = strconv.Atoi(m[4])
			}
			curHunk = &DiffHunk{
				OldStart: oldStart,
				OldCount: oldCount,
				NewStart: newStart,
				NewCount: newCount,
				Section:  strings.TrimSpace(m[5]),
			}
			oldLine, newLine = oldStart, newStart
			if cur == nil {
				cur = &ChangedFile{ChangeKind: Modified}
			}

		case text == noNewlineMarker:
			if curHunk != nil && len(curHunk.Lines) > 0 {
				curHunk.Lines[len(curHunk.Lines)-1].NoNewlineAtEOF = true
			}

		default:
			if curHunk == nil {
				continue
			}
			if text == "" {
				// A blank line inside a hunk body is a context line with
				// empty content (no leading space survives trimming at the
				// very end of the diff text).
				curHunk.Lines = append(curHunk.Lines, Line{Kind: Context, OldLineNo: oldLine, NewLineNo: newLine})
				oldLine++
				newLine++
				continue
			}
			switch text[0] {
			case '+':
				curHunk.Lines = append(curHunk.Lines, Line{Kind: Addition, Content: text[1:], NewLineNo: newLine})
				newLine++
			case '-':
				curHunk.Lines = append(curHunk.Lines, Line{Kind: Deletion, Content: text[1:], OldLineNo: oldLine})
				oldLine++
			case ' ':
				curHunk.Lines = append(curHunk.Lines, Line{Kind: Context, Content: text[1:], OldLineNo: oldLine, NewLineNo: newLine})
				oldLine++
				newLine++
			default:
				return nil, &ParseError{Offset: ln.offset, Line: ln.lineNo, Msg: "unrecognised hunk line prefix"}
			}
		}
	}

	flushFile()
	normalizeChangeKinds(diff)
	return diff, nil
}

// normalizeChangeKinds gives a Deleted file that has no new-side path its
// old path as Path. Other files are left as parsed.
func normalizeChangeKinds(d *GitDiff) {
	for i := range d.Files {
		f := &d.Files[i]
		if f.Path == "" && f.OldPath != "" {
			switch f.ChangeKind {
			case Deleted:
				f.Path = f.OldPath
			}
		}
	}
}

type offsetLine struct {
	text   string
	offset int
	lineNo int
}

func splitKeepOffsets(text string) []offsetLine {
	var out []offsetLine
	offset := 0
	lineNo := 1
	for _, raw := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		out = append(out, offsetLine{text: raw, offset: offset, lineNo: lineNo})
		offset += len(raw) + 1
		lineNo++
	}
	return out
}

var diffGitHeaderRe = regexp.MustCompile(`^diff --git a/(.*) b/(.*)$`)

func parseDiffGitHeader(line string) (oldPath, newPath string, ok bool) {
	m := diffGitHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// stripDiffPrefix removes the conventional a/ or b/ prefix and any trailing
// tab-separated timestamp git sometimes appends.
func stripDiffPrefix(p string) string {
	if idx := strings.IndexByte(p, '\t'); idx >= 0 {
		p = p[:idx]
	}
	if strings.HasPrefix(p, "a/") || strings.HasPrefix(p, "b/") {
		return p[2:]
	}
	return p
}
