package diffmodel

import (
	"fmt"
	"strings"
)

// Serialize re-renders a GitDiff as unified-diff text. Parsing the result
// again reproduces an equivalent GitDiff, up to whitespace normalisation
// inside hunk context lines.
func Serialize(d *GitDiff) []byte {
	var b strings.Builder
	for _, f := range d.Files {
		writeFileHeader(&b, f)
		for _, h := range f.Hunks {
			writeHunk(&b, h)
		}
	}
	return []byte(b.String())
}

func writeFileHeader(b *strings.Builder, f ChangedFile) {
	oldPath, newPath := f.OldPath, f.Path
	if oldPath == "" {
		oldPath = f.Path
	}
	if newPath == "" {
		newPath = f.OldPath
	}
	fmt.Fprintf(b, "diff --git a/%s b/%s\n", oldPath, newPath)

	switch f.ChangeKind {
	case Added:
		if f.NewMode != "" {
			fmt.Fprintf(b, "new file mode %s\n", f.NewMode)
		}
		fmt.Fprintf(b, "--- /dev/null\n+++ b/%s\n", newPath)
	case Deleted:
		if f.OldMode != "" {
			fmt.Fprintf(b, "deleted file mode %s\n", f.OldMode)
		}
		fmt.Fprintf(b, "--- a/%s\n+++ /dev/null\n", oldPath)
	case Renamed:
		fmt.Fprintf(b, "rename from %s\nrename to %s\n", oldPath, newPath)
		if len(f.Hunks) > 0 {
			fmt.Fprintf(b, "--- a/%s\n+++ b/%s\n", oldPath, newPath)
		}
	case Copied:
		fmt.Fprintf(b, "copy from %s\ncopy to %s\n", oldPath, newPath)
		if len(f.Hunks) > 0 {
			fmt.Fprintf(b, "--- a/%s\n+++ b/%s\n", oldPath, newPath)
		}
	default:
		fmt.Fprintf(b, "--- a/%s\n+++ b/%s\n", oldPath, newPath)
	}

	if f.Binary {
		fmt.Fprintf(b, "Binary files a/%s and b/%s differ\n", oldPath, newPath)
	}
}

func writeHunk(b *strings.Builder, h DiffHunk) {
	fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
	if h.Section != "" {
		fmt.Fprintf(b, " %s", h.Section)
	}
	b.WriteByte('\n')
	for _, l := range h.Lines {
		b.WriteByte(byte(l.Kind))
		b.WriteString(l.Content)
		b.WriteByte('\n')
		if l.NoNewlineAtEOF {
			b.WriteString(noNewlineMarker)
			b.WriteByte('\n')
		}
	}
}
