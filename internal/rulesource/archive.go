package rulesource

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sevigo/codelens/internal/cerr"
)

// extractZip extracts every recognised rule file from a zip archive into
// dest, stripping one leading path component (GitHub codeload archives
// wrap everything in a single "<repo>-<ref>/" directory).
func extractZip(data []byte, dest string) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, cerr.New(cerr.ParseFailed, "rulesource.extractZip", err)
	}

	var installed []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rel := stripLeadingComponent(filepath.ToSlash(f.Name))
		if rel == "" || !isRuleFile(rel) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, cerr.New(cerr.ParseFailed, "rulesource.extractZip", err)
		}
		target := filepath.Join(dest, filepath.FromSlash(rel))
		err = writeFromReader(target, rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		installed = append(installed, rel)
	}
	return installed, nil
}

func writeFromReader(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return cerr.New(cerr.IOFailed, "rulesource.writeFromReader", err)
	}
	out, err := os.Create(target)
	if err != nil {
		return cerr.New(cerr.IOFailed, "rulesource.writeFromReader", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return cerr.New(cerr.IOFailed, "rulesource.writeFromReader", err)
	}
	return nil
}

func stripLeadingComponent(path string) string {
	idx := strings.IndexByte(path, '/')
	if idx < 0 {
		return ""
	}
	return path[idx+1:]
}
