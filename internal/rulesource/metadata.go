package rulesource

import (
	"encoding/json"
	"os"

	"github.com/sevigo/codelens/internal/cerr"
)

func loadMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, cerr.New(cerr.IOFailed, "rulesource.loadMetadata", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, cerr.New(cerr.ParseFailed, "rulesource.loadMetadata", err)
	}
	return meta, nil
}

func saveMetadata(path string, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return cerr.New(cerr.InternalInvariant, "rulesource.saveMetadata", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return cerr.New(cerr.IOFailed, "rulesource.saveMetadata", err)
	}
	return nil
}
