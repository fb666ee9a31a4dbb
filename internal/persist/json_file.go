package persist

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/storage"
)

// JSONFile keeps the garden as one JSON array in a single file.
type JSONFile struct {
	Path string
}

// NewJSONFile returns a JSON file adapter for path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{Path: path}
}

// Load reads the garden. A missing file is reported as (nil, nil).
func (j *JSONFile) Load(ctx context.Context) ([]model.Plant, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure("load", j.Path, err)
	}

	data, err := os.ReadFile(j.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, failure("load", j.Path, err)
	}

	var plants []model.Plant
	if err := json.Unmarshal(data, &plants); err != nil {
		return nil, failure("decode", j.Path, err)
	}
	if plants == nil {
		plants = []model.Plant{}
	}
	return plants, nil
}

// Save writes the garden atomically, creating the parent directory if needed.
func (j *JSONFile) Save(ctx context.Context, plants []model.Plant) error {
	if err := ctx.Err(); err != nil {
		return failure("save", j.Path, err)
	}
	if plants == nil {
		plants = []model.Plant{}
	}

	data, err := json.MarshalIndent(plants, "", "  ")
	if err != nil {
		return failure("encode", j.Path, err)
	}
	if err := storage.EnsureDirectory(filepath.Dir(j.Path)); err != nil {
		return failure("save", j.Path, err)
	}
	if err := storage.SafeWrite(j.Path, data, 0o600); err != nil {
		return failure("save", j.Path, err)
	}
	return nil
}

// Clear removes the file. Clearing a missing file is not an error.
func (j *JSONFile) Clear() error {
	if err := os.Remove(j.Path); err != nil && !os.IsNotExist(err) {
		return failure("clear", j.Path, err)
	}
	return nil
}
