package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/fwojciec/vogel"
)

// Ensure SpeciesWriter implements vogel.SpeciesWriter at compile time.
var _ vogel.SpeciesWriter = (*SpeciesWriter)(nil)

// SpeciesWriter writes records as indented JSON files, one per page.
type SpeciesWriter struct {
	baseDir string
}

// NewSpeciesWriter creates a new SpeciesWriter that writes to baseDir.
func NewSpeciesWriter(baseDir string) *SpeciesWriter {
	return &SpeciesWriter{baseDir: baseDir}
}

// Path returns the file a record with the given key is written to.
func (w *SpeciesWriter) Path(key string) string {
	return filepath.Join(w.baseDir, vogel.FileName(key)+recordExt)
}

// WriteSpecies writes s to <baseDir>/<FileName(key)>.json. Umlauts and
// markup characters are written as is.
func (w *SpeciesWriter) WriteSpecies(ctx context.Context, key string, s *vogel.Species) error {
	if err := validateName(vogel.FileName(key)); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(s); err != nil {
		return err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(w.Path(key), buf.Bytes(), 0644)
}

// ReadSpecies loads and validates a record file.
// Returns ENOTFOUND if the file does not exist.
func ReadSpecies(path string) (*vogel.Species, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, vogel.Errorf(vogel.ENOTFOUND, "record file %s not found", path)
	} else if err != nil {
		return nil, err
	}
	return vogel.DecodeSpecies(data)
}
