package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExportDir writes rendered schedule exports below a single directory.
type ExportDir struct {
	baseDir string
}

// NewExportDir ensures the directory exists and returns a handle.
func NewExportDir(baseDir string) (*ExportDir, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create exports directory: %w", err)
	}
	return &ExportDir{baseDir: baseDir}, nil
}

// Save writes data to filename inside the directory and returns the full path.
// Names that would escape the directory are rejected.
func (d *ExportDir) Save(filename string, data []byte) (string, error) {
	path, err := d.resolve(filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

func (d *ExportDir) resolve(filename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == string(filepath.Separator) || name == "" || name != strings.TrimSpace(filename) {
		return "", fmt.Errorf("invalid export filename %q", filename)
	}
	return filepath.Join(d.baseDir, name), nil
}
