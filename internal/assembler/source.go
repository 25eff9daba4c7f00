package assembler

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Source reads input files. Assembly never writes through a Source.
type Source interface {
	ReadFile(path string) ([]byte, error)
}

// OSSource reads from the local file system.
type OSSource struct{}

func (OSSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// MapSource is an in-memory path -> content lookup. Keys are cleaned paths.
type MapSource map[string]string

func (m MapSource) ReadFile(path string) ([]byte, error) {
	content, ok := m[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}
