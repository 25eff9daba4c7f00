package assembler

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
)

const outputPerms = 0o644

// Write replaces path with doc in a single atomic rename. Readers see either the
// previous file or the new one, never a truncated mix.
func Write(path string, doc []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.FileSystemError("cannot create output directory").
			WithCause(err).WithContext("path", filepath.Dir(path)).Build()
	}

	_, statErr := os.Stat(path)
	existed := !errors.Is(statErr, fs.ErrNotExist)

	if err := atomic.WriteFile(path, bytes.NewReader(doc)); err != nil {
		return ferrors.FileSystemError("cannot write output").
			WithCause(err).WithContext("path", path).Build()
	}

	// atomic.WriteFile keeps the mode of a replaced file but creates new ones 0600.
	if !existed {
		if err := os.Chmod(path, outputPerms); err != nil {
			return ferrors.FileSystemError("cannot set output permissions").
				WithCause(err).WithContext("path", path).Build()
		}
	}
	return nil
}
