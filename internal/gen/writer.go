package gen

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/goaux/stacktrace/v2"

	"persistent-generator/internal/analyze"
)

// ErrNotGenerated is returned instead of overwriting a file persistent-gen did
// not write.
var ErrNotGenerated = errors.New("refusing to overwrite a file without the generated header")

const filePerm = 0o644

// WriteFiles writes all generated files next to their records and returns the
// ones whose content changed. Existing files are only replaced when they
// carry the generated header; files already up to date are left untouched.
func WriteFiles(files []GeneratedFile) ([]GeneratedFile, error) {
	var written []GeneratedFile

	for _, file := range files {
		changed, err := writeFile(file)
		if err != nil {
			return written, fmt.Errorf("writing file %s: %w", file.Path(), err)
		}

		if changed {
			written = append(written, file)
		}
	}

	return written, nil
}

func writeFile(file GeneratedFile) (bool, error) {
	path := file.Path()

	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return false, stacktrace.Trace(err)
	case bytes.Equal(existing, file.Content):
		return false, nil
	default:
		ok, err := analyze.IsGenerated(path)
		if err != nil {
			return false, err
		}

		if !ok {
			return false, ErrNotGenerated
		}
	}

	if err := stacktrace.Trace(os.WriteFile(path, file.Content, filePerm)); err != nil {
		return false, err
	}

	return true, nil
}
