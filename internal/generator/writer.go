package generator

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// WriteFiles renders every file into dir and returns the written paths.
func WriteFiles(dir string, files []*SourceFile) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		text, err := f.Render()
		if err != nil {
			return nil, errors.Wrapf(err, "rendering %s", f.Path())
		}
		path := filepath.Join(dir, f.Path())
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return nil, errors.Wrapf(err, "writing %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
