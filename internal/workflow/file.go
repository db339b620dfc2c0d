package workflow

import (
	"os"
	"path/filepath"
)

// ReadFile loads a workflow document from path. A missing file surfaces as
// an *os.PathError so callers can tell it apart from a decode failure.
func ReadFile(path string) (Workflow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// WriteFile writes the document to path, creating parent directories.
func WriteFile(path string, w Workflow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := w.MarshalIndent()
	if err != nil {
		return err
	}
	data = append(data, '\n')

	return os.WriteFile(path, data, 0644)
}
