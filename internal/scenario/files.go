package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File is a scenario preset on disk.
type File struct {
	Name string
	Path string
}

// List enumerates the *.yaml scenario files under dir, sorted by name.
func List(dir string) ([]File, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("scenario directory not found: %s", dir)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	files := make([]File, 0, len(matches))
	for _, m := range matches {
		files = append(files, File{Name: filepath.Base(m), Path: m})
	}
	return files, nil
}

// LoadFile reads and parses a scenario file, merging its fields over base.
// Keys absent from the file keep the base value. The scenario name is the
// file name without extension.
func LoadFile(path string, base Params) (Params, FieldSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, nil, fmt.Errorf("read scenario: %w", err)
	}
	parsed, found := Parse(string(data))
	merged := Apply(base, parsed, found)
	merged.Scenario = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return merged, found, nil
}
