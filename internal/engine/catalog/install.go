package catalog

import (
	"fmt"
	"os"
	"path/filepath"
)

// Install validates data and writes it to dest atomically. dest is left
// untouched when data does not parse or the write fails.
func Install(dest string, data []byte) (*Catalog, error) {
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
	if err := writeFileAtomic(dest, data); err != nil {
		return nil, err
	}
	return cat, nil
}

// ImportFile installs the catalog file at src into dest.
func ImportFile(src, dest string) (*Catalog, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Install(dest, data)
}

func writeFileAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating catalog dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("replacing catalog: %w", err)
	}
	return nil
}
