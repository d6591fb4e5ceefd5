package eval

import (
	"os"
	"path/filepath"
)

// FSModule provides the filesystem functions exposed to snippets as the
// global "fs" object. Paths resolve against the process working directory,
// which the session points at the snippet's origin file for the duration of
// each run.
type FSModule struct {
	// MaxFileSize is the maximum file size in bytes to read (default: 1MB)
	MaxFileSize int64
}

// NewFSModule creates a filesystem module with default settings.
func NewFSModule() *FSModule {
	return &FSModule{MaxFileSize: 1024 * 1024}
}

// Read reads the contents of a file, truncating past MaxFileSize.
func (f *FSModule) Read(path string) (string, error) {
	resolved := filepath.Clean(path)

	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", os.ErrInvalid
	}

	if info.Size() > f.MaxFileSize {
		file, err := os.Open(resolved)
		if err != nil {
			return "", err
		}
		defer file.Close()

		buf := make([]byte, f.MaxFileSize)
		n, err := file.Read(buf)
		if err != nil {
			return "", err
		}
		return string(buf[:n]) + "\n... [truncated]", nil
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// Exists checks whether a file or directory exists.
func (f *FSModule) Exists(path string) bool {
	_, err := os.Stat(filepath.Clean(path))
	return err == nil
}

// List returns the entry names in a directory.
func (f *FSModule) List(path string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}
