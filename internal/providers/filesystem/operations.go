package filesystem

import (
	"os"
	"path/filepath"

	"github.com/GriffinCanCode/fsbridge/internal/types"
)

const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644
)

// GetBaseDir returns the current working directory
func GetBaseDir() (string, error) {
	return os.Getwd()
}

// ReadFile returns the whole contents of the file at path
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile replaces the contents of path with data, creating missing
// parent directories first. With atomic set the data is staged in a
// temporary sibling and renamed over path.
func WriteFile(path string, data []byte, atomic bool) error {
	if parent := parentDir(path); parent != "" {
		if err := os.MkdirAll(parent, dirMode); err != nil {
			return err
		}
	}

	if atomic {
		return writeAtomic(path, data)
	}
	return os.WriteFile(path, data, fileMode)
}

func writeAtomic(path string, data []byte) (err error) {
	dir := parentDir(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), fileMode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadDir describes every immediate child of the directory at path.
// The first failing metadata read fails the whole listing.
func ReadDir(path string) ([]types.EntryDescriptor, error) {
	children, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	entries := make([]types.EntryDescriptor, 0, len(children))
	for _, child := range children {
		p := childPath(path, child.Name())
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, newEntry(p, info))
	}
	return entries, nil
}

// Stat describes the object at path, following symbolic links
func Stat(path string) (types.EntryDescriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.EntryDescriptor{}, err
	}
	return newEntry(path, info), nil
}

// Mkdir creates path and any missing ancestors
func Mkdir(path string) error {
	return os.MkdirAll(path, dirMode)
}

// Remove deletes path, recursing into directories. A missing path is not an error.
func Remove(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// Exists reports whether path can be confirmed to exist
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
