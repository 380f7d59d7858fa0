package draft

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// KV is the durable local key-value contract the draft store runs on.
// Implementations must tolerate concurrent writers by letting the latest
// write win; no ordering guarantee is required.
type KV interface {
	SetItem(key, value string) error
	GetItem(key string) (string, bool, error)
	RemoveItem(key string) error
}

// FileKV stores one file per key inside a directory. Writes go through a
// temp file plus rename so readers never observe partial content, and a
// directory-level flock serializes writers across processes.
type FileKV struct {
	dir  string
	lock *flock.Flock
}

// NewFileKV creates the backing directory if needed and returns a store
// rooted at it.
func NewFileKV(dir string) (*FileKV, error) {
	if dir == "" {
		return nil, errors.New("draft directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create draft directory: %w", err)
	}
	return &FileKV{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

// SetItem writes value under key, overwriting any previous value.
func (f *FileKV) SetItem(key, value string) error {
	path, err := f.keyPath(key)
	if err != nil {
		return err
	}
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("acquire draft lock: %w", err)
	}
	defer func() { _ = f.lock.Unlock() }()

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write draft temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename draft file: %w", err)
	}
	return nil
}

// GetItem returns the stored value and whether the key exists.
func (f *FileKV) GetItem(key string) (string, bool, error) {
	path, err := f.keyPath(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read draft file: %w", err)
	}
	return string(data), true, nil
}

// RemoveItem deletes the value under key. Removing a missing key is not an
// error.
func (f *FileKV) RemoveItem(key string) error {
	path, err := f.keyPath(key)
	if err != nil {
		return err
	}
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("acquire draft lock: %w", err)
	}
	defer func() { _ = f.lock.Unlock() }()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove draft file: %w", err)
	}
	return nil
}

func (f *FileKV) keyPath(key string) (string, error) {
	if key == "" {
		return "", errors.New("draft key is required")
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return "", fmt.Errorf("draft key %q contains unsupported character %q", key, r)
		}
	}
	return filepath.Join(f.dir, key+".json"), nil
}
