package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore implements ObjectStore on the local filesystem. It is the
// single-machine fallback when neither S3 nor SeaweedFS is available.
type LocalStore struct {
	baseDir   string
	publicURL string
}

func NewLocalStore(baseDir, publicURL string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %v", err)
	}
	return &LocalStore{baseDir: baseDir, publicURL: publicURL}, nil
}

func (l *LocalStore) CreateContainer(containerPath string) error {
	dir, err := l.resolve(containerPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create container directory: %v", err)
	}
	return nil
}

func (l *LocalStore) DeleteContainer(containerPath string) (int, error) {
	dir, err := l.resolve(containerPath)
	if err != nil {
		return 0, err
	}
	deleted := 0
	err = filepath.WalkDir(dir, func(_ string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			deleted++
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan container directory: %v", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return 0, fmt.Errorf("failed to delete container directory: %v", err)
	}
	return deleted, nil
}

func (l *LocalStore) PutObject(objectPath string, data []byte, contentType string) (string, error) {
	target, err := l.resolve(objectPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %v", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object: %v", err)
	}
	return filepath.ToSlash(objectPath), nil
}

func (l *LocalStore) GetObject(key string) (io.ReadCloser, error) {
	target, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %v", err)
	}
	return f, nil
}

func (l *LocalStore) CopyObject(srcKey, dstKey string) error {
	reader, err := l.GetObject(srcKey)
	if err != nil {
		return err
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read source object: %v", err)
	}
	_, err = l.PutObject(dstKey, data, "")
	return err
}

func (l *LocalStore) DeleteObject(key string) error {
	target, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %v", err)
	}
	return nil
}

func (l *LocalStore) ObjectExists(key string) (bool, error) {
	target, err := l.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (l *LocalStore) PresignedURL(key string, expiration time.Duration) (string, error) {
	expiresAt := time.Now().Add(expiration).Unix()
	return fmt.Sprintf("%s/%s?exp=%d", l.publicURL, key, expiresAt), nil
}

func (l *LocalStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", l.publicURL, key)
}

// resolve maps a key onto the base directory, rejecting traversal outside it.
func (l *LocalStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid object key: %s", key)
	}
	return filepath.Join(l.baseDir, cleaned), nil
}
