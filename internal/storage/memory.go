package storage

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps objects in process memory. It backs the test suite and
// serves as the payload store when the server runs without any external
// storage configured.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (m *MemoryStore) CreateContainer(containerPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := path.Join(containerPath, containerMarker)
	m.objects[key] = memoryObject{}
	return nil
}

func (m *MemoryStore) DeleteContainer(containerPath string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := containerPath + "/"
	deleted := 0
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			delete(m.objects, key)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MemoryStore) PutObject(objectPath string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := path.Clean(objectPath)
	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[key] = memoryObject{data: stored, contentType: contentType}
	return key, nil
}

func (m *MemoryStore) GetObject(key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	object, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", key)
	}
	return io.NopCloser(bytes.NewReader(object.data)), nil
}

func (m *MemoryStore) CopyObject(srcKey, dstKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, ok := m.objects[srcKey]
	if !ok {
		return fmt.Errorf("object not found: %s", srcKey)
	}
	stored := make([]byte, len(src.data))
	copy(stored, src.data)
	m.objects[dstKey] = memoryObject{data: stored, contentType: src.contentType}
	return nil
}

func (m *MemoryStore) DeleteObject(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) ObjectExists(key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *MemoryStore) PresignedURL(key string, expiration time.Duration) (string, error) {
	expiresAt := time.Now().Add(expiration).Unix()
	return fmt.Sprintf("memory://%s?exp=%d", key, expiresAt), nil
}

func (m *MemoryStore) PublicURL(key string) string {
	return fmt.Sprintf("memory://%s", key)
}
