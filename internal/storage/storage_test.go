package storage

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The local and memory providers share the ObjectStore contract; exercise both
// through the same scenarios.
func testStores(t *testing.T) map[string]ObjectStore {
	t.Helper()
	local, err := NewLocalStore(t.TempDir(), "http://localhost:8080/storage")
	require.NoError(t, err)
	return map[string]ObjectStore{
		"local":  local,
		"memory": NewMemoryStore(),
	}
}

func readAll(t *testing.T, store ObjectStore, key string) []byte {
	t.Helper()
	reader, err := store.GetObject(key)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	return data
}

func TestObjectRoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			key, err := store.PutObject("1/abc/doc.txt", []byte("hello"), "text/plain")
			require.NoError(t, err)

			assert.Equal(t, []byte("hello"), readAll(t, store, key))

			exists, err := store.ObjectExists(key)
			require.NoError(t, err)
			assert.True(t, exists)

			require.NoError(t, store.DeleteObject(key))
			exists, err = store.ObjectExists(key)
			require.NoError(t, err)
			assert.False(t, exists)

			_, err = store.GetObject(key)
			assert.Error(t, err)
		})
	}
}

func TestCopyObjectIsIndependent(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			key, err := store.PutObject("1/src.txt", []byte("original"), "text/plain")
			require.NoError(t, err)

			require.NoError(t, store.CopyObject(key, "1/dst.txt"))
			assert.Equal(t, []byte("original"), readAll(t, store, "1/dst.txt"))

			// Deleting the source leaves the copy intact.
			require.NoError(t, store.DeleteObject(key))
			assert.Equal(t, []byte("original"), readAll(t, store, "1/dst.txt"))

			err = store.CopyObject("1/never-existed", "1/other.txt")
			assert.Error(t, err)
		})
	}
}

func TestDeleteContainerCountsObjects(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.CreateContainer("1/folder"))
			_, err := store.PutObject("1/folder/a.txt", []byte("a"), "text/plain")
			require.NoError(t, err)
			_, err = store.PutObject("1/folder/nested/b.txt", []byte("b"), "text/plain")
			require.NoError(t, err)
			_, err = store.PutObject("1/elsewhere.txt", []byte("c"), "text/plain")
			require.NoError(t, err)

			deleted, err := store.DeleteContainer("1/folder")
			require.NoError(t, err)
			// Two payloads plus the container marker, if the provider keeps one.
			assert.GreaterOrEqual(t, deleted, 2)

			exists, err := store.ObjectExists("1/folder/a.txt")
			require.NoError(t, err)
			assert.False(t, exists)

			// Objects outside the container are untouched.
			exists, err = store.ObjectExists("1/elsewhere.txt")
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestDeleteContainerMissingIsZero(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			deleted, err := store.DeleteContainer("1/never-created")
			require.NoError(t, err)
			assert.Zero(t, deleted)
		})
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost:8080/storage")
	require.NoError(t, err)

	_, err = store.PutObject("../outside.txt", []byte("x"), "text/plain")
	assert.Error(t, err)

	_, err = store.GetObject("/etc/passwd")
	assert.Error(t, err)
}

func TestNewSelectsProvider(t *testing.T) {
	store, err := New(Memory, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = New(Local, map[string]string{
		"base_dir":   t.TempDir(),
		"public_url": "http://localhost:8080/storage",
	})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New("carrier-pigeon", nil)
	assert.Error(t, err)
}
