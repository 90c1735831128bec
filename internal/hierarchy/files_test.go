package hierarchy

import (
	"errors"
	"io"
	"testing"

	"go-cloud-drive/internal/models"
	"go-cloud-drive/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCreateFile(t *testing.T, e *Engine, objects *storage.MemoryStore, ownerID uint, name string, folderID *string) *models.File {
	t.Helper()
	key, err := objects.PutObject("payload/"+name, []byte("content of "+name), "text/plain")
	require.NoError(t, err)
	file, err := e.CreateFile(ownerID, CreateFileInput{
		Name:         name,
		OriginalName: name,
		MimeType:     "text/plain",
		SizeBytes:    int64(len("content of " + name)),
		FolderID:     folderID,
		StorageKey:   key,
	})
	require.NoError(t, err)
	return file
}

func TestCreateFileSiblingUniqueness(t *testing.T) {
	e, objects := newTestEngine(t)

	mustCreateFile(t, e, objects, 1, "report.pdf", nil)

	_, err := e.CreateFile(1, CreateFileInput{Name: "report.pdf", StorageKey: "1/x"})
	assert.Equal(t, KindConflict, KindOf(err))
	_, err = e.CreateFile(1, CreateFileInput{Name: "REPORT.pdf", StorageKey: "1/x"})
	assert.Equal(t, KindConflict, KindOf(err))

	// Folders and files live in separate namespaces; a folder named the same
	// is not a collision.
	mustCreateFolder(t, e, 1, "report.pdf", nil)

	// Other owner, other scope.
	_, err = e.CreateFile(2, CreateFileInput{Name: "report.pdf", StorageKey: "2/x"})
	assert.NoError(t, err)
}

func TestCreateFileRejectsDeadFolder(t *testing.T) {
	e, _ := newTestEngine(t)

	folder := mustCreateFolder(t, e, 1, "F", nil)
	require.NoError(t, e.DeleteFolder(1, folder.ID))

	_, err := e.CreateFile(1, CreateFileInput{Name: "a.txt", FolderID: &folder.ID, StorageKey: "1/a"})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRenameFileUpdatesExtension(t *testing.T) {
	e, objects := newTestEngine(t)

	file := mustCreateFile(t, e, objects, 1, "notes.txt", nil)
	assert.Equal(t, ".txt", file.Extension)

	renamed, err := e.RenameFile(1, file.ID, "notes.md")
	require.NoError(t, err)
	assert.Equal(t, "notes.md", renamed.Name)
	assert.Equal(t, ".md", renamed.Extension)
}

func TestMoveFileConflict(t *testing.T) {
	e, objects := newTestEngine(t)

	dst := mustCreateFolder(t, e, 1, "dst", nil)
	mustCreateFile(t, e, objects, 1, "a.txt", &dst.ID)
	loose := mustCreateFile(t, e, objects, 1, "a.txt", nil)

	_, err := e.MoveFile(1, loose.ID, &dst.ID)
	assert.Equal(t, KindConflict, KindOf(err))

	moved, err := e.MoveFile(1, loose.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, moved.FolderID)
}

func TestCopyFileResetsDerivedState(t *testing.T) {
	e, objects := newTestEngine(t)

	src := mustCreateFile(t, e, objects, 1, "photo.jpg", nil)

	// Give the source a public link and some download history.
	_, err := e.SetFileVisibility(1, src.ID, true)
	require.NoError(t, err)
	_, err = e.RecordDownload(1, src.ID)
	require.NoError(t, err)

	copied, err := e.CopyFile(1, src.ID, "")
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, copied.ID)
	assert.Equal(t, "photo.jpg_copy", copied.Name)
	assert.Equal(t, src.FolderID, copied.FolderID)
	assert.Equal(t, src.SizeBytes, copied.SizeBytes)
	assert.NotEqual(t, src.StorageKey, copied.StorageKey)

	// Visibility and counters never carry over.
	assert.False(t, copied.IsPublic)
	assert.Nil(t, copied.PublicLink)
	assert.Zero(t, copied.DownloadCount)

	// The payload was duplicated, not shared.
	reader, err := objects.GetObject(copied.StorageKey)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, []byte("content of photo.jpg"), data)
}

func TestCopyFileExplicitNameConflict(t *testing.T) {
	e, objects := newTestEngine(t)

	src := mustCreateFile(t, e, objects, 1, "a.txt", nil)
	mustCreateFile(t, e, objects, 1, "b.txt", nil)

	_, err := e.CopyFile(1, src.ID, "b.txt")
	assert.Equal(t, KindConflict, KindOf(err))

	copied, err := e.CopyFile(1, src.ID, "c.txt")
	require.NoError(t, err)
	assert.Equal(t, "c.txt", copied.Name)
}

func TestFileTrashLifecycle(t *testing.T) {
	e, objects := newTestEngine(t)

	file := mustCreateFile(t, e, objects, 1, "doc.txt", nil)

	require.NoError(t, e.DeleteFile(1, file.ID))

	// Trashed files disappear from live reads but show up in the trash.
	_, err := e.File(1, file.ID)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, trashedFiles, err := e.Trash(1)
	require.NoError(t, err)
	require.Len(t, trashedFiles, 1)
	assert.Equal(t, file.ID, trashedFiles[0].ID)

	restored, err := e.RestoreFile(1, file.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
	assert.Nil(t, restored.DeletedAt)

	_, err = e.File(1, file.ID)
	assert.NoError(t, err)
}

func TestRestoreFileRequiresLiveFolder(t *testing.T) {
	e, objects := newTestEngine(t)

	folder := mustCreateFolder(t, e, 1, "F", nil)
	file := mustCreateFile(t, e, objects, 1, "a.txt", &folder.ID)

	require.NoError(t, e.DeleteFile(1, file.ID))
	require.NoError(t, e.DeleteFolder(1, folder.ID))

	// A live file must never point at a trashed folder, so the restore is
	// rejected until the folder comes back.
	_, err := e.RestoreFile(1, file.ID)
	assert.Equal(t, KindInvalidOperation, KindOf(err))

	_, err = e.RestoreFolder(1, folder.ID)
	require.NoError(t, err)

	restored, err := e.RestoreFile(1, file.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.ID, *restored.FolderID)
}

func TestRestoreFileNameTakenMeanwhile(t *testing.T) {
	e, objects := newTestEngine(t)

	file := mustCreateFile(t, e, objects, 1, "doc.txt", nil)
	require.NoError(t, e.DeleteFile(1, file.ID))

	mustCreateFile(t, e, objects, 1, "doc.txt", nil)

	_, err := e.RestoreFile(1, file.ID)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestPurgeFile(t *testing.T) {
	e, objects := newTestEngine(t)

	file := mustCreateFile(t, e, objects, 1, "doc.txt", nil)

	err := e.PurgeFile(1, file.ID)
	assert.Equal(t, KindInvalidOperation, KindOf(err))

	require.NoError(t, e.DeleteFile(1, file.ID))
	require.NoError(t, e.PurgeFile(1, file.ID))

	err = e.PurgeFile(1, file.ID)
	assert.Equal(t, KindNotFound, KindOf(err))

	exists, err := objects.ObjectExists(file.StorageKey)
	require.NoError(t, err)
	assert.False(t, exists, "payload should be gone after purge")
}

func TestRecordDownload(t *testing.T) {
	e, objects := newTestEngine(t)

	file := mustCreateFile(t, e, objects, 1, "doc.txt", nil)
	require.Zero(t, file.DownloadCount)
	require.Nil(t, file.LastAccessedAt)

	for i := 0; i < 3; i++ {
		_, err := e.RecordDownload(1, file.ID)
		require.NoError(t, err)
	}

	current, err := e.File(1, file.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, current.DownloadCount)
	assert.NotNil(t, current.LastAccessedAt)
}

func TestFileByLink(t *testing.T) {
	e, objects := newTestEngine(t)

	file := mustCreateFile(t, e, objects, 1, "doc.txt", nil)

	published, err := e.SetFileVisibility(1, file.ID, true)
	require.NoError(t, err)
	token := *published.PublicLink

	found, err := e.FileByLink(token)
	require.NoError(t, err)
	assert.Equal(t, file.ID, found.ID)

	// Trashing the file kills the link without revealing why.
	require.NoError(t, e.DeleteFile(1, file.ID))
	_, err = e.FileByLink(token)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = e.FileByLink("bogus-token")
	assert.Equal(t, KindNotFound, KindOf(err))
}

// brokenObjectStore fails every operation, standing in for an unreachable
// storage backend.
type brokenObjectStore struct{}

var errStorageDown = errors.New("storage backend unreachable")

func (brokenObjectStore) CreateContainer(string) error        { return errStorageDown }
func (brokenObjectStore) DeleteContainer(string) (int, error) { return 0, errStorageDown }
func (brokenObjectStore) CopyObject(string, string) error     { return errStorageDown }
func (brokenObjectStore) DeleteObject(string) error           { return errStorageDown }

func TestObjectStoreFailuresSurfaceAsDependencyErrors(t *testing.T) {
	store := NewMemoryStore()
	healthy := New(store, storage.NewMemoryStore())
	broken := New(store, brokenObjectStore{})

	// Creation keeps the record even when provisioning fails, reporting the
	// adapter fault to the caller.
	folder, err := broken.CreateFolder(1, CreateFolderInput{Name: "F"})
	assert.Equal(t, KindDependency, KindOf(err))
	assert.Nil(t, folder)
	persisted, err := healthy.Folder(1, mustOnlyFolderID(t, store, 1))
	require.NoError(t, err)
	assert.Equal(t, "F", persisted.Name)

	file, err := healthy.CreateFile(1, CreateFileInput{Name: "a.txt", StorageKey: "1/a"})
	require.NoError(t, err)

	_, err = broken.CopyFile(1, file.ID, "")
	assert.Equal(t, KindDependency, KindOf(err))

	require.NoError(t, healthy.DeleteFile(1, file.ID))
	err = broken.PurgeFile(1, file.ID)
	assert.Equal(t, KindDependency, KindOf(err))

	// The failed purge left the record in place.
	_, trashedFiles, err := healthy.Trash(1)
	require.NoError(t, err)
	assert.Len(t, trashedFiles, 1)
}

func mustOnlyFolderID(t *testing.T, store Store, ownerID uint) string {
	t.Helper()
	folders, err := store.ListFolders(ownerID)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	return folders[0].ID
}
