package hierarchy

import (
	"go-cloud-drive/internal/models"
)

// Store is the persistence contract the engine validates against. Lookups that
// find nothing return (nil, nil); errors are reserved for the backend itself.
// A backend may additionally enforce sibling-name uniqueness (a partial unique
// index) and surface violations as a Conflict error, making the engine's
// optimistic check an early exit rather than the sole guard.
type Store interface {
	// FolderByID returns the folder regardless of its trash state.
	FolderByID(ownerID uint, id string) (*models.Folder, error)
	FolderByLink(token string) (*models.Folder, error)
	// FolderNameTaken reports whether a live sibling folder of ownerID under
	// parentID already uses name (case-insensitive). excludeID skips the
	// record being moved or restored.
	FolderNameTaken(ownerID uint, parentID *string, name string, excludeID string) (bool, error)
	// ChildCounts returns the number of child folders and files directly under
	// folderID. Trashed children are included only when includeTrashed is set.
	ChildCounts(ownerID uint, folderID string, includeTrashed bool) (folders, files int64, err error)
	// ListFolders returns all live folders of the owner.
	ListFolders(ownerID uint) ([]models.Folder, error)
	ListTrashedFolders(ownerID uint) ([]models.Folder, error)
	CreateFolder(folder *models.Folder) error
	SaveFolder(folder *models.Folder) error
	// RemoveFolder erases the record irreversibly.
	RemoveFolder(id string) error

	// FileByID returns the file regardless of its trash state.
	FileByID(ownerID uint, id string) (*models.File, error)
	FileByLink(token string) (*models.File, error)
	FileNameTaken(ownerID uint, folderID *string, name string, excludeID string) (bool, error)
	// ListFiles returns all live files of the owner.
	ListFiles(ownerID uint) ([]models.File, error)
	// FilesInFolder returns the owner's live files directly under folderID;
	// nil means root-level files.
	FilesInFolder(ownerID uint, folderID *string) ([]models.File, error)
	ListTrashedFiles(ownerID uint) ([]models.File, error)
	CreateFile(file *models.File) error
	SaveFile(file *models.File) error
	RemoveFile(id string) error
}

// ObjectStore is the slice of the object-store contract the engine itself
// drives: container lifecycle tied to folders and payload copy/removal tied to
// files. Uploading bytes stays with the HTTP layer.
type ObjectStore interface {
	CreateContainer(path string) error
	DeleteContainer(path string) (int, error)
	CopyObject(srcKey, dstKey string) error
	DeleteObject(key string) error
}
