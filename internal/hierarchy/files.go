package hierarchy

import (
	"fmt"
	"path/filepath"
	"time"

	"go-cloud-drive/internal/models"

	"github.com/google/uuid"
)

// CreateFileInput carries the metadata of a freshly uploaded object. The
// payload is already in the object store under StorageKey when the engine is
// asked to create the record.
type CreateFileInput struct {
	Name         string
	OriginalName string
	MimeType     string
	SizeBytes    int64
	FolderID     *string
	StorageKey   string
	ThumbnailKey string
}

// CreateFile registers an uploaded object, enforcing folder ownership and
// sibling-name uniqueness within the target scope.
func (e *Engine) CreateFile(ownerID uint, in CreateFileInput) (*models.File, error) {
	name, err := validName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.FolderID != nil {
		if _, err := e.liveFolder(ownerID, *in.FolderID); err != nil {
			return nil, err
		}
	}

	taken, err := e.store.FileNameTaken(ownerID, in.FolderID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("a file named %q already exists here", name)
	}

	file := &models.File{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		FolderID:     in.FolderID,
		Name:         name,
		OriginalName: in.OriginalName,
		MimeType:     in.MimeType,
		SizeBytes:    in.SizeBytes,
		Extension:    filepath.Ext(name),
		StorageKey:   in.StorageKey,
		ThumbnailKey: in.ThumbnailKey,
	}
	if err := e.store.CreateFile(file); err != nil {
		return nil, err
	}
	return file, nil
}

// RenameFile changes the file name, re-validating uniqueness in its scope.
func (e *Engine) RenameFile(ownerID uint, fileID, newName string) (*models.File, error) {
	name, err := validName(newName)
	if err != nil {
		return nil, err
	}
	file, err := e.liveFile(ownerID, fileID)
	if err != nil {
		return nil, err
	}

	taken, err := e.store.FileNameTaken(ownerID, file.FolderID, name, file.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("a file named %q already exists here", name)
	}

	file.Name = name
	file.Extension = filepath.Ext(name)
	if err := e.store.SaveFile(file); err != nil {
		return nil, err
	}
	return file, nil
}

// MoveFile attaches the file to another live folder, or to the root when
// folderID is nil. Files have no children, so no cycle concern applies.
func (e *Engine) MoveFile(ownerID uint, fileID string, folderID *string) (*models.File, error) {
	file, err := e.liveFile(ownerID, fileID)
	if err != nil {
		return nil, err
	}
	if folderID != nil {
		if _, err := e.liveFolder(ownerID, *folderID); err != nil {
			return nil, err
		}
	}

	taken, err := e.store.FileNameTaken(ownerID, folderID, file.Name, file.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("a file named %q already exists in the destination", file.Name)
	}

	file.FolderID = folderID
	if err := e.store.SaveFile(file); err != nil {
		return nil, err
	}
	return file, nil
}

// CopyFile duplicates a file within its folder under a fresh identity. The
// payload is copied in the object store; visibility and the download counter
// always reset on the copy regardless of the source. An empty name defaults
// to "<name>_copy".
func (e *Engine) CopyFile(ownerID uint, fileID, name string) (*models.File, error) {
	src, err := e.liveFile(ownerID, fileID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = src.Name + "_copy"
	}
	name, err = validName(name)
	if err != nil {
		return nil, err
	}

	taken, err := e.store.FileNameTaken(ownerID, src.FolderID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("a file named %q already exists here", name)
	}

	copyID := uuid.NewString()
	storageKey := fmt.Sprintf("%d/%s%s", ownerID, copyID, src.Extension)
	if err := e.objects.CopyObject(src.StorageKey, storageKey); err != nil {
		return nil, dependency("failed to copy file payload", err)
	}
	thumbnailKey := ""
	if src.ThumbnailKey != "" {
		thumbnailKey = storageKey + ".thumb.jpg"
		if err := e.objects.CopyObject(src.ThumbnailKey, thumbnailKey); err != nil {
			// The copy is usable without its thumbnail.
			thumbnailKey = ""
		}
	}

	file := &models.File{
		ID:           copyID,
		OwnerID:      ownerID,
		FolderID:     src.FolderID,
		Name:         name,
		OriginalName: src.OriginalName,
		MimeType:     src.MimeType,
		SizeBytes:    src.SizeBytes,
		Extension:    src.Extension,
		StorageKey:   storageKey,
		ThumbnailKey: thumbnailKey,
	}
	if err := e.store.CreateFile(file); err != nil {
		return nil, err
	}
	return file, nil
}

// SetFileVisibility publishes or unpublishes a file, minting a link token on
// first publish.
func (e *Engine) SetFileVisibility(ownerID uint, fileID string, public bool) (*models.File, error) {
	file, err := e.liveFile(ownerID, fileID)
	if err != nil {
		return nil, err
	}
	file.IsPublic = public
	if public {
		if file.PublicLink == nil {
			token := uuid.NewString()
			file.PublicLink = &token
		}
	} else {
		file.PublicLink = nil
	}
	if err := e.store.SaveFile(file); err != nil {
		return nil, err
	}
	return file, nil
}

// DeleteFile moves a file to the trash.
func (e *Engine) DeleteFile(ownerID uint, fileID string) error {
	file, err := e.liveFile(ownerID, fileID)
	if err != nil {
		return err
	}
	now := time.Now()
	file.IsDeleted = true
	file.DeletedAt = &now
	return e.store.SaveFile(file)
}

// RestoreFile brings a trashed file back, re-validating its name against the
// current scope. The containing folder must be live again first; restores run
// top-down just as purges run bottom-up.
func (e *Engine) RestoreFile(ownerID uint, fileID string) (*models.File, error) {
	file, err := e.store.FileByID(ownerID, fileID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, notFound("file not found")
	}
	if !file.IsDeleted {
		return nil, invalidOp("file is not in the trash")
	}

	if file.FolderID != nil {
		parent, err := e.store.FolderByID(ownerID, *file.FolderID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.IsDeleted {
			return nil, invalidOp("the containing folder is in the trash; restore it first")
		}
	}

	taken, err := e.store.FileNameTaken(ownerID, file.FolderID, file.Name, file.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("a file named %q now exists here; rename it before restoring", file.Name)
	}

	file.IsDeleted = false
	file.DeletedAt = nil
	if err := e.store.SaveFile(file); err != nil {
		return nil, err
	}
	return file, nil
}

// PurgeFile removes a trashed file and its payload for good.
func (e *Engine) PurgeFile(ownerID uint, fileID string) error {
	file, err := e.store.FileByID(ownerID, fileID)
	if err != nil {
		return err
	}
	if file == nil {
		return notFound("file not found")
	}
	if !file.IsDeleted {
		return invalidOp("file must be moved to the trash first")
	}

	if err := e.objects.DeleteObject(file.StorageKey); err != nil {
		return dependency("failed to remove file payload", err)
	}
	if file.ThumbnailKey != "" {
		// Best effort; a stray thumbnail is harmless.
		_ = e.objects.DeleteObject(file.ThumbnailKey)
	}
	return e.store.RemoveFile(file.ID)
}

// File returns a single live file.
func (e *Engine) File(ownerID uint, fileID string) (*models.File, error) {
	return e.liveFile(ownerID, fileID)
}

// Files returns all live files of the owner.
func (e *Engine) Files(ownerID uint) ([]models.File, error) {
	return e.store.ListFiles(ownerID)
}

// RecordDownload bumps the download counter and access time of a live file.
func (e *Engine) RecordDownload(ownerID uint, fileID string) (*models.File, error) {
	file, err := e.liveFile(ownerID, fileID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	file.DownloadCount++
	file.LastAccessedAt = &now
	if err := e.store.SaveFile(file); err != nil {
		return nil, err
	}
	return file, nil
}

// FileByLink resolves a public file link for anonymous reads, with the same
// no-leak semantics as FolderByLink.
func (e *Engine) FileByLink(token string) (*models.File, error) {
	file, err := e.store.FileByLink(token)
	if err != nil {
		return nil, err
	}
	if file == nil || file.IsDeleted || !file.IsPublic {
		return nil, notFound("file not found")
	}
	return file, nil
}

// Trash returns the owner's trashed folders and files.
func (e *Engine) Trash(ownerID uint) ([]models.Folder, []models.File, error) {
	folders, err := e.store.ListTrashedFolders(ownerID)
	if err != nil {
		return nil, nil, err
	}
	files, err := e.store.ListTrashedFiles(ownerID)
	if err != nil {
		return nil, nil, err
	}
	return folders, files, nil
}

// liveFile resolves a non-trashed file owned by ownerID.
func (e *Engine) liveFile(ownerID uint, fileID string) (*models.File, error) {
	file, err := e.store.FileByID(ownerID, fileID)
	if err != nil {
		return nil, err
	}
	if file == nil || file.IsDeleted {
		return nil, notFound("file not found")
	}
	return file, nil
}
