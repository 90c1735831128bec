package hierarchy

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go-cloud-drive/internal/models"

	"github.com/google/uuid"
)

const (
	// maxNameLength caps folder and file names.
	maxNameLength = 255
	// maxTreeDepth bounds every ancestor walk. A well-formed tree terminates
	// at a root long before this; the cap keeps a corrupted parent chain from
	// looping forever.
	maxTreeDepth = 128
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Engine enforces the folder-tree and file-lifecycle invariants: sibling-name
// uniqueness per owner and parent, acyclic parent chains, and the
// active -> trashed -> gone state machine. It is request-scoped and stateless;
// all state lives behind Store and ObjectStore.
type Engine struct {
	store   Store
	objects ObjectStore
}

func New(store Store, objects ObjectStore) *Engine {
	return &Engine{store: store, objects: objects}
}

// CreateFolderInput carries the caller-supplied fields for a new folder.
type CreateFolderInput struct {
	Name     string
	ParentID *string
	Color    string
}

// CreateFolder validates the name and parent, checks sibling uniqueness, and
// persists the folder. The backing container is provisioned after the record
// commits; a provisioning failure surfaces as a dependency error with the
// record kept.
func (e *Engine) CreateFolder(ownerID uint, in CreateFolderInput) (*models.Folder, error) {
	name, err := validName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := validColor(in.Color); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if _, err := e.liveFolder(ownerID, *in.ParentID); err != nil {
			return nil, err
		}
	}

	taken, err := e.store.FolderNameTaken(ownerID, in.ParentID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("a folder named %q already exists here", name)
	}

	folder := &models.Folder{
		ID:       uuid.NewString(),
		Name:     name,
		ParentID: in.ParentID,
		OwnerID:  ownerID,
		Color:    in.Color,
	}
	if err := e.store.CreateFolder(folder); err != nil {
		return nil, err
	}

	if err := e.objects.CreateContainer(e.containerPath(folder)); err != nil {
		return nil, dependency("folder created but container provisioning failed", err)
	}
	return folder, nil
}

// RenameFolder changes the folder name, re-validating sibling uniqueness.
func (e *Engine) RenameFolder(ownerID uint, folderID, newName string) (*models.Folder, error) {
	name, err := validName(newName)
	if err != nil {
		return nil, err
	}
	folder, err := e.liveFolder(ownerID, folderID)
	if err != nil {
		return nil, err
	}

	taken, err := e.store.FolderNameTaken(ownerID, folder.ParentID, name, folder.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("a folder named %q already exists here", name)
	}

	folder.Name = name
	if err := e.store.SaveFolder(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// RecolorFolder sets the folder display color.
func (e *Engine) RecolorFolder(ownerID uint, folderID, color string) (*models.Folder, error) {
	if err := validColor(color); err != nil {
		return nil, err
	}
	folder, err := e.liveFolder(ownerID, folderID)
	if err != nil {
		return nil, err
	}
	folder.Color = color
	if err := e.store.SaveFolder(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// MoveFolder re-parents a folder. The move is rejected when it would make the
// folder its own ancestor or collide with a sibling name in the destination.
func (e *Engine) MoveFolder(ownerID uint, folderID string, newParentID *string) (*models.Folder, error) {
	folder, err := e.liveFolder(ownerID, folderID)
	if err != nil {
		return nil, err
	}

	if newParentID != nil {
		if _, err := e.liveFolder(ownerID, *newParentID); err != nil {
			return nil, err
		}
		// Walk up from the destination; finding the folder anywhere in that
		// chain (including the destination itself) means the move would
		// create a circular reference. A missing or foreign ancestor is a
		// boundary, not an error: the walk only looks for folderID.
		cursor := newParentID
		for depth := 0; cursor != nil && depth < maxTreeDepth; depth++ {
			if *cursor == folderID {
				return nil, invalidOp("moving the folder there would create a circular reference")
			}
			ancestor, err := e.store.FolderByID(ownerID, *cursor)
			if err != nil {
				return nil, err
			}
			if ancestor == nil {
				break
			}
			cursor = ancestor.ParentID
		}
	}

	taken, err := e.store.FolderNameTaken(ownerID, newParentID, folder.Name, folder.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("a folder named %q already exists in the destination", folder.Name)
	}

	folder.ParentID = newParentID
	if err := e.store.SaveFolder(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// SetFolderVisibility publishes or unpublishes a folder. Publishing mints an
// unguessable link token on first use; unpublishing discards it.
func (e *Engine) SetFolderVisibility(ownerID uint, folderID string, public bool) (*models.Folder, error) {
	folder, err := e.liveFolder(ownerID, folderID)
	if err != nil {
		return nil, err
	}
	folder.IsPublic = public
	if public {
		if folder.PublicLink == nil {
			token := uuid.NewString()
			folder.PublicLink = &token
		}
	} else {
		folder.PublicLink = nil
	}
	if err := e.store.SaveFolder(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// DeleteFolder moves an empty folder to the trash. Folders still holding live
// files or subfolders are rejected; nothing cascades at this layer.
func (e *Engine) DeleteFolder(ownerID uint, folderID string) error {
	folder, err := e.liveFolder(ownerID, folderID)
	if err != nil {
		return err
	}

	childFolders, childFiles, err := e.store.ChildCounts(ownerID, folderID, false)
	if err != nil {
		return err
	}
	if childFolders > 0 || childFiles > 0 {
		return invalidOp("folder contains files or subfolders")
	}

	now := time.Now()
	folder.IsDeleted = true
	folder.DeletedAt = &now
	return e.store.SaveFolder(folder)
}

// RestoreFolder brings a trashed folder back. The sibling-name check is re-run
// because another folder may have claimed the name while this one sat in the
// trash, and a trashed parent must be restored before its children so no live
// record ever points at a trashed one.
func (e *Engine) RestoreFolder(ownerID uint, folderID string) (*models.Folder, error) {
	folder, err := e.store.FolderByID(ownerID, folderID)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, notFound("folder not found")
	}
	if !folder.IsDeleted {
		return nil, invalidOp("folder is not in the trash")
	}

	if folder.ParentID != nil {
		parent, err := e.store.FolderByID(ownerID, *folder.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.IsDeleted {
			return nil, invalidOp("the parent folder is in the trash; restore it first")
		}
	}

	taken, err := e.store.FolderNameTaken(ownerID, folder.ParentID, folder.Name, folder.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("a folder named %q now exists here; rename it before restoring", folder.Name)
	}

	folder.IsDeleted = false
	folder.DeletedAt = nil
	if err := e.store.SaveFolder(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// PurgeFolder removes a trashed folder for good, backing container included.
// It refuses while any child record, trashed ones included, still references
// the folder, so purges run bottom-up and never orphan descendants.
func (e *Engine) PurgeFolder(ownerID uint, folderID string) error {
	folder, err := e.store.FolderByID(ownerID, folderID)
	if err != nil {
		return err
	}
	if folder == nil {
		return notFound("folder not found")
	}
	if !folder.IsDeleted {
		return invalidOp("folder must be moved to the trash first")
	}

	childFolders, childFiles, err := e.store.ChildCounts(ownerID, folderID, true)
	if err != nil {
		return err
	}
	if childFolders > 0 || childFiles > 0 {
		return invalidOp("folder still contains items; purge them first")
	}

	if _, err := e.objects.DeleteContainer(e.containerPath(folder)); err != nil {
		return dependency("failed to remove folder container", err)
	}
	return e.store.RemoveFolder(folder.ID)
}

// Folder returns a single live folder.
func (e *Engine) Folder(ownerID uint, folderID string) (*models.Folder, error) {
	return e.liveFolder(ownerID, folderID)
}

// Folders returns all live folders of the owner as a flat list.
func (e *Engine) Folders(ownerID uint) ([]models.Folder, error) {
	return e.store.ListFolders(ownerID)
}

// FolderTree materializes the owner's live folders into a nested tree.
func (e *Engine) FolderTree(ownerID uint) ([]*TreeNode, error) {
	folders, err := e.store.ListFolders(ownerID)
	if err != nil {
		return nil, err
	}
	return BuildTree(folders), nil
}

// FolderByLink resolves a public folder link for anonymous reads. Trashed or
// unpublished folders are reported as not found, indistinguishable from links
// that never existed.
func (e *Engine) FolderByLink(token string) (*models.Folder, error) {
	folder, err := e.store.FolderByLink(token)
	if err != nil {
		return nil, err
	}
	if folder == nil || folder.IsDeleted || !folder.IsPublic {
		return nil, notFound("folder not found")
	}
	return folder, nil
}

// FolderListing returns the live subfolders and files directly under a public
// folder.
func (e *Engine) FolderListing(folder *models.Folder) ([]models.Folder, []models.File, error) {
	all, err := e.store.ListFolders(folder.OwnerID)
	if err != nil {
		return nil, nil, err
	}
	var children []models.Folder
	for _, f := range all {
		if f.ParentID != nil && *f.ParentID == folder.ID {
			children = append(children, f)
		}
	}
	files, err := e.store.FilesInFolder(folder.OwnerID, &folder.ID)
	if err != nil {
		return nil, nil, err
	}
	return children, files, nil
}

// liveFolder resolves a non-trashed folder owned by ownerID. Missing, trashed
// and foreign folders all come back as not found.
func (e *Engine) liveFolder(ownerID uint, folderID string) (*models.Folder, error) {
	folder, err := e.store.FolderByID(ownerID, folderID)
	if err != nil {
		return nil, err
	}
	if folder == nil || folder.IsDeleted {
		return nil, notFound("folder not found")
	}
	return folder, nil
}

// containerPath derives the object-store container path from the ancestor
// chain. Paths are built from ids, not names, so renames never desync the
// object store.
func (e *Engine) containerPath(folder *models.Folder) string {
	segments := []string{folder.ID}
	cursor := folder.ParentID
	for depth := 0; cursor != nil && depth < maxTreeDepth; depth++ {
		ancestor, err := e.store.FolderByID(folder.OwnerID, *cursor)
		if err != nil || ancestor == nil {
			break
		}
		segments = append(segments, ancestor.ID)
		cursor = ancestor.ParentID
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return fmt.Sprintf("%d/%s", folder.OwnerID, strings.Join(segments, "/"))
}

func validName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", validation("name must not be empty")
	}
	if len(name) > maxNameLength {
		return "", validation("name must be at most %d characters", maxNameLength)
	}
	if strings.ContainsRune(name, '/') {
		return "", validation("name must not contain '/'")
	}
	return name, nil
}

func validColor(color string) error {
	if color == "" {
		return nil
	}
	if !hexColorPattern.MatchString(color) {
		return validation("color must be a hex value like #4A90D9")
	}
	return nil
}
