package hierarchy

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go-cloud-drive/internal/models"
)

// MemoryStore is the in-memory Store implementation. It backs the test suite
// and serves as the explicit fallback adapter when no database is configured,
// selected once at startup instead of branching inside business logic.
type MemoryStore struct {
	mu      sync.RWMutex
	folders map[string]models.Folder
	files   map[string]models.File
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		folders: make(map[string]models.Folder),
		files:   make(map[string]models.File),
	}
}

func (s *MemoryStore) FolderByID(ownerID uint, id string) (*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	folder, ok := s.folders[id]
	if !ok || folder.OwnerID != ownerID {
		return nil, nil
	}
	return &folder, nil
}

func (s *MemoryStore) FolderByLink(token string) (*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, folder := range s.folders {
		if folder.PublicLink != nil && *folder.PublicLink == token {
			f := folder
			return &f, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FolderNameTaken(ownerID uint, parentID *string, name string, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, folder := range s.folders {
		if folder.OwnerID != ownerID || folder.IsDeleted || folder.ID == excludeID {
			continue
		}
		if sameScope(folder.ParentID, parentID) && strings.EqualFold(folder.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ChildCounts(ownerID uint, folderID string, includeTrashed bool) (int64, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var folders, files int64
	for _, folder := range s.folders {
		if folder.OwnerID != ownerID || folder.ParentID == nil || *folder.ParentID != folderID {
			continue
		}
		if folder.IsDeleted && !includeTrashed {
			continue
		}
		folders++
	}
	for _, file := range s.files {
		if file.OwnerID != ownerID || file.FolderID == nil || *file.FolderID != folderID {
			continue
		}
		if file.IsDeleted && !includeTrashed {
			continue
		}
		files++
	}
	return folders, files, nil
}

func (s *MemoryStore) ListFolders(ownerID uint) ([]models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Folder
	for _, folder := range s.folders {
		if folder.OwnerID == ownerID && !folder.IsDeleted {
			out = append(out, folder)
		}
	}
	sortFoldersByName(out)
	return out, nil
}

func (s *MemoryStore) ListTrashedFolders(ownerID uint) ([]models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Folder
	for _, folder := range s.folders {
		if folder.OwnerID == ownerID && folder.IsDeleted {
			out = append(out, folder)
		}
	}
	sortFoldersByName(out)
	return out, nil
}

func (s *MemoryStore) CreateFolder(folder *models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	folder.CreatedAt = now
	folder.UpdatedAt = now
	s.folders[folder.ID] = *folder
	return nil
}

func (s *MemoryStore) SaveFolder(folder *models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	folder.UpdatedAt = time.Now()
	s.folders[folder.ID] = *folder
	return nil
}

func (s *MemoryStore) RemoveFolder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.folders, id)
	return nil
}

func (s *MemoryStore) FileByID(ownerID uint, id string) (*models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	file, ok := s.files[id]
	if !ok || file.OwnerID != ownerID {
		return nil, nil
	}
	return &file, nil
}

func (s *MemoryStore) FileByLink(token string) (*models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, file := range s.files {
		if file.PublicLink != nil && *file.PublicLink == token {
			f := file
			return &f, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FileNameTaken(ownerID uint, folderID *string, name string, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, file := range s.files {
		if file.OwnerID != ownerID || file.IsDeleted || file.ID == excludeID {
			continue
		}
		if sameScope(file.FolderID, folderID) && strings.EqualFold(file.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListFiles(ownerID uint) ([]models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.File
	for _, file := range s.files {
		if file.OwnerID == ownerID && !file.IsDeleted {
			out = append(out, file)
		}
	}
	sortFilesByName(out)
	return out, nil
}

func (s *MemoryStore) FilesInFolder(ownerID uint, folderID *string) ([]models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.File
	for _, file := range s.files {
		if file.OwnerID == ownerID && !file.IsDeleted && sameScope(file.FolderID, folderID) {
			out = append(out, file)
		}
	}
	sortFilesByName(out)
	return out, nil
}

func (s *MemoryStore) ListTrashedFiles(ownerID uint) ([]models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.File
	for _, file := range s.files {
		if file.OwnerID == ownerID && file.IsDeleted {
			out = append(out, file)
		}
	}
	sortFilesByName(out)
	return out, nil
}

func (s *MemoryStore) CreateFile(file *models.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	file.CreatedAt = now
	file.UpdatedAt = now
	s.files[file.ID] = *file
	return nil
}

func (s *MemoryStore) SaveFile(file *models.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	file.UpdatedAt = time.Now()
	s.files[file.ID] = *file
	return nil
}

func (s *MemoryStore) RemoveFile(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, id)
	return nil
}

func sameScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sortFoldersByName(folders []models.Folder) {
	sort.Slice(folders, func(i, j int) bool {
		return folders[i].Name < folders[j].Name
	})
}

func sortFilesByName(files []models.File) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
}
