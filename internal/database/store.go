package database

import (
	"errors"

	"go-cloud-drive/internal/hierarchy"
	"go-cloud-drive/internal/models"

	"gorm.io/gorm"
)

// Store is the Postgres-backed hierarchy.Store. The partial unique indexes
// created by the migrations are the transactional backstop for the engine's
// optimistic sibling-name checks; violations surface here as conflicts.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FolderByID(ownerID uint, id string) (*models.Folder, error) {
	var folder models.Folder
	err := s.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *Store) FolderByLink(token string) (*models.Folder, error) {
	var folder models.Folder
	err := s.db.Where("public_link = ?", token).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *Store) FolderNameTaken(ownerID uint, parentID *string, name string, excludeID string) (bool, error) {
	query := s.db.Model(&models.Folder{}).
		Where("owner_id = ? AND is_deleted = false AND lower(name) = lower(?)", ownerID, name)
	query = scopeByParent(query, "parent_id", parentID)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ChildCounts(ownerID uint, folderID string, includeTrashed bool) (int64, int64, error) {
	folderQuery := s.db.Model(&models.Folder{}).Where("owner_id = ? AND parent_id = ?", ownerID, folderID)
	fileQuery := s.db.Model(&models.File{}).Where("owner_id = ? AND folder_id = ?", ownerID, folderID)
	if !includeTrashed {
		folderQuery = folderQuery.Where("is_deleted = false")
		fileQuery = fileQuery.Where("is_deleted = false")
	}
	var folders, files int64
	if err := folderQuery.Count(&folders).Error; err != nil {
		return 0, 0, err
	}
	if err := fileQuery.Count(&files).Error; err != nil {
		return 0, 0, err
	}
	return folders, files, nil
}

func (s *Store) ListFolders(ownerID uint) ([]models.Folder, error) {
	var folders []models.Folder
	err := s.db.Where("owner_id = ? AND is_deleted = false", ownerID).
		Order("name ASC").
		Find(&folders).Error
	return folders, err
}

func (s *Store) ListTrashedFolders(ownerID uint) ([]models.Folder, error) {
	var folders []models.Folder
	err := s.db.Where("owner_id = ? AND is_deleted = true", ownerID).
		Order("name ASC").
		Find(&folders).Error
	return folders, err
}

func (s *Store) CreateFolder(folder *models.Folder) error {
	return translateDuplicate(s.db.Create(folder).Error, "a folder with that name already exists here")
}

func (s *Store) SaveFolder(folder *models.Folder) error {
	return translateDuplicate(s.db.Save(folder).Error, "a folder with that name already exists here")
}

func (s *Store) RemoveFolder(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.Folder{}).Error
}

func (s *Store) FileByID(ownerID uint, id string) (*models.File, error) {
	var file models.File
	err := s.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (s *Store) FileByLink(token string) (*models.File, error) {
	var file models.File
	err := s.db.Where("public_link = ?", token).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (s *Store) FileNameTaken(ownerID uint, folderID *string, name string, excludeID string) (bool, error) {
	query := s.db.Model(&models.File{}).
		Where("owner_id = ? AND is_deleted = false AND lower(name) = lower(?)", ownerID, name)
	query = scopeByParent(query, "folder_id", folderID)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListFiles(ownerID uint) ([]models.File, error) {
	var files []models.File
	err := s.db.Where("owner_id = ? AND is_deleted = false", ownerID).
		Order("name ASC").
		Find(&files).Error
	return files, err
}

func (s *Store) FilesInFolder(ownerID uint, folderID *string) ([]models.File, error) {
	query := s.db.Where("owner_id = ? AND is_deleted = false", ownerID)
	query = scopeByParent(query, "folder_id", folderID)
	var files []models.File
	err := query.Order("name ASC").Find(&files).Error
	return files, err
}

func (s *Store) ListTrashedFiles(ownerID uint) ([]models.File, error) {
	var files []models.File
	err := s.db.Where("owner_id = ? AND is_deleted = true", ownerID).
		Order("name ASC").
		Find(&files).Error
	return files, err
}

func (s *Store) CreateFile(file *models.File) error {
	return translateDuplicate(s.db.Create(file).Error, "a file with that name already exists here")
}

func (s *Store) SaveFile(file *models.File) error {
	return translateDuplicate(s.db.Save(file).Error, "a file with that name already exists here")
}

func (s *Store) RemoveFile(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.File{}).Error
}

func (s *Store) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *Store) UserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func scopeByParent(query *gorm.DB, column string, parentID *string) *gorm.DB {
	if parentID == nil {
		return query.Where(column + " IS NULL")
	}
	return query.Where(column+" = ?", *parentID)
}

func translateDuplicate(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &hierarchy.Error{Kind: hierarchy.KindConflict, Msg: msg, Err: err}
	}
	return err
}
