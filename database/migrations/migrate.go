package migrations

import (
	"go-cloud-drive/internal/database"
	"go-cloud-drive/internal/models"
)

// Partial unique indexes back the engine's sibling-name checks: two concurrent
// creates can both pass the optimistic read, but only one commit survives.
// COALESCE folds the nullable parent into the key so root-level records are
// covered too.
const (
	folderNameIndex = `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_folders_sibling_name
		ON folders (owner_id, COALESCE(parent_id, ''), lower(name))
		WHERE is_deleted = false`
	fileNameIndex = `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_files_sibling_name
		ON files (owner_id, COALESCE(folder_id, ''), lower(name))
		WHERE is_deleted = false`
)

func Migrate() error {
	db := database.GetDB()

	if err := db.AutoMigrate(
		&models.User{},
		&models.Folder{},
		&models.File{},
	); err != nil {
		return err
	}

	if err := db.Exec(folderNameIndex).Error; err != nil {
		return err
	}
	return db.Exec(fileNameIndex).Error
}
