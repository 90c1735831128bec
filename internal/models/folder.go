package models

import (
	"time"
)

// Folder is a node in a user's folder tree. Soft deletion is modelled with an
// explicit flag rather than gorm.DeletedAt so trashed folders stay queryable
// for the trash views and can be restored.
type Folder struct {
	ID         string     `json:"id" gorm:"primarykey"`
	Name       string     `json:"name" gorm:"not null"`
	ParentID   *string    `json:"parent_id" gorm:"index"`
	OwnerID    uint       `json:"owner_id" gorm:"not null;index"`
	Color      string     `json:"color"`
	IsPublic   bool       `json:"is_public"`
	PublicLink *string    `json:"public_link,omitempty" gorm:"index"`
	IsDeleted  bool       `json:"is_deleted" gorm:"index"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	FileCount int64 `json:"file_count" gorm:"-"`
}

// TableName specifies the table name for the Folder model
func (Folder) TableName() string {
	return "folders"
}
