package models

import (
	"time"
)

// File is the metadata record for an uploaded object. The binary payload lives
// in the object store under StorageKey; everything else is owned by this record.
type File struct {
	ID             string     `json:"id" gorm:"primarykey"`
	OwnerID        uint       `json:"owner_id" gorm:"not null;index"`
	FolderID       *string    `json:"folder_id" gorm:"index"`
	Name           string     `json:"name" gorm:"not null"`
	OriginalName   string     `json:"original_name"`
	MimeType       string     `json:"mime_type"`
	SizeBytes      int64      `json:"size_bytes"`
	Extension      string     `json:"extension"`
	StorageKey     string     `json:"-"`
	ThumbnailKey   string     `json:"-"`
	IsPublic       bool       `json:"is_public"`
	PublicLink     *string    `json:"public_link,omitempty" gorm:"index"`
	IsDeleted      bool       `json:"is_deleted" gorm:"index"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	DownloadCount  int64      `json:"download_count"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the File model
func (File) TableName() string {
	return "files"
}
