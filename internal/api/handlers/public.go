package handlers

import (
	"fmt"
	"net/http"

	"go-cloud-drive/internal/models"

	"github.com/gin-gonic/gin"
)

// GetPublicFolder serves an anonymous folder listing by link token. Ownership
// is not checked; trashed or unpublished folders look exactly like missing
// ones.
func (h *Handler) GetPublicFolder(c *gin.Context) {
	folder, err := h.engine.FolderByLink(c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	subfolders, files, err := h.engine.FolderListing(folder)
	if err != nil {
		respondError(c, err)
		return
	}
	if subfolders == nil {
		subfolders = []models.Folder{}
	}
	if files == nil {
		files = []models.File{}
	}

	c.JSON(http.StatusOK, gin.H{
		"folder":     publicFolderView(folder),
		"subfolders": subfolders,
		"files":      files,
	})
}

// GetPublicFile serves anonymous file metadata and a short-lived download URL
// by link token.
func (h *Handler) GetPublicFile(c *gin.Context) {
	file, err := h.engine.FileByLink(c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	url, err := h.objects.PresignedURL(file.StorageKey, defaultURLExpiration)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Failed to generate download URL: %v", err)})
		return
	}

	// Anonymous reads count as downloads too.
	if _, err := h.engine.RecordDownload(file.OwnerID, file.ID); err == nil {
		file.DownloadCount++
	}

	c.JSON(http.StatusOK, gin.H{
		"file":         publicFileView(file),
		"download_url": url,
	})
}

// publicFolderView strips owner-only fields from an anonymous response.
func publicFolderView(folder *models.Folder) gin.H {
	return gin.H{
		"name":       folder.Name,
		"color":      folder.Color,
		"created_at": folder.CreatedAt,
		"updated_at": folder.UpdatedAt,
	}
}

func publicFileView(file *models.File) gin.H {
	return gin.H{
		"name":       file.Name,
		"mime_type":  file.MimeType,
		"size_bytes": file.SizeBytes,
		"extension":  file.Extension,
		"created_at": file.CreatedAt,
		"updated_at": file.UpdatedAt,
	}
}
