package handlers

import (
	"net/http"

	"go-cloud-drive/internal/models"
	"go-cloud-drive/internal/websocket"

	"github.com/gin-gonic/gin"
)

// ListTrash returns the user's trashed folders and files
func (h *Handler) ListTrash(c *gin.Context) {
	folders, files, err := h.engine.Trash(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	if files == nil {
		files = []models.File{}
	}

	c.JSON(http.StatusOK, gin.H{
		"folders": folders,
		"files":   files,
	})
}

// RestoreFolder brings a trashed folder back
func (h *Handler) RestoreFolder(c *gin.Context) {
	userID := currentUserID(c)

	folder, err := h.engine.RestoreFolder(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.events.Notify(userID, websocket.FolderRestored, folder.ID, folder.Name)
	c.JSON(http.StatusOK, folder)
}

// RestoreFile brings a trashed file back
func (h *Handler) RestoreFile(c *gin.Context) {
	userID := currentUserID(c)

	file, err := h.engine.RestoreFile(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.events.Notify(userID, websocket.FileRestored, file.ID, file.Name)
	c.JSON(http.StatusOK, file)
}

// PurgeFolder removes a trashed folder irreversibly
func (h *Handler) PurgeFolder(c *gin.Context) {
	userID := currentUserID(c)
	id := c.Param("id")

	if err := h.engine.PurgeFolder(userID, id); err != nil {
		respondError(c, err)
		return
	}

	h.events.Notify(userID, websocket.FolderPurged, id, "")
	c.JSON(http.StatusOK, gin.H{"message": "Folder permanently deleted"})
}

// PurgeFile removes a trashed file and its payload irreversibly
func (h *Handler) PurgeFile(c *gin.Context) {
	userID := currentUserID(c)
	id := c.Param("id")

	if err := h.engine.PurgeFile(userID, id); err != nil {
		respondError(c, err)
		return
	}

	h.events.Notify(userID, websocket.FilePurged, id, "")
	c.JSON(http.StatusOK, gin.H{"message": "File permanently deleted"})
}
