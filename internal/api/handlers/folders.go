package handlers

import (
	"net/http"
	"strings"

	"go-cloud-drive/internal/hierarchy"
	"go-cloud-drive/internal/models"
	"go-cloud-drive/internal/utils"
	"go-cloud-drive/internal/websocket"

	"github.com/gin-gonic/gin"
)

// CreateFolder handles folder creation
func (h *Handler) CreateFolder(c *gin.Context) {
	var input struct {
		Name     string  `json:"name" binding:"required,min=1,max=255"`
		ParentID *string `json:"parent_id,omitempty"`
		Color    string  `json:"color"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: folder name is required"})
		return
	}

	folder, err := h.engine.CreateFolder(currentUserID(c), hierarchy.CreateFolderInput{
		Name:     input.Name,
		ParentID: input.ParentID,
		Color:    input.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, folder)
}

// ListFolders handles listing folders with optional search and parent filters
func (h *Handler) ListFolders(c *gin.Context) {
	userID := currentUserID(c)

	page := utils.ParseIntOption(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit := utils.ParseIntOption(c.DefaultQuery("limit", "20"))
	if limit < 1 {
		limit = 20
	}
	search := c.Query("search")
	parentID := c.Query("parent_id")

	folders, err := h.engine.Folders(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	filtered := folders[:0]
	for _, folder := range folders {
		if search != "" && !strings.Contains(strings.ToLower(folder.Name), strings.ToLower(search)) {
			continue
		}
		switch {
		case parentID == "":
		case parentID == "root":
			if folder.ParentID != nil {
				continue
			}
		default:
			if folder.ParentID == nil || *folder.ParentID != parentID {
				continue
			}
		}
		filtered = append(filtered, folder)
	}

	total := len(filtered)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"folders": filtered[start:end],
		"pagination": gin.H{
			"current_page": page,
			"total_pages":  (total + limit - 1) / limit,
			"total_items":  total,
			"per_page":     limit,
		},
	})
}

// FolderTree returns the user's folders as a nested tree
func (h *Handler) FolderTree(c *gin.Context) {
	tree, err := h.engine.FolderTree(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if tree == nil {
		tree = []*hierarchy.TreeNode{}
	}
	c.JSON(http.StatusOK, gin.H{"tree": tree})
}

// GetFolder handles retrieving a single folder with its contents
func (h *Handler) GetFolder(c *gin.Context) {
	folder, err := h.engine.Folder(currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	subfolders, files, err := h.engine.FolderListing(folder)
	if err != nil {
		respondError(c, err)
		return
	}
	folder.FileCount = int64(len(files))
	if subfolders == nil {
		subfolders = []models.Folder{}
	}
	if files == nil {
		files = []models.File{}
	}

	c.JSON(http.StatusOK, gin.H{
		"folder":     folder,
		"subfolders": subfolders,
		"files":      files,
	})
}

// UpdateFolder handles renaming and recoloring a folder
func (h *Handler) UpdateFolder(c *gin.Context) {
	var input struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	id := c.Param("id")

	folder, err := h.engine.Folder(userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if input.Name != nil {
		if folder, err = h.engine.RenameFolder(userID, id, *input.Name); err != nil {
			respondError(c, err)
			return
		}
	}
	if input.Color != nil {
		if folder, err = h.engine.RecolorFolder(userID, id, *input.Color); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, folder)
}

// MoveFolder handles re-parenting a folder
func (h *Handler) MoveFolder(c *gin.Context) {
	var input struct {
		ParentID *string `json:"parent_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder, err := h.engine.MoveFolder(currentUserID(c), c.Param("id"), input.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, folder)
}

// UpdateFolderVisibility publishes or unpublishes a folder
func (h *Handler) UpdateFolderVisibility(c *gin.Context) {
	var input struct {
		Public *bool `json:"public" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: public flag is required"})
		return
	}

	folder, err := h.engine.SetFolderVisibility(currentUserID(c), c.Param("id"), *input.Public)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, folder)
}

// DeleteFolder moves an empty folder to the trash
func (h *Handler) DeleteFolder(c *gin.Context) {
	userID := currentUserID(c)
	id := c.Param("id")

	if err := h.engine.DeleteFolder(userID, id); err != nil {
		respondError(c, err)
		return
	}

	h.events.Notify(userID, websocket.FolderTrashed, id, "")
	c.JSON(http.StatusOK, gin.H{"message": "Folder moved to trash"})
}
