package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go-cloud-drive/internal/hierarchy"
	"go-cloud-drive/internal/models"
	"go-cloud-drive/internal/utils"
	"go-cloud-drive/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultURLExpiration = 24 * time.Hour
	maxConcurrentUploads = 5
)

// UploadFile handles a single multipart upload
func (h *Handler) UploadFile(c *gin.Context) {
	userID := currentUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	if fileHeader.Size > h.cfg.Storage.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	var folderID *string
	if id := c.PostForm("folder_id"); id != "" {
		folderID = &id
	}

	name := c.PostForm("name")
	if name == "" {
		name = fileHeader.Filename
	}

	file, err := h.storeUpload(userID, fileHeader, name, folderID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.events.Notify(userID, websocket.FileUploaded, file.ID, file.Name)
	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"file":    file,
	})
}

// BulkUploadFiles handles a multi-file upload, reporting per-item results
func (h *Handler) BulkUploadFiles(c *gin.Context) {
	userID := currentUserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}

	var folderID *string
	if id := c.PostForm("folder_id"); id != "" {
		folderID = &id
	}

	sem := make(chan struct{}, maxConcurrentUploads)
	var wg sync.WaitGroup
	results := make([]gin.H, len(uploads))

	for i, fileHeader := range uploads {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, fileHeader *multipart.FileHeader) {
			defer wg.Done()
			defer func() { <-sem }()

			if fileHeader.Size > h.cfg.Storage.MaxUploadSize {
				results[i] = gin.H{"name": fileHeader.Filename, "success": false, "error": "File too large"}
				return
			}
			file, err := h.storeUpload(userID, fileHeader, fileHeader.Filename, folderID)
			if err != nil {
				results[i] = gin.H{"name": fileHeader.Filename, "success": false, "error": err.Error()}
				return
			}
			h.events.Notify(userID, websocket.FileUploaded, file.ID, file.Name)
			results[i] = gin.H{"name": fileHeader.Filename, "success": true, "file": file}
		}(i, fileHeader)
	}

	wg.Wait()

	successCount := 0
	for _, result := range results {
		if result["success"].(bool) {
			successCount++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Bulk upload completed",
		"total":         len(uploads),
		"success_count": successCount,
		"results":       results,
	})
}

// storeUpload pushes the payload (and a thumbnail for images) into the object
// store, then registers the file with the engine. The uploaded object is
// cleaned up when registration fails so rejected uploads leave nothing behind.
func (h *Handler) storeUpload(userID uint, fileHeader *multipart.FileHeader, name string, folderID *string) (*models.File, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %v", err)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	key := fmt.Sprintf("%d/%s%s", userID, uuid.NewString(), filepath.Ext(name))
	if _, err := h.objects.PutObject(key, data, mimeType); err != nil {
		return nil, &hierarchy.Error{Kind: hierarchy.KindDependency, Msg: "failed to store file payload", Err: err}
	}

	thumbnailKey := ""
	if utils.IsImage(mimeType) {
		if thumb, err := utils.RenderThumbnail(bytes.NewReader(data)); err == nil {
			thumbnailKey = key + ".thumb.jpg"
			if _, err := h.objects.PutObject(thumbnailKey, thumb, "image/jpeg"); err != nil {
				thumbnailKey = ""
			}
		} else {
			log.Printf("thumbnail rendering failed for %s: %v", name, err)
		}
	}

	file, err := h.engine.CreateFile(userID, hierarchy.CreateFileInput{
		Name:         name,
		OriginalName: fileHeader.Filename,
		MimeType:     mimeType,
		SizeBytes:    fileHeader.Size,
		FolderID:     folderID,
		StorageKey:   key,
		ThumbnailKey: thumbnailKey,
	})
	if err != nil {
		h.objects.DeleteObject(key)
		if thumbnailKey != "" {
			h.objects.DeleteObject(thumbnailKey)
		}
		return nil, err
	}
	return file, nil
}

// ListFiles handles listing files with optional filters
func (h *Handler) ListFiles(c *gin.Context) {
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
	folderID := c.Query("folder_id")
	fileType := c.Query("type")

	files, err := h.engine.Files(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	filtered := files[:0]
	for _, file := range files {
		if search != "" && !strings.Contains(strings.ToLower(file.Name), strings.ToLower(search)) {
			continue
		}
		if fileType != "" && !strings.HasPrefix(file.MimeType, fileType) {
			continue
		}
		switch {
		case folderID == "":
		case folderID == "root":
			if file.FolderID != nil {
				continue
			}
		default:
			if file.FolderID == nil || *file.FolderID != folderID {
				continue
			}
		}
		filtered = append(filtered, file)
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
		"files": filtered[start:end],
		"pagination": gin.H{
			"current_page": page,
			"total_pages":  (total + limit - 1) / limit,
			"total_items":  total,
			"per_page":     limit,
		},
	})
}

// GetFile handles retrieving file metadata
func (h *Handler) GetFile(c *gin.Context) {
	file, err := h.engine.File(currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"file": file}
	if file.ThumbnailKey != "" {
		response["thumbnail_url"] = h.objects.PublicURL(file.ThumbnailKey)
	}
	c.JSON(http.StatusOK, response)
}

// DownloadFile returns a presigned URL for the payload and records the access
func (h *Handler) DownloadFile(c *gin.Context) {
	userID := currentUserID(c)

	expiration := defaultURLExpiration
	if seconds := utils.ParseIntOption(c.Query("expires")); seconds > 0 {
		expiration = time.Duration(seconds) * time.Second
	}

	file, err := h.engine.RecordDownload(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	url, err := h.objects.PresignedURL(file.StorageKey, expiration)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Failed to generate download URL: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file":           file,
		"download_url":   url,
		"url_expiration": int(expiration.Seconds()),
	})
}

// UpdateFile handles renaming a file
func (h *Handler) UpdateFile(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required,min=1,max=255"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: file name is required"})
		return
	}

	file, err := h.engine.RenameFile(currentUserID(c), c.Param("id"), input.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, file)
}

// MoveFile handles re-homing a file into another folder (or the root)
func (h *Handler) MoveFile(c *gin.Context) {
	var input struct {
		FolderID *string `json:"folder_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := h.engine.MoveFile(currentUserID(c), c.Param("id"), input.FolderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, file)
}

// CopyFile duplicates a file under a fresh identity
func (h *Handler) CopyFile(c *gin.Context) {
	var input struct {
		Name string `json:"name"`
	}
	// The body is optional; an empty name falls back to "<name>_copy".
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	file, err := h.engine.CopyFile(currentUserID(c), c.Param("id"), input.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, file)
}

// UpdateFileVisibility publishes or unpublishes a file
func (h *Handler) UpdateFileVisibility(c *gin.Context) {
	var input struct {
		Public *bool `json:"public" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: public flag is required"})
		return
	}

	file, err := h.engine.SetFileVisibility(currentUserID(c), c.Param("id"), *input.Public)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, file)
}

// DeleteFile moves a file to the trash
func (h *Handler) DeleteFile(c *gin.Context) {
	userID := currentUserID(c)
	id := c.Param("id")

	if err := h.engine.DeleteFile(userID, id); err != nil {
		respondError(c, err)
		return
	}

	h.events.Notify(userID, websocket.FileTrashed, id, "")
	c.JSON(http.StatusOK, gin.H{"message": "File moved to trash"})
}
