package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExportCSV streams the user's file inventory as CSV
func (h *Handler) ExportCSV(c *gin.Context) {
	files, err := h.engine.Files(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=files_export.csv")

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write([]string{"ID", "Name", "MimeType", "SizeBytes", "Folder", "Downloads", "Created At", "Updated At"}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write CSV header"})
		return
	}

	for _, f := range files {
		folderID := ""
		if f.FolderID != nil {
			folderID = *f.FolderID
		}
		if err := writer.Write([]string{
			f.ID,
			f.Name,
			f.MimeType,
			fmt.Sprint(f.SizeBytes),
			folderID,
			fmt.Sprint(f.DownloadCount),
			f.CreatedAt.String(),
			f.UpdatedAt.String(),
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write CSV data"})
			return
		}
	}

	writer.Flush()
}

// ExportJSON streams the user's file inventory as JSON
func (h *Handler) ExportJSON(c *gin.Context) {
	files, err := h.engine.Files(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", "attachment;filename=files_export.json")

	jsonData, err := json.MarshalIndent(files, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to marshal JSON"})
		return
	}

	c.Data(http.StatusOK, "application/json", jsonData)
}
