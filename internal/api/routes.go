package api

import (
	"go-cloud-drive/internal/api/handlers"
	"go-cloud-drive/internal/api/middleware"
	"go-cloud-drive/internal/config"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		setupPublicRoutes(v1, h)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(cfg))
		setupProtectedRoutes(protected, h)
	}
}

// setupPublicRoutes configures routes that don't require authentication
func setupPublicRoutes(rg *gin.RouterGroup, h *handlers.Handler) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	// Anonymous shared-link reads
	public := rg.Group("/public")
	{
		public.GET("/folders/:token", h.GetPublicFolder)
		public.GET("/files/:token", h.GetPublicFile)
	}
}

// setupProtectedRoutes configures routes that require authentication
func setupProtectedRoutes(rg *gin.RouterGroup, h *handlers.Handler) {
	folders := rg.Group("/folders")
	{
		folders.POST("/", h.CreateFolder)
		folders.GET("/", h.ListFolders)
		folders.GET("/tree", h.FolderTree)
		folders.GET("/:id", h.GetFolder)
		folders.PUT("/:id", h.UpdateFolder)
		folders.PUT("/:id/move", h.MoveFolder)
		folders.PUT("/:id/visibility", h.UpdateFolderVisibility)
		folders.DELETE("/:id", h.DeleteFolder)
	}

	files := rg.Group("/files")
	{
		files.POST("/upload", h.UploadFile)
		files.POST("/bulk", h.BulkUploadFiles)
		files.GET("/", h.ListFiles)
		files.GET("/:id", h.GetFile)
		files.GET("/:id/download", h.DownloadFile)
		files.PUT("/:id", h.UpdateFile)
		files.PUT("/:id/move", h.MoveFile)
		files.POST("/:id/copy", h.CopyFile)
		files.PUT("/:id/visibility", h.UpdateFileVisibility)
		files.DELETE("/:id", h.DeleteFile)
	}

	trash := rg.Group("/trash")
	{
		trash.GET("/", h.ListTrash)
		trash.POST("/folders/:id/restore", h.RestoreFolder)
		trash.POST("/files/:id/restore", h.RestoreFile)
		trash.DELETE("/folders/:id", h.PurgeFolder)
		trash.DELETE("/files/:id", h.PurgeFile)
	}

	export := rg.Group("/export")
	{
		export.GET("/csv", h.ExportCSV)
		export.GET("/json", h.ExportJSON)
	}

	rg.GET("/ws", h.Events)
}
