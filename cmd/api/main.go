package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"go-cloud-drive/database/migrations"
	"go-cloud-drive/internal/api"
	"go-cloud-drive/internal/api/handlers"
	"go-cloud-drive/internal/config"
	"go-cloud-drive/internal/database"
	"go-cloud-drive/internal/hierarchy"
	"go-cloud-drive/internal/storage"
	"go-cloud-drive/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Select the persistence adapters once, at startup. Without a configured
	// database the server runs entirely on the in-memory stores.
	var store hierarchy.Store
	var users handlers.UserStore
	if cfg.Database.Configured() {
		if err := database.Initialize(cfg); err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		if err := migrations.Migrate(); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		gormStore := database.NewStore(database.GetDB())
		store = gormStore
		users = gormStore
	} else {
		log.Println("No database configured, using in-memory stores")
		store = hierarchy.NewMemoryStore()
		users = handlers.NewMemoryUserStore()
	}

	// Initialize object storage
	objects, err := storage.NewFromConfig(cfg)
	if err != nil {
		log.Fatal("Failed to initialize object storage:", err)
	}

	engine := hierarchy.New(store, objects)
	events := websocket.NewManager()
	h := handlers.New(cfg, engine, users, objects, events)

	// Initialize Router
	router := gin.Default()
	api.SetupRoutes(router, h, cfg)

	// Start Server
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
