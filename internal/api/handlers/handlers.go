package handlers

import (
	"net/http"

	"go-cloud-drive/internal/config"
	"go-cloud-drive/internal/hierarchy"
	"go-cloud-drive/internal/storage"
	"go-cloud-drive/internal/websocket"

	"github.com/gin-gonic/gin"
)

// Handler bundles the collaborators the HTTP layer talks to. All of them are
// chosen once at startup, so no request path ever branches on deployment mode.
type Handler struct {
	cfg     *config.Config
	engine  *hierarchy.Engine
	users   UserStore
	objects storage.ObjectStore
	events  *websocket.Manager
}

func New(cfg *config.Config, engine *hierarchy.Engine, users UserStore, objects storage.ObjectStore, events *websocket.Manager) *Handler {
	return &Handler{
		cfg:     cfg,
		engine:  engine,
		users:   users,
		objects: objects,
		events:  events,
	}
}

// currentUserID returns the authenticated user id set by the JWT middleware.
func currentUserID(c *gin.Context) uint {
	userID, _ := c.Get("user_id")
	id, _ := userID.(uint)
	return id
}

// respondError maps engine failures to HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch hierarchy.KindOf(err) {
	case hierarchy.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case hierarchy.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case hierarchy.KindInvalidOperation, hierarchy.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case hierarchy.KindDependency:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
