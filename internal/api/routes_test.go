package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-cloud-drive/internal/api/handlers"
	"go-cloud-drive/internal/config"
	"go-cloud-drive/internal/hierarchy"
	"go-cloud-drive/internal/storage"
	"go-cloud-drive/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", Env: "test"},
		JWT:    config.JWTConfig{Secret: "test-secret", Expiration: "1h"},
		Storage: config.StorageConfig{
			Provider:      "memory",
			MaxUploadSize: 52428800,
		},
	}
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	objects := storage.NewMemoryStore()
	engine := hierarchy.New(hierarchy.NewMemoryStore(), objects)
	h := handlers.New(cfg, engine, handlers.NewMemoryUserStore(), objects, websocket.NewManager())

	router := gin.New()
	SetupRoutes(router, h, cfg)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

func registerAndLogin(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "tester",
		"email":    email,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	token, ok := decode(t, resp)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestAuthFlow(t *testing.T) {
	router := newTestServer(t)

	registerAndLogin(t, router, "a@example.com")

	// Re-registering the same email conflicts.
	resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "tester",
		"email":    "a@example.com",
		"password": "correct-horse",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "a@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "a@example.com",
		"password": "correct-horse",
	})
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, decode(t, resp)["token"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestServer(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/folders/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/folders/", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestFolderEndpoints(t *testing.T) {
	router := newTestServer(t)
	token := registerAndLogin(t, router, "a@example.com")

	resp := doJSON(t, router, http.MethodPost, "/api/v1/folders/", token, gin.H{"name": "Docs"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	docsID := decode(t, resp)["id"].(string)

	// Duplicate sibling name.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/folders/", token, gin.H{"name": "docs"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/folders/", token, gin.H{"name": "Sub", "parent_id": docsID})
	require.Equal(t, http.StatusCreated, resp.Code)
	subID := decode(t, resp)["id"].(string)

	// Moving a folder under its own descendant is rejected.
	resp = doJSON(t, router, http.MethodPut, "/api/v1/folders/"+docsID+"/move", token, gin.H{"parent_id": subID})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Rename and recolor through the same update endpoint.
	resp = doJSON(t, router, http.MethodPut, "/api/v1/folders/"+subID, token, gin.H{"name": "Renamed", "color": "#112233"})
	require.Equal(t, http.StatusOK, resp.Code)
	updated := decode(t, resp)
	assert.Equal(t, "Renamed", updated["name"])
	assert.Equal(t, "#112233", updated["color"])

	resp = doJSON(t, router, http.MethodGet, "/api/v1/folders/"+docsID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	listing := decode(t, resp)
	assert.Len(t, listing["subfolders"], 1)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/folders/tree", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	// Another user cannot see the folder; it reads as missing, not forbidden.
	other := registerAndLogin(t, router, "b@example.com")
	resp = doJSON(t, router, http.MethodGet, "/api/v1/folders/"+docsID, other, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestFolderTrashEndpoints(t *testing.T) {
	router := newTestServer(t)
	token := registerAndLogin(t, router, "a@example.com")

	resp := doJSON(t, router, http.MethodPost, "/api/v1/folders/", token, gin.H{"name": "Parent"})
	require.Equal(t, http.StatusCreated, resp.Code)
	parentID := decode(t, resp)["id"].(string)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/folders/", token, gin.H{"name": "Child", "parent_id": parentID})
	require.Equal(t, http.StatusCreated, resp.Code)
	childID := decode(t, resp)["id"].(string)

	// Deleting a non-empty folder fails.
	resp = doJSON(t, router, http.MethodDelete, "/api/v1/folders/"+parentID, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(t, router, http.MethodDelete, "/api/v1/folders/"+childID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/trash/", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode(t, resp)["folders"], 1)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/trash/folders/"+childID+"/restore", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	// Purge requires the folder to be in the trash.
	resp = doJSON(t, router, http.MethodDelete, "/api/v1/trash/folders/"+childID, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(t, router, http.MethodDelete, "/api/v1/folders/"+childID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = doJSON(t, router, http.MethodDelete, "/api/v1/trash/folders/"+childID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	// Gone means gone.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/trash/folders/"+childID+"/restore", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestPublicFolderLink(t *testing.T) {
	router := newTestServer(t)
	token := registerAndLogin(t, router, "a@example.com")

	resp := doJSON(t, router, http.MethodPost, "/api/v1/folders/", token, gin.H{"name": "Shared"})
	require.Equal(t, http.StatusCreated, resp.Code)
	folderID := decode(t, resp)["id"].(string)

	resp = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/folders/%s/visibility", folderID), token, gin.H{"public": true})
	require.Equal(t, http.StatusOK, resp.Code)
	link, ok := decode(t, resp)["public_link"].(string)
	require.True(t, ok)
	require.NotEmpty(t, link)

	// No token needed for the public read.
	resp = doJSON(t, router, http.MethodGet, "/api/v1/public/folders/"+link, "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	view := decode(t, resp)["folder"].(map[string]any)
	assert.Equal(t, "Shared", view["name"])
	// Owner-only fields stay private.
	assert.NotContains(t, view, "owner_id")

	// Unpublishing kills the link.
	resp = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/folders/%s/visibility", folderID), token, gin.H{"public": false})
	require.Equal(t, http.StatusOK, resp.Code)
	resp = doJSON(t, router, http.MethodGet, "/api/v1/public/folders/"+link, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListFoldersFiltering(t *testing.T) {
	router := newTestServer(t)
	token := registerAndLogin(t, router, "a@example.com")

	resp := doJSON(t, router, http.MethodPost, "/api/v1/folders/", token, gin.H{"name": "Projects"})
	require.Equal(t, http.StatusCreated, resp.Code)
	parentID := decode(t, resp)["id"].(string)
	resp = doJSON(t, router, http.MethodPost, "/api/v1/folders/", token, gin.H{"name": "Photos"})
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = doJSON(t, router, http.MethodPost, "/api/v1/folders/", token, gin.H{"name": "Nested", "parent_id": parentID})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/folders/?parent_id=root", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode(t, resp)["folders"], 2)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/folders/?parent_id="+parentID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode(t, resp)["folders"], 1)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/folders/?search=pho", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode(t, resp)["folders"], 1)
}
