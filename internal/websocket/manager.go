package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// EventType represents the type of drive event
type EventType string

const (
	FileUploaded   EventType = "file_uploaded"
	FileTrashed    EventType = "file_trashed"
	FileRestored   EventType = "file_restored"
	FilePurged     EventType = "file_purged"
	FolderTrashed  EventType = "folder_trashed"
	FolderRestored EventType = "folder_restored"
	FolderPurged   EventType = "folder_purged"
)

// Event is a drive lifecycle notification pushed to a user's connected clients
type Event struct {
	Type     EventType              `json:"type"`
	UserID   uint                   `json:"user_id"`
	EntityID string                 `json:"entity_id,omitempty"`
	Name     string                 `json:"name,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// Client represents a WebSocket client connection
type Client struct {
	UserID uint
	Conn   *websocket.Conn
}

// Manager handles WebSocket connections and drive event delivery
type Manager struct {
	clients    map[uint][]*Client
	mu         sync.RWMutex
	register   chan *Client
	unregister chan *Client
}

func NewManager() *Manager {
	m := &Manager{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
	go m.run()
	return m
}

// run starts the WebSocket manager
func (m *Manager) run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client.UserID] = append(m.clients[client.UserID], client)
			m.mu.Unlock()
		case client := <-m.unregister:
			m.mu.Lock()
			if clients, ok := m.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						m.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						break
					}
				}
				if len(m.clients[client.UserID]) == 0 {
					delete(m.clients, client.UserID)
				}
			}
			m.mu.Unlock()
		}
	}
}

// RegisterClient registers a new WebSocket client
func (m *Manager) RegisterClient(client *Client) {
	m.register <- client
}

// UnregisterClient unregisters a WebSocket client
func (m *Manager) UnregisterClient(client *Client) {
	m.unregister <- client
}

// Publish sends an event to every connected client of the user
func (m *Manager) Publish(userID uint, event *Event) error {
	m.mu.RLock()
	clients, ok := m.clients[userID]
	m.mu.RUnlock()

	if !ok {
		return nil // No clients connected for this user
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	for _, client := range clients {
		if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			// Keep delivering to the remaining clients.
			continue
		}
	}

	return nil
}

// Notify publishes a drive event for an entity
func (m *Manager) Notify(userID uint, eventType EventType, entityID, name string) {
	event := &Event{
		Type:     eventType,
		UserID:   userID,
		EntityID: entityID,
		Name:     name,
	}
	m.Publish(userID, event)
}
