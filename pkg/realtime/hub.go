package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hub fans row-change events out to connected clients. Delivery order is
// not guaranteed; consumers refetch on notification rather than trusting
// event payload ordering.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mutex      sync.RWMutex
}

// AdminRoom receives a copy of every published event.
const AdminRoom = "admin"

type Event struct {
	Type       string                 `json:"type"`
	Resource   string                 `json:"resource"`
	ResourceID string                 `json:"resource_id,omitempty"`
	RoomID     string                 `json:"room_id,omitempty"`
	Timestamp  int64                  `json:"timestamp"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true

	// Every connection joins its personal room; admins additionally see
	// the firehose.
	h.joinRoom(client, "user_"+client.ActorID.Hex())
	if client.Role == "admin" {
		h.joinRoom(client, AdminRoom)
	}
	if client.Role == "driver" {
		h.joinRoom(client, "drivers")
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		for roomID, room := range h.rooms {
			if _, exists := room[client]; exists {
				delete(room, client)
				if len(room) == 0 {
					delete(h.rooms, roomID)
				}
			}
		}
	}
}

func (h *Hub) broadcastMessage(message []byte) {
	var event Event
	if err := json.Unmarshal(message, &event); err != nil {
		log.Printf("Error unmarshaling event: %v", err)
		return
	}

	if event.RoomID != "" {
		h.sendToRoom(event.RoomID, event)
	} else {
		h.sendToAll(event)
	}
}

func (h *Hub) sendToAll(event Event) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	data, _ := json.Marshal(event)
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

func (h *Hub) sendToRoom(roomID string, event Event) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	room, exists := h.rooms[roomID]
	if !exists {
		return
	}

	data, _ := json.Marshal(event)
	for client := range room {
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
			delete(room, client)
		}
	}
}

// Publish routes an event to the interested rooms: the resource room, the
// named user rooms, and the admin firehose.
func (h *Hub) Publish(event Event, userIDs ...primitive.ObjectID) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	for _, userID := range userIDs {
		scoped := event
		scoped.RoomID = "user_" + userID.Hex()
		h.sendToRoom(scoped.RoomID, scoped)
	}

	adminScoped := event
	adminScoped.RoomID = AdminRoom
	h.sendToRoom(AdminRoom, adminScoped)
}

func (h *Hub) joinRoom(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.rooms[roomID] = true
}

func (h *Hub) LeaveRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if room, exists := h.rooms[roomID]; exists {
		delete(room, client)
		delete(client.rooms, roomID)

		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
}
