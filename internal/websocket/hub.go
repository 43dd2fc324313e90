package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"notedeck-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub tracks connected clients and the note/notebook rooms they watch.
// Invalidation events fan out to room members; user-targeted events (e.g.
// transcription completion) go to every device of one user. Redis pub/sub
// mirrors both so other instances can deliver to their own clients.
type Hub struct {
	// UserID -> connections (multi-device)
	clients map[uuid.UUID][]*Client

	// room key -> members
	rooms map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rooms:      make(map[string]map[*Client]struct{}),
		rdb:        rdb,
		logger:     log,
	}
}

// NoteRoom and NotebookRoom build the room keys clients subscribe to.
func NoteRoom(noteId uuid.UUID) string { return "note:" + noteId.String() }

func NotebookRoom(nbId uuid.UUID) string { return "notebook:" + nbId.String() }

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			for room := range client.rooms {
				h.leaveRoomLocked(client, room)
			}
			h.mu.Unlock()
		}
	}
}

// Subscribe adds a client to a room.
func (h *Hub) Subscribe(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[client] = struct{}{}
	client.rooms[room] = struct{}{}
}

// Unsubscribe removes a client from a room.
func (h *Hub) Unsubscribe(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveRoomLocked(client, room)
}

func (h *Hub) leaveRoomLocked(client *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(client.rooms, room)
}

// BroadcastRoom delivers an event to every member of a room, locally and via
// Redis for other instances.
func (h *Hub) BroadcastRoom(room, eventType string, payload interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": eventType,
		"room": room,
		"data": payload,
	})

	h.deliverToRoom(room, data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(redisEnvelope{Room: room, Message: data})
		h.rdb.Publish(context.Background(), "cluster_events", envelope)
	}
}

// Send delivers an event to all devices of one user.
func (h *Hub) Send(userID uuid.UUID, eventType string, payload interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": payload,
	})

	h.deliverToUser(userID, data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(redisEnvelope{TargetUserID: userID.String(), Message: data})
		h.rdb.Publish(context.Background(), "cluster_events", envelope)
	}
}

func (h *Hub) deliverToRoom(room string, data []byte) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for client := range h.rooms[room] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		h.push(client, data)
	}
}

func (h *Hub) deliverToUser(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[userID]...)
	h.mu.RUnlock()

	for _, client := range clients {
		h.push(client, data)
	}
}

func (h *Hub) push(client *Client, data []byte) {
	select {
	case client.Send <- data:
	default:
		h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"user_id": client.UserID})
		h.unregister <- client
	}
}

type redisEnvelope struct {
	Room         string          `json:"room,omitempty"`
	TargetUserID string          `json:"target_user_id,omitempty"`
	Message      json.RawMessage `json:"message"`
}

// subscribeToRedis relays envelopes published by other instances. Every
// instance subscribes to the shared channel and delivers only to clients it
// holds locally.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var envelope redisEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if envelope.Room != "" {
			h.deliverToRoom(envelope.Room, envelope.Message)
			continue
		}

		uid, err := uuid.Parse(envelope.TargetUserID)
		if err != nil {
			continue
		}
		h.deliverToUser(uid, envelope.Message)
	}
}
