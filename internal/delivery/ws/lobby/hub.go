package ws_lobby

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/rankingdocopo/core/internal/model"
)

const (
	EventRoomOpened   = "ROOM_OPENED"
	EventRoomFilled   = "ROOM_FILLED"
	EventRoomClosed   = "ROOM_CLOSED"
	EventFlipFinished = "FLIP_FINISHED"
)

// lobbyTopic is the pseudo-room lobby watchers subscribe to.
const lobbyTopic = "lobby"

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type topicEvent struct {
	topic string
	event Event
}

// Hub fans room lifecycle events out to lobby watchers and to the players
// sitting inside a room. It implements the coinflip usecase Notifier, so
// clients learn about flips without the fixed-delay polling the HTTP
// surface would otherwise need.
type Hub struct {
	logger     *slog.Logger
	clients    map[*Client]bool
	topics     map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan topicEvent
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		logger:     slog.Default(),
		clients:    make(map[*Client]bool),
		topics:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan topicEvent),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case te := <-h.broadcast:
			h.broadcastToTopic(te.topic, te.event)
		}
	}
}

// RoomOpened tells lobby watchers a seat is up for grabs.
func (h *Hub) RoomOpened(room model.Room) {
	h.broadcast <- topicEvent{
		topic: lobbyTopic,
		event: Event{Type: EventRoomOpened, Payload: roomPayload(room)},
	}
}

// RoomFilled removes the room from lobby discovery and tells its players
// the match can start.
func (h *Hub) RoomFilled(room model.Room) {
	h.broadcast <- topicEvent{
		topic: lobbyTopic,
		event: Event{Type: EventRoomFilled, Payload: roomPayload(room)},
	}
	h.broadcast <- topicEvent{
		topic: room.ID.String(),
		event: Event{Type: EventRoomFilled, Payload: roomPayload(room)},
	}
}

func (h *Hub) RoomClosed(roomID uuid.UUID) {
	event := Event{
		Type: EventRoomClosed,
		Payload: map[string]interface{}{
			"room_id": roomID.String(),
		},
	}
	h.broadcast <- topicEvent{topic: lobbyTopic, event: event}
	h.broadcast <- topicEvent{topic: roomID.String(), event: event}
}

func (h *Hub) FlipFinished(result model.FlipResult) {
	payload := map[string]interface{}{
		"room_id":     result.RoomID.String(),
		"coin_result": string(result.Coin),
	}
	if result.WinnerID != nil {
		payload["winner_id"] = result.WinnerID.String()
	}
	h.broadcast <- topicEvent{
		topic: result.RoomID.String(),
		event: Event{Type: EventFlipFinished, Payload: payload},
	}
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if _, exists := h.topics[client.topic]; !exists {
		h.topics[client.topic] = make(map[*Client]bool)
	}
	h.topics[client.topic][client] = true

	h.logger.Info("ws client registered", "topic", client.topic)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		if topicClients, exists := h.topics[client.topic]; exists {
			delete(topicClients, client)
			if len(topicClients) == 0 {
				delete(h.topics, client.topic)
			}
		}
	}

	h.logger.Info("ws client unregistered", "topic", client.topic)
}

func (h *Hub) broadcastToTopic(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if topicClients, exists := h.topics[topic]; exists {
		for client := range topicClients {
			select {
			case client.send <- event:
			default:
				// Drop the slow consumer everywhere, or a later
				// unregister would close send a second time.
				close(client.send)
				delete(h.topics[topic], client)
				delete(h.clients, client)
			}
		}
	}
}

func roomPayload(room model.Room) map[string]interface{} {
	payload := map[string]interface{}{
		"room_id":    room.ID.String(),
		"created_by": room.CreatedBy.String(),
		"status":     string(room.Status),
		"pot":        room.Pot(),
		"bets":       len(room.Bets),
	}
	if creator := room.CreatorBet(); creator != nil {
		payload["creator_name"] = creator.UserName
		payload["wager"] = creator.PointsBet
	}
	return payload
}
