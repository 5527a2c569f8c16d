package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub manages connected clients, per-user delivery and topic broadcasts.
// Live tracking subscribes clients to a topic per demand id.
type Hub struct {
	clients      map[*Client]bool
	userClients  map[string][]*Client
	topicClients map[string][]*Client
	broadcast    chan []byte
	Register     chan *Client
	unregister   chan *Client
	mu           sync.RWMutex
	logger       *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		userClients:  make(map[string][]*Client),
		topicClients: make(map[string][]*Client),
		broadcast:    make(chan []byte),
		Register:     make(chan *Client),
		unregister:   make(chan *Client),
		logger:       logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
			if client.Topic != "" {
				h.topicClients[client.Topic] = append(h.topicClients[client.Topic], client)
			}
			h.mu.Unlock()
			h.logger.Debug("websocket client registered",
				zap.String("userID", client.UserID),
				zap.String("topic", client.Topic),
			)
		case client := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(client)
			h.mu.Unlock()
			h.logger.Debug("websocket client disconnected", zap.String("userID", client.UserID))
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// slow consumer, drop it
					h.dropLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// dropLocked removes a client from every index and closes its send channel.
// Callers must hold mu for writing. Dropping a client twice is a no-op.
func (h *Hub) dropLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	h.userClients[client.UserID] = removeClient(h.userClients[client.UserID], client)
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
	}
	if client.Topic != "" {
		h.topicClients[client.Topic] = removeClient(h.topicClients[client.Topic], client)
		if len(h.topicClients[client.Topic]) == 0 {
			delete(h.topicClients, client.Topic)
		}
	}
}

func removeClient(clients []*Client, target *Client) []*Client {
	for i, c := range clients {
		if c == target {
			return append(clients[:i], clients[i+1:]...)
		}
	}
	return clients
}

// SendMessageToUser delivers a payload to every connection of one user.
func (h *Hub) SendMessageToUser(userID string, payload interface{}, messageType string) error {
	messageBytes, err := h.envelope(payload, messageType)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.userClients[userID] {
		if !h.clients[client] {
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
		}
	}
	return nil
}

// PublishToTopic delivers a payload to every client subscribed to a topic.
func (h *Hub) PublishToTopic(topic string, payload interface{}, messageType string) error {
	messageBytes, err := h.envelope(payload, messageType)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.topicClients[topic] {
		if !h.clients[client] {
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
		}
	}
	return nil
}

// Broadcast delivers a payload to every connected client.
func (h *Hub) Broadcast(payload interface{}, messageType string) error {
	messageBytes, err := h.envelope(payload, messageType)
	if err != nil {
		return err
	}
	h.broadcast <- messageBytes
	return nil
}

func (h *Hub) envelope(payload interface{}, messageType string) ([]byte, error) {
	envelope := Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
	messageBytes, err := json.Marshal(envelope)
	if err != nil {
		h.logger.Error("websocket envelope marshal failed", zap.Error(err))
		return nil, err
	}
	return messageBytes, nil
}
