package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/domain/events"
)

// ErrHubStopped is returned by Publish after Stop.
var ErrHubStopped = errors.New("websocket hub stopped")

// ConnectionObserver is told about clients coming and going.
type ConnectionObserver interface {
	ClientConnected()
	ClientDisconnected()
}

type nopObserver struct{}

func (nopObserver) ClientConnected()    {}
func (nopObserver) ClientDisconnected() {}

// Message is the frame written to subscribers.
type Message struct {
	Type      string          `json:"type"`
	Dataset   string          `json:"dataset,omitempty"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// Hub maintains active WebSocket connections and broadcasts domain events to
// the clients subscribed to the event's dataset.
type Hub struct {
	clients map[*Client]struct{}
	mu      sync.RWMutex

	// Message broadcasting
	broadcast chan *Message

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	logger *zap.Logger

	observer ConnectionObserver
}

// NewHub creates a new WebSocket hub. observer may be nil.
func NewHub(logger *zap.Logger, observer ConnectionObserver) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	if observer == nil {
		observer = nopObserver{}
	}

	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan *Message, 1000),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		logger:    logger,
		observer:  observer,
	}
}

// Run starts the hub's main event loop
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info("Hub shutting down")
			h.closeAllConnections()
			return

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.logger.Info("Stopping WebSocket hub")
	h.cancel()
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Publish implements ports.EventPublisher. It never blocks; when the
// broadcast buffer is full the event is dropped.
func (h *Hub) Publish(_ context.Context, event events.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := &Message{
		Type:      event.GetEventType(),
		Dataset:   event.GetAggregateID(),
		Data:      data,
		Timestamp: event.GetTimestamp().Unix(),
	}

	select {
	case <-h.ctx.Done():
		return ErrHubStopped
	default:
	}

	select {
	case h.broadcast <- message:
		return nil
	default:
		return fmt.Errorf("broadcast channel full, %s dropped", message.Type)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ctx.Err() != nil {
		return false
	}
	h.clients[client] = struct{}{}
	h.observer.ClientConnected()

	h.logger.Info("Client registered",
		zap.String("connectionID", client.id),
		zap.String("dataset", client.dataset),
		zap.Int("clients", len(h.clients)),
	)
	return true
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.observer.ClientDisconnected()

	h.logger.Info("Client unregistered",
		zap.String("connectionID", client.id),
		zap.Int("clients", len(h.clients)),
	)
}

func (h *Hub) deliver(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message",
			zap.Error(err),
			zap.String("messageType", message.Type),
		)
		return
	}

	var slow []*Client
	h.mu.RLock()
	for client := range h.clients {
		if !client.wants(message.Dataset) {
			continue
		}
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Closing slow client", zap.String("connectionID", client.id))
		h.unregisterClient(client)
		client.conn.Close()
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		h.observer.ClientDisconnected()
		delete(h.clients, client)
	}

	h.logger.Info("All connections closed")
}

// send queues a frame for one client outside the broadcast path.
func (h *Hub) send(client *Client, messageType string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	frame, err := json.Marshal(&Message{Type: messageType, Data: raw, Timestamp: time.Now().Unix()})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	select {
	case client.send <- frame:
	default:
	}
}
