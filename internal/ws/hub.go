package ws

import (
	"context"
	"log"
	"sync"
)

// Hub fans broadcasts out to connected clients. Client send channels are only
// ever closed on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	closed     bool
	broadcast  chan []byte
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run dispatches unregistrations and broadcasts until ctx is cancelled, then
// closes every client's send channel and refuses new registrations.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			h.closed = true
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mutex.Unlock()
			close(h.done)
			return

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)

		case message := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than stall everyone else.
					h.remove(client)
				}
			}
			h.logf("[WS] broadcast clients=%d bytes=%d", len(snapshot), len(message))
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	if ok {
		h.logf("[WS] disconnected total_clients=%d", total)
	}
}

// Register attaches client and reports false once the hub has shut down.
func (h *Hub) Register(client *Client) bool {
	if h == nil || client == nil {
		return false
	}
	h.mutex.Lock()
	if h.closed {
		h.mutex.Unlock()
		return false
	}
	h.clients[client] = true
	total := len(h.clients)
	h.mutex.Unlock()
	h.logf("[WS] connected total_clients=%d", total)
	return true
}

// Unregister hands client back to Run for removal. After shutdown it is a no-op.
func (h *Hub) Unregister(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues message for every client; it never blocks.
func (h *Hub) Broadcast(message []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.logf("[WS] broadcast dropped reason=buffer_full")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
