package ws

import (
	"context"
	"encoding/json"
	"sync"

	"hotel/shared/event"

	"github.com/rs/zerolog/log"
)

const broadcastBuffer = 256

// Hub tracks connected dashboard sockets and pushes domain events to them.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan event.Event
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan event.Event, broadcastBuffer),
	}
}

// Run owns client bookkeeping until ctx is done. Call it in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case evt := <-h.broadcast:
			message, err := json.Marshal(evt)
			if err != nil {
				log.Error().Err(err).Str("type", string(evt.Type)).Msg("failed to encode websocket event")

				continue
			}

			h.mu.Lock()
			for client := range h.clients {
				if !client.subscribed(evt.Entity) {
					continue
				}

				select {
				case client.send <- message:
				default:
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues events for broadcast. Events are dropped when the queue is full.
func (h *Hub) Publish(_ context.Context, events ...event.Event) error {
	for _, evt := range events {
		select {
		case h.broadcast <- evt:
		default:
			log.Warn().Str("type", string(evt.Type)).Msg("websocket broadcast queue full, dropping event")
		}
	}

	return nil
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
