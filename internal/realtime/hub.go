// Package realtime implements the presence broadcast channel: connected
// clients report map coordinates and every other client hears about them.
// Connections are keyed by an ephemeral uuid, not by user identity, and
// nothing is persisted.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// Canal is the Redis pub/sub channel bridging hubs across instances.
	Canal = "rt:ubicaciones"

	// EventConnected / EventNewCoordinates / EventDisconnected are the wire
	// event names the front-end listens for.
	EventConnected      = "connected"
	EventNewCoordinates = "userNewCoordinates"
	EventDisconnected   = "userDisconnected"
)

// Evento is one message delivered to a connected client.
type Evento struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// envelope is the cross-instance wire format on the Redis channel.
type envelope struct {
	Origin  string          `json:"origin"`
	Except  string          `json:"except"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans events out to every registered connection. With a Redis client it
// also bridges broadcasts to hubs on other instances; with nil it stays
// process-local, which is what the unit tests use.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]chan Evento
	rdb      *redis.Client
	instance string
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		conns:    make(map[string]chan Evento),
		rdb:      rdb,
		instance: uuid.NewString(),
	}
}

// Run consumes the Redis bridge until ctx is cancelled. No-op without Redis.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		return
	}
	sub := h.rdb.Subscribe(ctx, Canal)
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Warn().Err(err).Msg("realtime: bad bridge message")
				continue
			}
			if env.Origin == h.instance {
				continue // already delivered locally
			}
			var payload interface{}
			_ = json.Unmarshal(env.Payload, &payload)
			h.deliver(env.Except, Evento{Event: env.Event, Payload: payload})
		}
	}
}

// Register adds a connection and returns its ephemeral id and event channel.
func (h *Hub) Register() (string, <-chan Evento) {
	id := uuid.NewString()
	ch := make(chan Evento, 16)
	h.mu.Lock()
	h.conns[id] = ch
	h.mu.Unlock()
	return id, ch
}

// Unregister drops the connection and tells everyone else it left.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	ch, ok := h.conns[id]
	if ok {
		delete(h.conns, id)
		close(ch)
	}
	h.mu.Unlock()
	if ok {
		h.BroadcastExcept(id, EventDisconnected, id)
	}
}

// BroadcastExcept relays an event to every connection but the sender's.
func (h *Hub) BroadcastExcept(senderID, event string, payload interface{}) {
	h.deliver(senderID, Evento{Event: event, Payload: payload})
	h.publish(senderID, event, payload)
}

// BroadcastAll relays an event to every connection.
func (h *Hub) BroadcastAll(event string, payload interface{}) {
	h.deliver("", Evento{Event: event, Payload: payload})
	h.publish("", event, payload)
}

// deliver sends to local connections. Slow consumers are skipped rather than
// blocking the sender; coordinates are ephemeral anyway.
func (h *Hub) deliver(exceptID string, ev Evento) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.conns {
		if id == exceptID {
			continue
		}
		select {
		case ch <- ev:
		default:
		}
	}
}

// publish mirrors the event onto the Redis bridge, best effort.
func (h *Hub) publish(exceptID, event string, payload interface{}) {
	if h.rdb == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	b, err := json.Marshal(envelope{
		Origin:  h.instance,
		Except:  exceptID,
		Event:   event,
		Payload: raw,
	})
	if err != nil {
		return
	}
	if err := h.rdb.Publish(context.Background(), Canal, b).Err(); err != nil {
		log.Warn().Err(err).Msg("realtime: bridge publish failed")
	}
}
