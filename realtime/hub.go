// Package realtime fans comment events out to websocket subscribers.
// Topics are post IDs; delivery is best-effort to currently connected
// clients and never blocks the publishing request.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// Event names match the wire protocol consumed by clients.
const (
	EventNewComment    = "new_comment"
	EventUpdateComment = "update_comment"
	EventDeleteComment = "delete_comment"
	EventUpdateLikes   = "update_likes"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Publisher is the interface handlers emit through.
type Publisher interface {
	Publish(topic string, event Event)
}

type publication struct {
	topic string
	data  []byte
}

type Hub struct {
	topics     map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	publish    chan publication

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		topics:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan publication, 64),
	}
}

// Run services the hub channels. Call it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			room := h.topics[client.topic]
			if room == nil {
				room = make(map[*Client]bool)
				h.topics[client.topic] = room
			}
			room[client] = true
			connected := len(room)
			h.mu.Unlock()
			log.Printf("Subscriber joined topic %s (%d connected)", client.topic, connected)

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.topics[client.topic]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					if len(room) == 0 {
						delete(h.topics, client.topic)
					}
				}
			}
			h.mu.Unlock()

		case pub := <-h.publish:
			h.mu.Lock()
			for client := range h.topics[pub.topic] {
				select {
				case client.send <- pub.data:
				default:
					// Slow subscriber; drop it rather than stall the hub.
					close(client.send)
					delete(h.topics[pub.topic], client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish emits an event to every subscriber of the topic. It never
// blocks: when the hub is saturated the event is dropped.
func (h *Hub) Publish(topic string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", event.Type, err)
		return
	}

	select {
	case h.publish <- publication{topic: topic, data: data}:
	default:
		log.Printf("Hub saturated, dropping %s event for topic %s", event.Type, topic)
	}
}

// Subscribers reports how many clients are connected to a topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
