package broadcast

import "sync"

const subscriberBuffer = 16

// Subscriber receives events for a single room. Events is closed when the
// subscriber is removed from the hub.
type Subscriber struct {
	Room   string
	Events chan Event
}

// Hub fans events out to all subscribers of a room within this process.
// Delivery is at-most-once: a subscriber whose buffer is full misses the
// event, and events published while nobody is subscribed are gone.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Subscriber]struct{})}
}

// Subscribe attaches a new subscriber to the room. Switching rooms means
// unsubscribing and subscribing again; there is no rebind.
func (h *Hub) Subscribe(room string) *Subscriber {
	sub := &Subscriber{
		Room:   room,
		Events: make(chan Event, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[room]
	if !ok {
		subs = make(map[*Subscriber]struct{})
		h.rooms[room] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Unsubscribe detaches the subscriber and closes its event channel.
// Unsubscribing twice is a no-op.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[sub.Room]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.rooms, sub.Room)
	}
	close(sub.Events)
}

// Publish delivers the event to every current subscriber of the room.
func (h *Hub) Publish(room string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.rooms[room] {
		select {
		case sub.Events <- ev:
		default:
			// Drop if slow consumer.
		}
	}
}
