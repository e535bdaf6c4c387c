package favorites

import (
	"context"
	"sync"
)

const defaultSubscriberBuffer = 8

// Hub fans favorites change events out to subscribers. Publishing never
// blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Publish delivers ev to every current subscriber.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a listener. The channel is closed and removed once
// ctx is done.
func (h *Hub) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, defaultSubscriberBuffer)
	if h == nil {
		close(ch)
		return ch
	}

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		close(ch)
		h.mu.Unlock()
	}()

	return ch
}

// Subscribers returns the number of active listeners.
func (h *Hub) Subscribers() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
