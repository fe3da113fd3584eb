package chat

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"

	"storefront-api/internal/domain"
	"github.com/google/uuid"
)

// Hub fans bus payloads out to per-thread stream subscribers on this API
// instance.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]*subscriber
	logger *log.Logger
}

type subscriber struct {
	userID      string
	otherUserID string
	ch          chan domain.Message
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Hub{
		subs:   make(map[string]*subscriber),
		logger: logger,
	}
}

// Subscribe registers a stream for the thread between userID and
// otherUserID. The returned id must be passed to Unsubscribe when the stream
// closes.
func (h *Hub) Subscribe(userID, otherUserID string) (string, <-chan domain.Message) {
	id := uuid.NewString()
	sub := &subscriber{
		userID:      userID,
		otherUserID: otherUserID,
		ch:          make(chan domain.Message, 16),
	}

	h.mu.Lock()
	h.subs[id] = sub
	h.mu.Unlock()

	return id, sub.ch
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()

	if ok {
		close(sub.ch)
	}
}

// Dispatch delivers a message to every subscriber watching its thread.
// Slow subscribers are skipped rather than blocking the fan-out.
func (h *Hub) Dispatch(m domain.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		if !matchesThread(sub, m) {
			continue
		}
		select {
		case sub.ch <- m:
		default:
			h.logger.Printf("chat hub: dropping message %d for slow subscriber %s", m.ID, id)
		}
	}
}

// Run consumes bus payloads until ctx is done.
func (h *Hub) Run(ctx context.Context, in <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-in:
			if !ok {
				return
			}
			var m domain.Message
			if err := json.Unmarshal(payload, &m); err != nil {
				h.logger.Printf("chat hub: bad payload: %v", err)
				continue
			}
			h.Dispatch(m)
		}
	}
}

func matchesThread(sub *subscriber, m domain.Message) bool {
	fromOther := m.SenderID == sub.otherUserID && m.ReceiverID == sub.userID
	fromSelf := m.SenderID == sub.userID && m.ReceiverID == sub.otherUserID
	return fromOther || fromSelf
}
