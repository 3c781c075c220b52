// Package events provides the in-process broadcast bus used to coordinate
// loosely coupled parts of the client, replacing the browser-style ambient
// event dispatch with typed events.
package events

import (
	"sync"

	"github.com/altibbe/transparency/internal/models"
)

// ReportCreated announces that the submission workflow produced a new report.
type ReportCreated struct {
	Report *models.Report
}

// SessionChanged announces that credentials were stored or cleared.
type SessionChanged struct {
	LoggedIn bool
	User     *models.User
}

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine and must not block.
type Handler func(event any)

// Bus is a fire-and-forget broadcast bus. Publishing with no subscribers is
// not an error, and delivery carries no acknowledgment.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: map[int]Handler{}}
}

// Subscribe registers a handler and returns an unsubscribe func.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Publish delivers the event to every current subscriber.
func (b *Bus) Publish(event any) {
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		hs = append(hs, h)
	}
	b.mu.RUnlock()
	for _, h := range hs {
		h(event)
	}
}
