package pubsub

import (
	"sync"
	"time"

	"github.com/Billy-Davies-2/inazuma-guide/internal/logger"
)

// Event types announced by the team builder
const (
	TeamUpdated        = "team:updated"
	FavoritesUpdated   = "favorites:updated"
	PreferencesUpdated = "preferences:updated"
)

// Event represents a pubsub event
type Event struct {
	Type    string         `json:"type"`
	TS      int64          `json:"ts"`
	Payload map[string]any `json:"payload,omitempty"`
}

// NewEvent stamps an event with the current time
func NewEvent(eventType string, payload map[string]any) Event {
	return Event{Type: eventType, TS: time.Now().UnixMilli(), Payload: payload}
}

// Bus is what publishers and the SSE stream depend on
type Bus interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// Upstream is an interface for upstream publishers (e.g., NATS)
type Upstream = Bus

// fanout delivers events to a set of buffered local channels. Slow
// subscribers miss events rather than block the publisher.
type fanout struct {
	mu          sync.RWMutex
	subscribers []chan Event
	buffer      int
}

func newFanout(buffer int) *fanout {
	return &fanout{subscribers: []chan Event{}, buffer: buffer}
}

func (f *fanout) add() chan Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan Event, f.buffer)
	f.subscribers = append(f.subscribers, ch)
	logger.Debug("PubSub: New subscriber added", "total_subscribers", len(f.subscribers))
	return ch
}

func (f *fanout) remove(ch chan Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, sub := range f.subscribers {
		if sub == ch {
			close(ch)
			f.subscribers = append(f.subscribers[:i], f.subscribers[i+1:]...)
			return
		}
	}
}

func (f *fanout) broadcast(event Event) {
	// Sends never block, so holding the read lock keeps remove and
	// closeAll from closing a channel mid-send.
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, ch := range f.subscribers {
		select {
		case ch <- event:
		default:
			logger.Warn("PubSub: Skipping slow subscriber", "event_type", event.Type)
		}
	}
}

func (f *fanout) count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subscribers {
		close(ch)
	}
	f.subscribers = nil
}

// PubSub implements a simple publish-subscribe system
type PubSub struct {
	local    *fanout
	upstream Upstream
}

// New creates a PubSub that only delivers in-process
func New() *PubSub {
	return &PubSub{local: newFanout(10)}
}

// NewWithUpstream creates a PubSub that bridges to an upstream bus.
// Publishes go upstream only; whatever the upstream delivers back is
// forwarded to local subscribers.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := &PubSub{local: newFanout(10), upstream: upstream}

	go func() {
		ch := upstream.Subscribe()
		logger.Debug("PubSub: Subscribed to upstream, waiting for events")
		for event := range ch {
			ps.local.broadcast(event)
		}
		logger.Debug("PubSub: Upstream channel closed")
	}()

	return ps
}

// Subscribe adds a new subscriber and returns a channel for receiving events
func (ps *PubSub) Subscribe() chan Event {
	return ps.local.add()
}

// Unsubscribe removes and closes a subscriber channel
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.local.remove(ch)
}

// Publish sends an event to the upstream when configured, locally otherwise
func (ps *PubSub) Publish(event Event) {
	logger.Debug("PubSub: Publish called", "type", event.Type, "has_upstream", ps.upstream != nil)
	if ps.upstream != nil {
		ps.upstream.Publish(event)
		return
	}
	ps.local.broadcast(event)
}

// SubscriberCount returns the number of local subscribers
func (ps *PubSub) SubscriberCount() int {
	return ps.local.count()
}
