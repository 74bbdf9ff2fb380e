package pubsub

import (
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	ps := New()
	if ps == nil {
		t.Fatal("New() returned nil")
	}
	if ps.upstream != nil {
		t.Error("upstream should be nil for basic PubSub")
	}
	if ps.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", ps.SubscriberCount())
	}
}

func TestNewEvent(t *testing.T) {
	before := time.Now().UnixMilli()
	e := NewEvent(TeamUpdated, map[string]any{"action": "assign"})
	if e.Type != TeamUpdated {
		t.Errorf("expected type %s, got %s", TeamUpdated, e.Type)
	}
	if e.TS < before {
		t.Errorf("event timestamp %d is older than %d", e.TS, before)
	}
	if e.Payload["action"] != "assign" {
		t.Error("payload not set")
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	ps := New()

	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()
	ch3 := ps.Subscribe()
	if ps.SubscriberCount() != 3 {
		t.Fatalf("expected 3 subscribers, got %d", ps.SubscriberCount())
	}

	ps.Unsubscribe(ch2)
	if ps.SubscriberCount() != 2 {
		t.Errorf("expected 2 subscribers, got %d", ps.SubscriberCount())
	}
	if _, ok := <-ch2; ok {
		t.Error("unsubscribed channel should be closed")
	}

	ps.Publish(Event{Type: TeamUpdated})
	for i, ch := range []chan Event{ch1, ch3} {
		select {
		case e := <-ch:
			if e.Type != TeamUpdated {
				t.Errorf("subscriber %d: unexpected type %s", i, e.Type)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d: timeout waiting for event", i)
		}
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	ps := New()
	// Should not panic
	ps.Publish(Event{Type: TeamUpdated})
}

func TestPublishDropsWhenChannelFull(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()

	for i := 0; i < 15; i++ {
		ps.Publish(Event{Type: "fill"})
	}

	count := 0
	for len(ch) > 0 {
		<-ch
		count++
	}
	if count != 10 {
		t.Errorf("expected 10 events (buffer size), got %d", count)
	}
}

func TestConcurrentSubscribeUnsubscribe(t *testing.T) {
	ps := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch := ps.Subscribe()
			time.Sleep(time.Millisecond)
			ps.Unsubscribe(ch)
		}()
		go func() {
			defer wg.Done()
			ps.Publish(Event{Type: "concurrent"})
		}()
	}
	wg.Wait()

	if ps.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after all unsubscribe, got %d", ps.SubscriberCount())
	}
}

func TestUnsubscribeNonexistent(t *testing.T) {
	ps := New()
	ch := make(chan Event, 1)

	ps.Unsubscribe(ch)

	// Channel was never managed by the bus, so it stays open
	select {
	case ch <- Event{Type: "test"}:
	default:
		t.Error("foreign channel should still accept sends")
	}
}

// mockUpstream records publishes and echoes them to its subscribers
type mockUpstream struct {
	mu          sync.Mutex
	published   []Event
	subscribers []chan Event
}

func (m *mockUpstream) Publish(event Event) {
	m.mu.Lock()
	m.published = append(m.published, event)
	subs := append([]chan Event(nil), m.subscribers...)
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (m *mockUpstream) Subscribe() chan Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan Event, 100)
	m.subscribers = append(m.subscribers, ch)
	return ch
}

func (m *mockUpstream) Unsubscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, sub := range m.subscribers {
		if sub == ch {
			close(ch)
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			return
		}
	}
}

func (m *mockUpstream) subscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

func (m *mockUpstream) publishedEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.published...)
}

func waitForUpstream(t *testing.T, m *mockUpstream) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for m.subscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("bridge never subscribed to upstream")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPublishWithUpstream(t *testing.T) {
	upstream := &mockUpstream{}
	ps := NewWithUpstream(upstream)
	waitForUpstream(t, upstream)

	ch := ps.Subscribe()
	ps.Publish(NewEvent(TeamUpdated, map[string]any{"slotId": "delta-gk"}))

	published := upstream.publishedEvents()
	if len(published) != 1 || published[0].Type != TeamUpdated {
		t.Fatalf("expected one team event upstream, got %+v", published)
	}

	select {
	case received := <-ch:
		if received.Payload["slotId"] != "delta-gk" {
			t.Errorf("unexpected payload %+v", received.Payload)
		}
	case <-time.After(time.Second):
		t.Error("timeout waiting for event from upstream")
	}
}

func TestUpstreamBroadcastToLocalSubscribers(t *testing.T) {
	upstream := &mockUpstream{}
	ps := NewWithUpstream(upstream)
	waitForUpstream(t, upstream)

	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()

	// Simulates another instance publishing
	upstream.Publish(Event{Type: FavoritesUpdated})

	for i, ch := range []chan Event{ch1, ch2} {
		select {
		case received := <-ch:
			if received.Type != FavoritesUpdated {
				t.Errorf("subscriber %d: expected %s, got %s", i, FavoritesUpdated, received.Type)
			}
		case <-time.After(time.Second):
			t.Errorf("subscriber %d: timeout waiting for event", i)
		}
	}
}
