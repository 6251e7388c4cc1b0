package bridge

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Bridge receives events destined for embedded content
type Bridge interface {
	Deliver(Event)
}

// Func adapts a plain function to Bridge
type Func func(Event)

// Deliver calls f(ev)
func (f Func) Deliver(ev Event) {
	f(ev)
}

// Discard drops every event
var Discard Bridge = Func(func(Event) {})

// Recorder collects delivered events; safe for concurrent use
type Recorder struct {
	mu     sync.Mutex
	events []Event
	notify chan struct{}
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{notify: make(chan struct{}, 1)}
}

// Deliver records the event
func (r *Recorder) Deliver(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Events returns a copy of all recorded events in delivery order
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// WaitFor blocks until at least n events were recorded or the timeout elapses
func (r *Recorder) WaitFor(n int, timeout time.Duration) []Event {
	deadline := time.After(timeout)
	for {
		events := r.Events()
		if len(events) >= n {
			return events
		}
		select {
		case <-r.notify:
		case <-deadline:
			return r.Events()
		}
	}
}

// Request is one outstanding fetch whose result must reach its callback once
type Request struct {
	ID       string
	URL      string
	Callback string

	once sync.Once
}

// NewRequest creates a request with a fresh identifier
func NewRequest(url, callback string) *Request {
	return &Request{
		ID:       generateRequestID(),
		URL:      url,
		Callback: callback,
	}
}

// Complete delivers ev to b stamped with this request's identity. Only the
// first call delivers; it returns false for every later call.
func (r *Request) Complete(b Bridge, ev Event) bool {
	delivered := false
	r.once.Do(func() {
		ev.RequestID = r.ID
		ev.Callback = r.Callback
		if b != nil {
			b.Deliver(ev)
		}
		delivered = true
	})
	return delivered
}

// generateRequestID returns a UUID v7 so identifiers sort by creation time
func generateRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
