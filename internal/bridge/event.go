package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/openra/ra-launcher/internal/model"
)

// EventKind identifies what an Event reports
type EventKind int

const (
	EventFetchCompleted EventKind = iota
	EventFetchFailed
	EventDownloadFinished
)

// String returns the wire name of the kind
func (k EventKind) String() string {
	switch k {
	case EventFetchCompleted:
		return "fetch_completed"
	case EventFetchFailed:
		return "fetch_failed"
	case EventDownloadFinished:
		return "download_finished"
	default:
		return "unknown"
	}
}

// Event is a single message delivered across the bridge
type Event struct {
	Kind      EventKind
	RequestID string               // set for fetch events
	Callback  string               // content-side handler name for fetch events
	Key       string               // download key for download events
	Status    model.DownloadStatus // terminal status for download events
	Payload   []byte
	Err       string
}

// OK reports whether the event carries a successful result
func (e Event) OK() bool {
	switch e.Kind {
	case EventFetchCompleted:
		return true
	case EventDownloadFinished:
		return e.Status == model.DownloadStatusCompleted
	default:
		return false
	}
}

type scriptMessage struct {
	Kind    string `json:"kind"`
	Key     string `json:"key,omitempty"`
	Status  string `json:"status,omitempty"`
	Data    string `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Request string `json:"request,omitempty"`
}

// Script renders the event as a call to its content-side handler, for hosts
// that can only evaluate script strings. Download events call onDownloadFinished.
func (e Event) Script() (string, error) {
	msg := scriptMessage{
		Kind:    e.Kind.String(),
		Key:     e.Key,
		Data:    string(e.Payload),
		Error:   e.Err,
		Request: e.RequestID,
	}
	if e.Status != "" {
		msg.Status = e.Status.String()
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to encode event: %w", err)
	}

	handler := e.Callback
	if e.Kind == EventDownloadFinished {
		handler = DownloadFinishedHandler
	}
	if !validHandler(handler) {
		return "", fmt.Errorf("invalid handler name: %q", handler)
	}
	return handler + "(" + string(body) + ");", nil
}

// DownloadFinishedHandler is the content-side function invoked for download events
const DownloadFinishedHandler = "onDownloadFinished"

// validHandler accepts dotted JavaScript identifiers only
func validHandler(name string) bool {
	if name == "" {
		return false
	}
	start := true
	for _, r := range name {
		switch {
		case r == '.':
			if start {
				return false
			}
			start = true
			continue
		case r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9':
			if start {
				return false
			}
		default:
			return false
		}
		start = false
	}
	return !start
}
