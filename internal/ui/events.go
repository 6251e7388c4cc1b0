package ui

import (
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/openra/ra-launcher/internal/bridge"
)

// EventBridge hands bridge events to a handler on the Fyne goroutine. Events
// arriving before a handler is attached are logged and dropped.
type EventBridge struct {
	mu      sync.RWMutex
	handler func(bridge.Event)
	logger  *slog.Logger
}

var _ bridge.Bridge = (*EventBridge)(nil)

// NewEventBridge creates a bridge without a handler
func NewEventBridge(logger *slog.Logger) *EventBridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBridge{logger: logger}
}

// SetHandler attaches the handler that receives every later event
func (b *EventBridge) SetHandler(handler func(bridge.Event)) {
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()
}

// Deliver implements bridge.Bridge
func (b *EventBridge) Deliver(ev bridge.Event) {
	b.mu.RLock()
	handler := b.handler
	b.mu.RUnlock()

	if handler == nil {
		b.logger.Debug("Dropping bridge event without handler", "kind", ev.Kind, "callback", ev.Callback, "key", ev.Key)
		return
	}
	fyne.Do(func() { handler(ev) })
}

// DialogNotifier shows controller notifications as dialogs on window
type DialogNotifier struct {
	window fyne.Window
}

// NewDialogNotifier creates a notifier bound to window
func NewDialogNotifier(window fyne.Window) *DialogNotifier {
	return &DialogNotifier{window: window}
}

func (n *DialogNotifier) Notify(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, n.window)
	})
}
