package controller

import "log/slog"

// Notifier surfaces user-facing failures, e.g. a missing runtime
type Notifier interface {
	Notify(title, message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(title, message string)

func (f NotifierFunc) Notify(title, message string) {
	f(title, message)
}

// LogNotifier writes notifications to a logger. Used in headless mode.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(title, message string) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn(message, "title", title)
}
