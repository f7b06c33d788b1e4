package ports

import "encoding/json"

// Channel is one realtime connection carrying named events. Handlers fire in
// message-arrival order for a given channel; nothing is guaranteed across
// channels.
type Channel interface {
	// On registers a handler for a named event and returns its unregister
	// func. Multiple handlers per event are allowed.
	On(event string, handler func(payload json.RawMessage)) (unsubscribe func())
	// Emit sends a named event. It is a silent no-op while disconnected.
	Emit(event string, payload any)
	Connected() bool
	LastError() error
}
