package socket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	dialTimeout      = 10 * time.Second
	writeTimeout     = 10 * time.Second
	maxReconnectWait = 30 * time.Second
)

// envelope is the wire frame carrying a named event.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type handlerEntry struct {
	id int
	fn func(payload json.RawMessage)
}

// Channel is a single websocket connection to the admin-dashboard gateway.
// One reader goroutine dispatches handlers in message-arrival order, so
// ordering holds per channel but never across channels. Dial failures and
// dropped connections surface through Connected/LastError and the lifecycle
// events; the channel keeps re-dialing with exponential backoff until closed.
type Channel struct {
	url    string
	header http.Header
	dialer *websocket.Dialer
	log    zerolog.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	handlers  map[string][]handlerEntry
	nextID    int
	connected bool
	lastErr   error
	closed    bool

	// The websocket permits one writer at a time; writeMu serializes Emit
	// calls without holding up state reads.
	writeMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
}

func newChannel(url string, header http.Header, log zerolog.Logger) *Channel {
	ch := &Channel{
		url:      url,
		header:   header,
		dialer:   &websocket.Dialer{HandshakeTimeout: dialTimeout},
		log:      log,
		handlers: make(map[string][]handlerEntry),
		done:     make(chan struct{}),
	}
	go ch.run()
	return ch
}

// On registers a handler for a named event. The returned func unregisters
// it; calling it more than once is harmless.
func (ch *Channel) On(event string, handler func(payload json.RawMessage)) func() {
	ch.mu.Lock()
	ch.nextID++
	id := ch.nextID
	ch.handlers[event] = append(ch.handlers[event], handlerEntry{id: id, fn: handler})
	ch.mu.Unlock()

	return func() {
		ch.mu.Lock()
		defer ch.mu.Unlock()
		entries := ch.handlers[event]
		for i, entry := range entries {
			if entry.id == id {
				ch.handlers[event] = append(entries[:i], entries[i+1:]...)
				return
			}
		}
	}
}

// Emit sends a named event. While disconnected the event is silently
// dropped.
func (ch *Channel) Emit(event string, payload any) {
	ch.mu.Lock()
	conn := ch.conn
	connected := ch.connected
	ch.mu.Unlock()

	if !connected || conn == nil {
		ch.log.Debug().Str("event", event).Msg("emit dropped, channel not connected")
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		ch.log.Error().Err(err).Str("event", event).Msg("encode outbound event")
		return
	}

	ch.writeMu.Lock()
	defer ch.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(envelope{Event: event, Data: data}); err != nil {
		ch.log.Warn().Err(err).Str("event", event).Msg("write outbound event")
	}
}

func (ch *Channel) Connected() bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.connected
}

func (ch *Channel) LastError() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.lastErr
}

// Close tears the connection down and stops the reconnect loop. Safe to call
// repeatedly and on a channel that never connected.
func (ch *Channel) Close() {
	ch.closeOnce.Do(func() {
		ch.mu.Lock()
		ch.closed = true
		conn := ch.conn
		ch.conn = nil
		ch.connected = false
		ch.mu.Unlock()

		close(ch.done)
		if conn != nil {
			_ = conn.Close()
		}
	})
}

func (ch *Channel) run() {
	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = maxReconnectWait
	policy.MaxElapsedTime = 0

	for {
		select {
		case <-ch.done:
			return
		default:
		}

		conn, resp, err := ch.dialer.Dial(ch.url, ch.header)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			ch.setDisconnected(err)
			ch.log.Warn().Err(err).Str("url", ch.url).Msg("channel dial failed")
			ch.dispatch(EventConnectError, errorPayload(err))
			if !ch.sleep(policy.NextBackOff()) {
				return
			}
			continue
		}

		policy.Reset()
		if !ch.setConnected(conn) {
			_ = conn.Close()
			return
		}
		ch.log.Debug().Str("url", ch.url).Msg("channel connected")
		ch.dispatch(EventConnect, nil)

		readErr := ch.readLoop(conn)
		ch.setDisconnected(readErr)
		ch.dispatch(EventDisconnect, nil)

		select {
		case <-ch.done:
			return
		default:
		}
		ch.log.Warn().Err(readErr).Str("url", ch.url).Msg("channel lost, reconnecting")
	}
}

func (ch *Channel) readLoop(conn *websocket.Conn) error {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var frame envelope
		if err := json.Unmarshal(message, &frame); err != nil {
			ch.log.Warn().Err(err).Msg("drop malformed frame")
			continue
		}
		ch.dispatch(frame.Event, frame.Data)
	}
}

// dispatch calls every handler registered for the event, in registration
// order, on the calling goroutine.
func (ch *Channel) dispatch(event string, payload json.RawMessage) {
	ch.mu.Lock()
	entries := make([]handlerEntry, len(ch.handlers[event]))
	copy(entries, ch.handlers[event])
	ch.mu.Unlock()

	for _, entry := range entries {
		entry.fn(payload)
	}
}

func (ch *Channel) setConnected(conn *websocket.Conn) bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.closed {
		return false
	}
	ch.conn = conn
	ch.connected = true
	ch.lastErr = nil
	return true
}

func (ch *Channel) setDisconnected(err error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.conn = nil
	ch.connected = false
	if err != nil {
		ch.lastErr = err
	}
}

func (ch *Channel) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ch.done:
		return false
	case <-timer.C:
		return true
	}
}

func errorPayload(err error) json.RawMessage {
	data, marshalErr := json.Marshal(map[string]string{"message": err.Error()})
	if marshalErr != nil {
		return nil
	}
	return data
}
