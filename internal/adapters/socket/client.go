package socket

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/klyve/vodctl/internal/domain"
)

// Client manages the websocket connections to the admin-dashboard gateway,
// one per (base URL, path) key. The access credential is captured once at
// connect time; a rotated session needs a fresh Connect after Disconnect.
type Client struct {
	log zerolog.Logger

	mu    sync.Mutex
	conns map[string]*Channel
}

func NewClient(log zerolog.Logger) *Client {
	return &Client{
		log:   log,
		conns: make(map[string]*Channel),
	}
}

// Connect returns the channel for (baseURL, path), dialing a new one only if
// none exists yet. With an empty credential the client fails closed and no
// connection attempt is made. Dial failures are not returned here; they
// surface through the channel's Connected/LastError state while it keeps
// retrying in the background.
func (c *Client) Connect(baseURL, path, credential string) (*Channel, error) {
	if credential == "" {
		return nil, domain.ErrNoCredential
	}

	key := baseURL + path
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.conns[key]; ok {
		return existing, nil
	}

	wsURL, err := buildURL(baseURL, path, credential)
	if err != nil {
		return nil, err
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+credential)

	channel := newChannel(wsURL, header, c.log.With().Str("path", path).Logger())
	c.conns[key] = channel
	return channel, nil
}

// Get returns the already-established channel for the key, if any.
func (c *Client) Get(baseURL, path string) (*Channel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	channel, ok := c.conns[baseURL+path]
	return channel, ok
}

// Disconnect tears down every managed connection. Calling it with nothing
// connected is a no-op.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conns := c.conns
	c.conns = make(map[string]*Channel)
	c.mu.Unlock()

	for _, channel := range conns {
		channel.Close()
	}
}

// buildURL swaps the scheme to ws(s), appends the channel path to the base
// path and carries the credential as a query parameter for gateways that do
// not read handshake headers.
func buildURL(baseURL, path, credential string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse socket base url: %w", err)
	}
	switch parsed.Scheme {
	case "http", "ws":
		parsed.Scheme = "ws"
	case "https", "wss":
		parsed.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported socket scheme %q", parsed.Scheme)
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/") + path

	query := parsed.Query()
	query.Set("token", credential)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
