// Package session persists the API session between CLI invocations. The
// backend keeps credentials in cookies, so the session IS the cookie jar:
// a wrapper around net/http/cookiejar that mirrors every cookie set by the
// API host into a secret store and reloads them on startup.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/klyve/vodctl/internal/ports"
)

// StoreKey is where the serialized jar lives in the secret store.
const StoreKey = "session/cookies"

const accessTokenCookie = "accessToken"

// persistedCookie is the durable form of a cookie. The inner jar's Cookies
// method strips attributes, so the wrapper records cookies as received.
type persistedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"httpOnly,omitempty"`
}

// Jar is an http.CookieJar whose API-host cookies survive process restarts.
// It also serves as the credential source for the socket layer.
type Jar struct {
	store  ports.SecretStore
	apiURL *url.URL
	log    zerolog.Logger

	mu      sync.Mutex
	inner   *cookiejar.Jar
	session map[string]persistedCookie
}

var (
	_ http.CookieJar         = (*Jar)(nil)
	_ ports.CredentialSource = (*Jar)(nil)
)

// New builds a jar scoped to apiURL and restores any previously persisted
// session. A missing or unreadable stored session is not an error; the jar
// just starts empty.
func New(store ports.SecretStore, apiURL *url.URL, log zerolog.Logger) (*Jar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	j := &Jar{
		store:   store,
		apiURL:  apiURL,
		log:     log,
		inner:   inner,
		session: make(map[string]persistedCookie),
	}
	j.restore()
	return j, nil
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)
	if u.Host != j.apiURL.Host {
		return
	}

	now := time.Now()
	for _, c := range cookies {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)) {
			delete(j.session, c.Name)
			continue
		}
		expires := c.Expires
		// Max-Age takes precedence over Expires (RFC 6265); recorded as an
		// absolute deadline so restores and AccessToken honor it.
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		j.session[c.Name] = persistedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  expires,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		}
	}
	j.persistLocked()
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// AccessToken returns the current access token, or "" when signed out.
func (j *Jar) AccessToken() string {
	j.mu.Lock()
	defer j.mu.Unlock()

	c, ok := j.session[accessTokenCookie]
	if !ok {
		return ""
	}
	if !c.Expires.IsZero() && c.Expires.Before(time.Now()) {
		return ""
	}
	return c.Value
}

// Clear wipes the persisted session and resets the in-memory jar.
func (j *Jar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	inner, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("reset cookie jar: %w", err)
	}
	j.inner = inner
	j.session = make(map[string]persistedCookie)

	ctx, cancel := storeContext()
	defer cancel()
	if err := j.store.Delete(ctx, StoreKey); err != nil {
		return fmt.Errorf("delete stored session: %w", err)
	}
	return nil
}

func (j *Jar) restore() {
	ctx, cancel := storeContext()
	defer cancel()

	raw, err := j.store.Get(ctx, StoreKey)
	if err != nil {
		j.log.Debug().Err(err).Msg("no stored session")
		return
	}

	var cookies []persistedCookie
	if err := json.Unmarshal([]byte(raw), &cookies); err != nil {
		j.log.Warn().Err(err).Msg("discard corrupt stored session")
		return
	}

	now := time.Now()
	restored := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		j.session[c.Name] = c
		restored = append(restored, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		})
	}
	j.inner.SetCookies(j.apiURL, restored)
}

// persistLocked writes the session snapshot. SetCookies cannot return an
// error, so persistence failures are logged and the in-memory session stays
// authoritative for the rest of the process.
func (j *Jar) persistLocked() {
	cookies := make([]persistedCookie, 0, len(j.session))
	for _, c := range j.session {
		cookies = append(cookies, c)
	}

	raw, err := json.Marshal(cookies)
	if err != nil {
		j.log.Warn().Err(err).Msg("serialize session")
		return
	}

	ctx, cancel := storeContext()
	defer cancel()
	if err := j.store.Put(ctx, StoreKey, string(raw)); err != nil {
		j.log.Warn().Err(err).Msg("persist session")
	}
}

func storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
