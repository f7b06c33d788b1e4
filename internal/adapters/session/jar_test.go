package session

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	putErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]string)}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	value, ok := m.values[key]
	if !ok {
		return "", errors.New("not found")
	}
	return value, nil
}

func (m *memoryStore) Put(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.values[key] = value
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func apiURL(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse("https://api.example.com")
	require.NoError(t, err)
	return u
}

func newJar(t *testing.T, store *memoryStore) *Jar {
	t.Helper()
	jar, err := New(store, apiURL(t), zerolog.Nop())
	require.NoError(t, err)
	return jar
}

func TestJarStartsEmptyWithoutStoredSession(t *testing.T) {
	t.Parallel()

	jar := newJar(t, newMemoryStore())
	assert.Empty(t, jar.AccessToken())
	assert.Empty(t, jar.Cookies(apiURL(t)))
}

func TestSessionSurvivesRestart(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	u := apiURL(t)

	first := newJar(t, store)
	first.SetCookies(u, []*http.Cookie{
		{Name: "accessToken", Value: "tok-1", Path: "/", HttpOnly: true},
		{Name: "refreshToken", Value: "ref-1", Path: "/", HttpOnly: true},
	})
	require.Equal(t, "tok-1", first.AccessToken())

	second := newJar(t, store)
	assert.Equal(t, "tok-1", second.AccessToken())

	names := make(map[string]string)
	for _, c := range second.Cookies(u) {
		names[c.Name] = c.Value
	}
	assert.Equal(t, map[string]string{"accessToken": "tok-1", "refreshToken": "ref-1"}, names)
}

func TestCookiesFromOtherHostsAreNotPersisted(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	jar := newJar(t, store)

	other, err := url.Parse("https://storage.example.net")
	require.NoError(t, err)
	jar.SetCookies(other, []*http.Cookie{{Name: "trace", Value: "x", Path: "/"}})

	_, ok := store.values[StoreKey]
	assert.False(t, ok)
	assert.Empty(t, jar.AccessToken())
}

func TestRotatedTokenReplacesPersistedValue(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	u := apiURL(t)

	jar := newJar(t, store)
	jar.SetCookies(u, []*http.Cookie{{Name: "accessToken", Value: "old", Path: "/"}})
	jar.SetCookies(u, []*http.Cookie{{Name: "accessToken", Value: "new", Path: "/"}})

	assert.Equal(t, "new", jar.AccessToken())
	assert.Equal(t, "new", newJar(t, store).AccessToken())
}

func TestExpiredCookieIsDroppedOnRestore(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	u := apiURL(t)

	jar := newJar(t, store)
	jar.SetCookies(u, []*http.Cookie{
		{Name: "accessToken", Value: "tok", Path: "/", Expires: time.Now().Add(time.Hour)},
		{Name: "stale", Value: "x", Path: "/", Expires: time.Now().Add(time.Hour)},
	})

	// Age the stale cookie out by rewriting it with a past expiry.
	jar.SetCookies(u, []*http.Cookie{{Name: "stale", Value: "x", Path: "/", MaxAge: -1}})

	restored := newJar(t, store)
	assert.Equal(t, "tok", restored.AccessToken())
	for _, c := range restored.Cookies(u) {
		assert.NotEqual(t, "stale", c.Name)
	}
}

func TestMaxAgeBecomesAbsoluteExpiry(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	u := apiURL(t)
	before := time.Now()

	jar := newJar(t, store)
	jar.SetCookies(u, []*http.Cookie{{Name: "accessToken", Value: "tok", Path: "/", MaxAge: 3600}})

	jar.mu.Lock()
	persisted := jar.session["accessToken"]
	jar.mu.Unlock()

	require.False(t, persisted.Expires.IsZero())
	assert.True(t, persisted.Expires.After(before.Add(59*time.Minute)))
	assert.True(t, persisted.Expires.Before(before.Add(61*time.Minute)))

	// Still live after a restart, and still carrying the deadline.
	restored := newJar(t, store)
	assert.Equal(t, "tok", restored.AccessToken())
	restored.mu.Lock()
	assert.False(t, restored.session["accessToken"].Expires.IsZero())
	restored.mu.Unlock()
}

func TestClearWipesStoreAndMemory(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	u := apiURL(t)

	jar := newJar(t, store)
	jar.SetCookies(u, []*http.Cookie{{Name: "accessToken", Value: "tok", Path: "/"}})

	require.NoError(t, jar.Clear())
	assert.Empty(t, jar.AccessToken())
	assert.Empty(t, jar.Cookies(u))
	_, ok := store.values[StoreKey]
	assert.False(t, ok)

	assert.Empty(t, newJar(t, store).AccessToken())
}

func TestPersistFailureKeepsInMemorySession(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.putErr = errors.New("store offline")
	u := apiURL(t)

	jar := newJar(t, store)
	jar.SetCookies(u, []*http.Cookie{{Name: "accessToken", Value: "tok", Path: "/"}})

	assert.Equal(t, "tok", jar.AccessToken())
}

func TestCorruptStoredSessionIsDiscarded(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.values[StoreKey] = "not json"

	jar := newJar(t, store)
	assert.Empty(t, jar.AccessToken())
}
