package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/klyve/vodctl/internal/domain"
)

// RefreshCoordinator serializes session refreshes. However many requests hit
// a 401 at once, exactly one refresh call goes out; everyone else parks on
// the in-flight attempt and shares its outcome.
//
// The coordinator is shared across all outbound requests because a refresh
// rotates the single session, no matter which request tripped it.
type RefreshCoordinator struct {
	mu       sync.Mutex
	inFlight bool
	waiters  []chan error

	refresh   func(ctx context.Context) error
	onExpired func()
	log       zerolog.Logger
}

func NewRefreshCoordinator(refresh func(ctx context.Context) error, onExpired func(), log zerolog.Logger) *RefreshCoordinator {
	return &RefreshCoordinator{
		refresh:   refresh,
		onExpired: onExpired,
		log:       log,
	}
}

// Refresh returns once a refresh attempt has settled. The caller that finds
// no attempt in flight issues the network call; concurrent callers queue and
// receive that same attempt's result. On failure the expiry hook runs once
// and every caller gets the failure.
func (c *RefreshCoordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		waiter := make(chan error, 1)
		c.waiters = append(c.waiters, waiter)
		c.mu.Unlock()

		select {
		case err := <-waiter:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.inFlight = true
	c.mu.Unlock()

	err := c.refresh(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrSessionExpired, err)
		c.log.Warn().Err(err).Msg("session refresh failed")
		if c.onExpired != nil {
			c.onExpired()
		}
	} else {
		c.log.Debug().Msg("session refreshed")
	}

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.inFlight = false
	c.mu.Unlock()

	for _, waiter := range waiters {
		waiter <- err
	}
	return err
}

// Reset drops in-flight bookkeeping. Queued waiters receive a session-expired
// failure rather than hanging. Intended for tests.
func (c *RefreshCoordinator) Reset() {
	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.inFlight = false
	c.mu.Unlock()

	for _, waiter := range waiters {
		waiter <- domain.ErrSessionExpired
	}
}
