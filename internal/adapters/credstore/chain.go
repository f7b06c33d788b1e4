package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/klyve/vodctl/internal/ports"
)

// Chain tries a primary store and falls back to a secondary one. Context
// cancellation is never papered over with a fallback attempt.
type Chain struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Chain)(nil)

func NewChain(primary, fallback ports.SecretStore) (*Chain, error) {
	if primary == nil {
		return nil, errors.New("primary secret store is nil")
	}
	if fallback == nil {
		return nil, errors.New("fallback secret store is nil")
	}
	return &Chain{primary: primary, fallback: fallback}, nil
}

// NewDefault builds the standard chain: pass(1) first, permission-restricted
// files under fileRoot second.
func NewDefault(passPrefix, fileRoot string) (*Chain, error) {
	return NewChain(NewPassStore(passPrefix), NewFileStore(fileRoot))
}

func (c *Chain) Put(ctx context.Context, key string, value string) error {
	err := c.primary.Put(ctx, key, value)
	if err == nil {
		return nil
	}
	if skipFallback(err) {
		return err
	}

	fallbackErr := c.fallback.Put(ctx, key, value)
	if fallbackErr == nil {
		return nil
	}
	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

func (c *Chain) Get(ctx context.Context, key string) (string, error) {
	value, err := c.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if skipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := c.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}
	return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

func (c *Chain) Delete(ctx context.Context, key string) error {
	err := c.primary.Delete(ctx, key)
	if err == nil {
		return nil
	}
	if skipFallback(err) {
		return err
	}

	fallbackErr := c.fallback.Delete(ctx, key)
	if fallbackErr == nil {
		return nil
	}
	return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
}

func skipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
