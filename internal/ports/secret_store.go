package ports

import "context"

// SecretStore persists opaque credential material (session cookies, OAuth
// tokens) outside the repository files.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
