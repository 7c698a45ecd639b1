package ports

import (
	"context"
	"time"

	"github.com/recibos/billing-system/internal/core/domain"
)

// SessionStore persists the mapping from opaque session keys to identities.
// Keys expire server-side after their TTL; an expired or unknown key resolves
// to (nil, nil).
type SessionStore interface {
	Put(ctx context.Context, key string, identity domain.Identity, ttl time.Duration) error
	Get(ctx context.Context, key string) (*domain.Identity, error)
	Delete(ctx context.Context, key string) error
}
