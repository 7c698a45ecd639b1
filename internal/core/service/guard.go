package service

import (
	"context"
	"errors"

	"github.com/recibos/billing-system/internal/api/metrics"
	"github.com/recibos/billing-system/internal/core/domain"
	"github.com/recibos/billing-system/internal/core/ports"
)

// Guard is the single authorization choke point. Every tier-sensitive
// operation resolves the caller's key through it before doing anything else,
// so a failed check can never leave partial effects behind.
type Guard struct {
	sessions ports.SessionStore
	policy   domain.AccessPolicy
}

func NewGuard(sessions ports.SessionStore, policy domain.AccessPolicy) *Guard {
	return &Guard{sessions: sessions, policy: policy}
}

// Policy returns the tier matrix the guard enforces.
func (g *Guard) Policy() domain.AccessPolicy {
	return g.policy
}

// Require resolves the key and checks its tier against the minimum. An empty
// or unresolvable key fails regardless of the required tier.
func (g *Guard) Require(ctx context.Context, key string, min domain.Tier) (*domain.Identity, error) {
	if key == "" {
		return nil, domain.ErrUnauthorized
	}

	identity, err := g.sessions.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, domain.ErrUnauthorized
	}

	if !identity.Tier.Meets(min) {
		return nil, domain.ErrUnauthorized
	}
	return identity, nil
}

// require is the helper entity services use; it records denials per entity.
func (g *Guard) require(ctx context.Context, key string, min domain.Tier, entity string) (*domain.Identity, error) {
	identity, err := g.Require(ctx, key, min)
	if err != nil && errors.Is(err, domain.ErrUnauthorized) {
		metrics.AuthorizationDeniedTotal.WithLabelValues(entity).Inc()
	}
	return identity, err
}
