package ports

import (
	"context"

	"github.com/recibos/billing-system/internal/core/domain"
)

// AuthService issues and resolves session keys.
type AuthService interface {
	// Login matches email (case-insensitive) and password against stored
	// accounts. On success it issues a fresh opaque key with a server-side
	// TTL; otherwise it returns domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, *domain.Identity, error)

	// Resolve maps a key back to the identity it was issued for.
	// Unknown, expired, or empty keys return domain.ErrUnauthorized.
	Resolve(ctx context.Context, key string) (*domain.Identity, error)

	// ChangePassword sets a new password for targetUserID. Every caller may
	// change their own password; changing someone else's requires
	// administrator tier.
	ChangePassword(ctx context.Context, key, targetUserID, newPassword string) error
}
