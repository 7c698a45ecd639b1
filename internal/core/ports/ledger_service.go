package ports

import (
	"context"
	"time"

	"github.com/recibos/billing-system/internal/core/domain"
)

// The ledger services are the authorization-gated face of the repositories:
// every method checks the caller's key against the configured tier matrix
// before touching storage, and fails the whole operation with
// domain.ErrUnauthorized (no partial effects) when the check fails.

type UserService interface {
	List(ctx context.Context, key string) ([]domain.User, error)
	Create(ctx context.Context, key string, email, password string, tier domain.Tier) (*domain.User, error)
	Update(ctx context.Context, key string, u *domain.User) error
	Delete(ctx context.Context, key, id string) error
}

type ClientService interface {
	List(ctx context.Context, key string) ([]domain.Client, error)
	Create(ctx context.Context, key string, c *domain.Client) error
	Update(ctx context.Context, key string, c *domain.Client) error
	Delete(ctx context.Context, key, id string) error
}

type ProductService interface {
	List(ctx context.Context, key string) ([]domain.Product, error)
	Create(ctx context.Context, key string, p *domain.Product) error
	Update(ctx context.Context, key string, p *domain.Product) error
	Delete(ctx context.Context, key, id string) error
}

type BillService interface {
	List(ctx context.Context, key string) ([]domain.Bill, error)
	ListByClient(ctx context.Context, key, clientID string) ([]domain.Bill, error)
	// Search is a case-insensitive substring match on identifier and client
	// id. An empty query is domain.ErrBadRequest, never match-all.
	Search(ctx context.Context, key, query string) ([]domain.Bill, error)
	// ListByDateRange bounds are inclusive; both are required.
	ListByDateRange(ctx context.Context, key string, start, end time.Time) ([]domain.Bill, error)
	// Create stores the bill, overwriting any caller-supplied Identifier
	// with a server-generated one. The passed bill is updated in place.
	Create(ctx context.Context, key string, b *domain.Bill) error
	Update(ctx context.Context, key string, b *domain.Bill) error
	Delete(ctx context.Context, key, id string) error
}

type DepositService interface {
	List(ctx context.Context, key string) ([]domain.Deposit, error)
	ListByClient(ctx context.Context, key, clientID string) ([]domain.Deposit, error)
	Search(ctx context.Context, key, query string) ([]domain.Deposit, error)
	ListByDateRange(ctx context.Context, key string, start, end time.Time) ([]domain.Deposit, error)
	Create(ctx context.Context, key string, d *domain.Deposit) error
	Update(ctx context.Context, key string, d *domain.Deposit) error
	Delete(ctx context.Context, key, id string) error
}
