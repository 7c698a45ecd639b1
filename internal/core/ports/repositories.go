package ports

import (
	"context"
	"time"

	"github.com/recibos/billing-system/internal/core/domain"
)

// Repositories are the storage-agnostic contract every backend must satisfy.
// Shared semantics across all of them:
//
//   - Update and Delete on an id that does not exist are silent no-ops, not
//     errors. Callers that need to distinguish must List first.
//   - No cross-entity knowledge: deleting a client never touches its bills
//     or deposits, and nothing validates that a referenced client id exists.
//   - Search is a case-insensitive substring match; date ranges are inclusive
//     on both bounds.

// UserRepository persists accounts. FindByEmail matches case-insensitively
// and returns (nil, nil) when no account has that email.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Insert(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type ClientRepository interface {
	List(ctx context.Context) ([]domain.Client, error)
	Insert(ctx context.Context, c *domain.Client) error
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
}

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Insert(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}

type BillRepository interface {
	List(ctx context.Context) ([]domain.Bill, error)
	ListByClientID(ctx context.Context, clientID string) ([]domain.Bill, error)
	// Search matches the query against identifier and client id.
	Search(ctx context.Context, query string) ([]domain.Bill, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Bill, error)
	Insert(ctx context.Context, b *domain.Bill) error
	Update(ctx context.Context, b *domain.Bill) error
	Delete(ctx context.Context, id string) error
}

type DepositRepository interface {
	List(ctx context.Context) ([]domain.Deposit, error)
	ListByClientID(ctx context.Context, clientID string) ([]domain.Deposit, error)
	// Search matches the query against identifier fields: client id and
	// operation code.
	Search(ctx context.Context, query string) ([]domain.Deposit, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Deposit, error)
	Insert(ctx context.Context, d *domain.Deposit) error
	Update(ctx context.Context, d *domain.Deposit) error
	Delete(ctx context.Context, id string) error
}
