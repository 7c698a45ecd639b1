package memory

import (
	"context"
	"strings"
	"time"

	"github.com/recibos/billing-system/internal/core/domain"
)

// The repositories share the Store's lock and return copies, never aliases
// into the backing slices. Update and Delete on an absent id are silent
// no-ops per the store contract.

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type UserRepository struct{ store *Store }

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append([]domain.User(nil), r.store.users...), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for i := range r.store.users {
		if strings.EqualFold(r.store.users[i].Email, email) {
			u := r.store.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Insert(_ context.Context, u *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users = append(r.store.users, *u)
	return nil
}

func (r *UserRepository) Update(_ context.Context, u *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.users {
		if r.store.users[i].ID == u.ID {
			r.store.users[i] = *u
			return nil
		}
	}
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.users[:0]
	for _, u := range r.store.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	r.store.users = kept
	return nil
}

// ---------------------------------------------------------------------------
// Clients
// ---------------------------------------------------------------------------

type ClientRepository struct{ store *Store }

func NewClientRepository(store *Store) *ClientRepository {
	return &ClientRepository{store: store}
}

// cloneClient copies the price-override map so neither side can reach into
// the other's record.
func cloneClient(c domain.Client) domain.Client {
	out := c
	out.Prices = make(map[string]float64, len(c.Prices))
	for productID, price := range c.Prices {
		out.Prices[productID] = price
	}
	return out
}

func (r *ClientRepository) List(_ context.Context) ([]domain.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.Client, 0, len(r.store.clients))
	for _, c := range r.store.clients {
		out = append(out, cloneClient(c))
	}
	return out, nil
}

func (r *ClientRepository) Insert(_ context.Context, c *domain.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.clients = append(r.store.clients, cloneClient(*c))
	return nil
}

func (r *ClientRepository) Update(_ context.Context, c *domain.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.clients {
		if r.store.clients[i].ID == c.ID {
			r.store.clients[i] = cloneClient(*c)
			return nil
		}
	}
	return nil
}

func (r *ClientRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.clients[:0]
	for _, c := range r.store.clients {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	r.store.clients = kept
	return nil
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

type ProductRepository struct{ store *Store }

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) List(_ context.Context) ([]domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append([]domain.Product(nil), r.store.products...), nil
}

func (r *ProductRepository) Insert(_ context.Context, p *domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products = append(r.store.products, *p)
	return nil
}

func (r *ProductRepository) Update(_ context.Context, p *domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.products {
		if r.store.products[i].ID == p.ID {
			r.store.products[i] = *p
			return nil
		}
	}
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.products[:0]
	for _, p := range r.store.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	r.store.products = kept
	return nil
}

// ---------------------------------------------------------------------------
// Bills
// ---------------------------------------------------------------------------

type BillRepository struct{ store *Store }

func NewBillRepository(store *Store) *BillRepository {
	return &BillRepository{store: store}
}

// cloneBill copies the product line map so a stored bill cannot be mutated
// through a returned one (or vice versa).
func cloneBill(b domain.Bill) domain.Bill {
	out := b
	out.Products = make(map[string][]domain.LineItem, len(b.Products))
	for productID, lines := range b.Products {
		out.Products[productID] = append([]domain.LineItem(nil), lines...)
	}
	return out
}

func (r *BillRepository) List(_ context.Context) ([]domain.Bill, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.Bill, 0, len(r.store.bills))
	for _, b := range r.store.bills {
		out = append(out, cloneBill(b))
	}
	return out, nil
}

func (r *BillRepository) ListByClientID(_ context.Context, clientID string) ([]domain.Bill, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Bill
	for _, b := range r.store.bills {
		if b.ClientID == clientID {
			out = append(out, cloneBill(b))
		}
	}
	return out, nil
}

func (r *BillRepository) Search(_ context.Context, query string) ([]domain.Bill, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	q := strings.ToLower(query)
	var out []domain.Bill
	for _, b := range r.store.bills {
		if strings.Contains(strings.ToLower(b.Identifier), q) ||
			strings.Contains(strings.ToLower(b.ClientID), q) {
			out = append(out, cloneBill(b))
		}
	}
	return out, nil
}

func (r *BillRepository) ListByDateRange(_ context.Context, start, end time.Time) ([]domain.Bill, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Bill
	for _, b := range r.store.bills {
		if inRange(b.Date, start, end) {
			out = append(out, cloneBill(b))
		}
	}
	return out, nil
}

func (r *BillRepository) Insert(_ context.Context, b *domain.Bill) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.bills = append(r.store.bills, cloneBill(*b))
	return nil
}

func (r *BillRepository) Update(_ context.Context, b *domain.Bill) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.bills {
		if r.store.bills[i].ID == b.ID {
			r.store.bills[i] = cloneBill(*b)
			return nil
		}
	}
	return nil
}

func (r *BillRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.bills[:0]
	for _, b := range r.store.bills {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	r.store.bills = kept
	return nil
}

// ---------------------------------------------------------------------------
// Deposits
// ---------------------------------------------------------------------------

type DepositRepository struct{ store *Store }

func NewDepositRepository(store *Store) *DepositRepository {
	return &DepositRepository{store: store}
}

func (r *DepositRepository) List(_ context.Context) ([]domain.Deposit, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append([]domain.Deposit(nil), r.store.deposits...), nil
}

func (r *DepositRepository) ListByClientID(_ context.Context, clientID string) ([]domain.Deposit, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Deposit
	for _, d := range r.store.deposits {
		if d.ClientID == clientID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *DepositRepository) Search(_ context.Context, query string) ([]domain.Deposit, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	q := strings.ToLower(query)
	var out []domain.Deposit
	for _, d := range r.store.deposits {
		if strings.Contains(strings.ToLower(d.ClientID), q) ||
			strings.Contains(strings.ToLower(d.OperationCode), q) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *DepositRepository) ListByDateRange(_ context.Context, start, end time.Time) ([]domain.Deposit, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Deposit
	for _, d := range r.store.deposits {
		if inRange(d.Date, start, end) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *DepositRepository) Insert(_ context.Context, d *domain.Deposit) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.deposits = append(r.store.deposits, *d)
	return nil
}

func (r *DepositRepository) Update(_ context.Context, d *domain.Deposit) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.deposits {
		if r.store.deposits[i].ID == d.ID {
			r.store.deposits[i] = *d
			return nil
		}
	}
	return nil
}

func (r *DepositRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.deposits[:0]
	for _, d := range r.store.deposits {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	r.store.deposits = kept
	return nil
}

// inRange is inclusive on both bounds.
func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
