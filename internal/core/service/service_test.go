package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/recibos/billing-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	sessions map[string]domain.Identity
	getErr   error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.Identity)}
}

func (s *stubSessionStore) Put(_ context.Context, key string, identity domain.Identity, _ time.Duration) error {
	s.sessions[key] = identity
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, key string) (*domain.Identity, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	identity, ok := s.sessions[key]
	if !ok {
		return nil, nil
	}
	return &identity, nil
}

func (s *stubSessionStore) Delete(_ context.Context, key string) error {
	delete(s.sessions, key)
	return nil
}

// seedKey registers a session directly, bypassing login.
func (s *stubSessionStore) seedKey(key string, userID string, tier domain.Tier) {
	s.sessions[key] = domain.Identity{UserID: userID, DisplayName: userID + "@example.com", Tier: tier}
}

type stubUserRepo struct {
	users     []domain.User
	insertErr error
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	return append([]domain.User(nil), r.users...), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, email) {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) Insert(_ context.Context, u *domain.User) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.users = append(r.users, *u)
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	for i := range r.users {
		if r.users[i].ID == u.ID {
			r.users[i] = *u
			return nil
		}
	}
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	kept := r.users[:0]
	for _, u := range r.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	r.users = kept
	return nil
}

type stubBillRepo struct {
	bills     []domain.Bill
	updateErr error
}

func (r *stubBillRepo) List(_ context.Context) ([]domain.Bill, error) {
	return append([]domain.Bill(nil), r.bills...), nil
}

func (r *stubBillRepo) ListByClientID(_ context.Context, clientID string) ([]domain.Bill, error) {
	var out []domain.Bill
	for _, b := range r.bills {
		if b.ClientID == clientID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBillRepo) Search(_ context.Context, query string) ([]domain.Bill, error) {
	q := strings.ToLower(query)
	var out []domain.Bill
	for _, b := range r.bills {
		if strings.Contains(strings.ToLower(b.Identifier), q) ||
			strings.Contains(strings.ToLower(b.ClientID), q) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBillRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]domain.Bill, error) {
	var out []domain.Bill
	for _, b := range r.bills {
		if !b.Date.Before(start) && !b.Date.After(end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBillRepo) Insert(_ context.Context, b *domain.Bill) error {
	r.bills = append(r.bills, *b)
	return nil
}

func (r *stubBillRepo) Update(_ context.Context, b *domain.Bill) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for i := range r.bills {
		if r.bills[i].ID == b.ID {
			r.bills[i] = *b
			return nil
		}
	}
	return nil
}

func (r *stubBillRepo) Delete(_ context.Context, id string) error {
	kept := r.bills[:0]
	for _, b := range r.bills {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	r.bills = kept
	return nil
}

type stubDepositRepo struct {
	deposits []domain.Deposit
}

func (r *stubDepositRepo) List(_ context.Context) ([]domain.Deposit, error) {
	return append([]domain.Deposit(nil), r.deposits...), nil
}

func (r *stubDepositRepo) ListByClientID(_ context.Context, clientID string) ([]domain.Deposit, error) {
	var out []domain.Deposit
	for _, d := range r.deposits {
		if d.ClientID == clientID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *stubDepositRepo) Search(_ context.Context, query string) ([]domain.Deposit, error) {
	q := strings.ToLower(query)
	var out []domain.Deposit
	for _, d := range r.deposits {
		if strings.Contains(strings.ToLower(d.ClientID), q) ||
			strings.Contains(strings.ToLower(d.OperationCode), q) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *stubDepositRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]domain.Deposit, error) {
	var out []domain.Deposit
	for _, d := range r.deposits {
		if !d.Date.Before(start) && !d.Date.After(end) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *stubDepositRepo) Insert(_ context.Context, d *domain.Deposit) error {
	r.deposits = append(r.deposits, *d)
	return nil
}

func (r *stubDepositRepo) Update(_ context.Context, d *domain.Deposit) error {
	for i := range r.deposits {
		if r.deposits[i].ID == d.ID {
			r.deposits[i] = *d
			return nil
		}
	}
	return nil
}

func (r *stubDepositRepo) Delete(_ context.Context, id string) error {
	kept := r.deposits[:0]
	for _, d := range r.deposits {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	r.deposits = kept
	return nil
}

// testGuard wires a guard with the default matrix and three seeded keys:
// "basic-key", "advanced-key", "admin-key".
func testGuard() (*Guard, *stubSessionStore) {
	sessions := newStubSessionStore()
	sessions.seedKey("basic-key", "u-basic", domain.TierBasic)
	sessions.seedKey("advanced-key", "u-advanced", domain.TierAdvanced)
	sessions.seedKey("admin-key", "u-admin", domain.TierAdministrator)
	return NewGuard(sessions, domain.DefaultAccessPolicy()), sessions
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
