// Package memory is the in-process storage backend. It exists for tests and
// single-node development deployments and is selected with STORE_BACKEND=memory.
// The collections live behind one RWMutex for the process lifetime; each
// operation is atomic but concurrent updates to the same id remain
// last-writer-wins, same as the other backends.
package memory

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/recibos/billing-system/internal/core/domain"
)

// Store holds every entity collection.
type Store struct {
	mu       sync.RWMutex
	users    []domain.User
	clients  []domain.Client
	products []domain.Product
	bills    []domain.Bill
	deposits []domain.Deposit
}

func NewStore() *Store {
	return &Store{}
}

// Seed loads the development fixture: one administrator, one basic user, and
// a couple of sample clients and products. Passwords are bcrypt-hashed even
// here so the rest of the system never sees a second code path.
func (s *Store) Seed() error {
	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	userHash, err := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = []domain.User{
		{ID: "1", Email: "admin@example.com", PasswordHash: string(adminHash), Tier: domain.TierAdministrator},
		{ID: "2", Email: "user@example.com", PasswordHash: string(userHash), Tier: domain.TierBasic},
	}
	s.clients = []domain.Client{
		{ID: "1", Name: "Client A", Prices: map[string]float64{}},
		{ID: "2", Name: "Client B", Prices: map[string]float64{}},
	}
	s.products = []domain.Product{
		{ID: "1", Name: "Product 1", GenericPrice: 100},
		{ID: "2", Name: "Product 2", GenericPrice: 200},
	}
	return nil
}
