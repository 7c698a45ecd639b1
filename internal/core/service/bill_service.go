package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/recibos/billing-system/internal/api/metrics"
	"github.com/recibos/billing-system/internal/core/domain"
	"github.com/recibos/billing-system/internal/core/ports"
)

// BillService manages receipts. Line prices are snapshotted by the caller at
// creation time and stored as-is; this service never re-derives them from the
// current client or product prices.
type BillService struct {
	repo  ports.BillRepository
	guard *Guard
	log   zerolog.Logger
}

func NewBillService(repo ports.BillRepository, guard *Guard, log zerolog.Logger) *BillService {
	return &BillService{repo: repo, guard: guard, log: log}
}

func (s *BillService) List(ctx context.Context, key string) ([]domain.Bill, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.BillRead, "bill"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *BillService) ListByClient(ctx context.Context, key, clientID string) ([]domain.Bill, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.BillRead, "bill"); err != nil {
		return nil, err
	}
	return s.repo.ListByClientID(ctx, clientID)
}

func (s *BillService) Search(ctx context.Context, key, query string) ([]domain.Bill, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.BillRead, "bill"); err != nil {
		return nil, err
	}
	if query == "" {
		return nil, domain.ErrBadRequest
	}
	return s.repo.Search(ctx, query)
}

func (s *BillService) ListByDateRange(ctx context.Context, key string, start, end time.Time) ([]domain.Bill, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.BillRead, "bill"); err != nil {
		return nil, err
	}
	if start.IsZero() || end.IsZero() {
		return nil, domain.ErrBadRequest
	}
	return s.repo.ListByDateRange(ctx, start, end)
}

// Create stores the bill. The identifier is always generated here; whatever
// the caller put in that field is discarded.
func (s *BillService) Create(ctx context.Context, key string, b *domain.Bill) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.BillCreate, "bill"); err != nil {
		return err
	}
	if b.ClientID == "" || len(b.Products) == 0 {
		return domain.ErrBadRequest
	}
	if b.ID == "" {
		b.ID = newEntityID()
	}
	if b.Date.IsZero() {
		b.Date = time.Now().UTC()
	}
	b.Identifier = generateBillIdentifier()

	if err := s.repo.Insert(ctx, b); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("bill", "create").Inc()
	s.log.Info().
		Str("bill_id", b.ID).
		Str("client_id", b.ClientID).
		Str("identifier", b.Identifier).
		Float64("total", b.Total()).
		Msg("bill created")
	return nil
}

// Update replaces a bill; unknown ids succeed silently. The identifier is
// output-only on the wire, so a replacement always keeps the stored one, and
// the stored date survives when the caller omits it.
func (s *BillService) Update(ctx context.Context, key string, b *domain.Bill) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.BillUpdate, "bill"); err != nil {
		return err
	}
	if b.Identifier == "" || b.Date.IsZero() {
		existing, err := s.repo.List(ctx)
		if err != nil {
			return err
		}
		for i := range existing {
			if existing[i].ID == b.ID {
				if b.Identifier == "" {
					b.Identifier = existing[i].Identifier
				}
				if b.Date.IsZero() {
					b.Date = existing[i].Date
				}
				break
			}
		}
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("bill", "update").Inc()
	return nil
}

func (s *BillService) Delete(ctx context.Context, key, id string) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.BillDelete, "bill"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("bill", "delete").Inc()
	return nil
}

const identifierAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateBillIdentifier returns a receipt code in the format
// BOL-<unix-millis>-<5 random base36 chars>, e.g. BOL-1735689600000-K3ZQ7.
func generateBillIdentifier() string {
	suffix := make([]byte, 5)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(identifierAlphabet))))
		if err != nil {
			// fallback: derive from the clock
			suffix[i] = identifierAlphabet[time.Now().UnixNano()%36]
			continue
		}
		suffix[i] = identifierAlphabet[n.Int64()]
	}
	return strings.ToUpper(fmt.Sprintf("BOL-%d-%s", time.Now().UnixMilli(), suffix))
}
