package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/recibos/billing-system/internal/api/metrics"
	"github.com/recibos/billing-system/internal/core/domain"
	"github.com/recibos/billing-system/internal/core/ports"
)

// DepositService manages payments. Amount is expected in settlement currency
// units, already converted by the caller; ExchangeRate records the rate that
// was applied (1 for PEN).
type DepositService struct {
	repo  ports.DepositRepository
	guard *Guard
	log   zerolog.Logger
}

func NewDepositService(repo ports.DepositRepository, guard *Guard, log zerolog.Logger) *DepositService {
	return &DepositService{repo: repo, guard: guard, log: log}
}

func (s *DepositService) List(ctx context.Context, key string) ([]domain.Deposit, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.DepositRead, "deposit"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *DepositService) ListByClient(ctx context.Context, key, clientID string) ([]domain.Deposit, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.DepositRead, "deposit"); err != nil {
		return nil, err
	}
	return s.repo.ListByClientID(ctx, clientID)
}

func (s *DepositService) Search(ctx context.Context, key, query string) ([]domain.Deposit, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.DepositRead, "deposit"); err != nil {
		return nil, err
	}
	if query == "" {
		return nil, domain.ErrBadRequest
	}
	return s.repo.Search(ctx, query)
}

func (s *DepositService) ListByDateRange(ctx context.Context, key string, start, end time.Time) ([]domain.Deposit, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.DepositRead, "deposit"); err != nil {
		return nil, err
	}
	if start.IsZero() || end.IsZero() {
		return nil, domain.ErrBadRequest
	}
	return s.repo.ListByDateRange(ctx, start, end)
}

func (s *DepositService) Create(ctx context.Context, key string, d *domain.Deposit) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.DepositWrite, "deposit"); err != nil {
		return err
	}
	if d.ClientID == "" || d.Amount <= 0 {
		return domain.ErrBadRequest
	}
	if d.Currency != domain.CurrencyPEN && d.Currency != domain.CurrencyUSD {
		return domain.ErrBadRequest
	}
	if d.ExchangeRate == 0 {
		d.ExchangeRate = 1
	}
	if d.ID == "" {
		d.ID = newEntityID()
	}
	if d.Date.IsZero() {
		d.Date = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, d); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("deposit", "create").Inc()
	s.log.Info().
		Str("deposit_id", d.ID).
		Str("client_id", d.ClientID).
		Str("currency", d.Currency).
		Float64("amount", d.Amount).
		Msg("deposit created")
	return nil
}

// Update replaces a deposit; unknown ids succeed silently. An omitted
// exchange rate defaults the same way Create defaults it, and the stored
// date survives when the caller leaves it out.
func (s *DepositService) Update(ctx context.Context, key string, d *domain.Deposit) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.DepositWrite, "deposit"); err != nil {
		return err
	}
	if d.ExchangeRate == 0 {
		d.ExchangeRate = 1
	}
	if d.Date.IsZero() {
		existing, err := s.repo.List(ctx)
		if err != nil {
			return err
		}
		for i := range existing {
			if existing[i].ID == d.ID {
				d.Date = existing[i].Date
				break
			}
		}
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("deposit", "update").Inc()
	return nil
}

func (s *DepositService) Delete(ctx context.Context, key, id string) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.DepositDelete, "deposit"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("deposit", "delete").Inc()
	return nil
}
