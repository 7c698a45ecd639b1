package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/recibos/billing-system/internal/api/metrics"
	"github.com/recibos/billing-system/internal/core/domain"
	"github.com/recibos/billing-system/internal/core/ports"
)

// ClientService manages the customer directory, including per-client price
// overrides.
type ClientService struct {
	repo  ports.ClientRepository
	guard *Guard
	log   zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, guard *Guard, log zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, guard: guard, log: log}
}

func (s *ClientService) List(ctx context.Context, key string) ([]domain.Client, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.ClientRead, "client"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *ClientService) Create(ctx context.Context, key string, c *domain.Client) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.ClientWrite, "client"); err != nil {
		return err
	}
	if c.Name == "" {
		return domain.ErrBadRequest
	}
	if c.ID == "" {
		c.ID = newEntityID()
	}
	if c.Prices == nil {
		c.Prices = map[string]float64{}
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("client", "create").Inc()
	s.log.Info().Str("client_id", c.ID).Msg("client created")
	return nil
}

func (s *ClientService) Update(ctx context.Context, key string, c *domain.Client) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.ClientWrite, "client"); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("client", "update").Inc()
	return nil
}

func (s *ClientService) Delete(ctx context.Context, key, id string) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.ClientDelete, "client"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("client", "delete").Inc()
	return nil
}
