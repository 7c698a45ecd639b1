package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/recibos/billing-system/internal/api/metrics"
	"github.com/recibos/billing-system/internal/core/domain"
	"github.com/recibos/billing-system/internal/core/ports"
)

// ProductService manages the catalog of sellable items.
type ProductService struct {
	repo  ports.ProductRepository
	guard *Guard
	log   zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, guard *Guard, log zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, guard: guard, log: log}
}

func (s *ProductService) List(ctx context.Context, key string) ([]domain.Product, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.ProductRead, "product"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *ProductService) Create(ctx context.Context, key string, p *domain.Product) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.ProductWrite, "product"); err != nil {
		return err
	}
	if p.Name == "" {
		return domain.ErrBadRequest
	}
	if p.ID == "" {
		p.ID = newEntityID()
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("product", "create").Inc()
	s.log.Info().Str("product_id", p.ID).Msg("product created")
	return nil
}

func (s *ProductService) Update(ctx context.Context, key string, p *domain.Product) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.ProductWrite, "product"); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("product", "update").Inc()
	return nil
}

func (s *ProductService) Delete(ctx context.Context, key, id string) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.ProductDelete, "product"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("product", "delete").Inc()
	return nil
}
