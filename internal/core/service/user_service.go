package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/recibos/billing-system/internal/api/metrics"
	"github.com/recibos/billing-system/internal/core/domain"
	"github.com/recibos/billing-system/internal/core/ports"
)

// UserService is the administrator-gated account directory.
type UserService struct {
	repo  ports.UserRepository
	guard *Guard
	log   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, guard *Guard, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, guard: guard, log: log}
}

func (s *UserService) List(ctx context.Context, key string) ([]domain.User, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.UserRead, "user"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *UserService) Create(ctx context.Context, key string, email, password string, tier domain.Tier) (*domain.User, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.UserWrite, "user"); err != nil {
		return nil, err
	}
	if email == "" || password == "" {
		return nil, domain.ErrBadRequest
	}
	if _, ok := domain.ParseTier(string(tier)); !ok {
		return nil, domain.ErrBadRequest
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           newEntityID(),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Tier:         tier,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, err
	}

	metrics.EntityWritesTotal.WithLabelValues("user", "create").Inc()
	s.log.Info().Str("user_id", user.ID).Str("tier", string(tier)).Msg("user created")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, key string, u *domain.User) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.UserWrite, "user"); err != nil {
		return err
	}
	if _, ok := domain.ParseTier(string(u.Tier)); !ok {
		return domain.ErrBadRequest
	}
	u.Email = strings.ToLower(u.Email)
	u.UpdatedAt = time.Now().UTC()

	// Replacement without a hash keeps the stored one; password changes go
	// through AuthService.ChangePassword.
	if u.PasswordHash == "" {
		existing, err := s.repo.List(ctx)
		if err != nil {
			return err
		}
		for i := range existing {
			if existing[i].ID == u.ID {
				u.PasswordHash = existing[i].PasswordHash
				u.CreatedAt = existing[i].CreatedAt
				break
			}
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("user", "update").Inc()
	return nil
}

func (s *UserService) Delete(ctx context.Context, key, id string) error {
	if _, err := s.guard.require(ctx, key, s.guard.policy.UserDelete, "user"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.EntityWritesTotal.WithLabelValues("user", "delete").Inc()
	return nil
}
