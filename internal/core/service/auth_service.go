package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/recibos/billing-system/internal/api/metrics"
	"github.com/recibos/billing-system/internal/core/domain"
	"github.com/recibos/billing-system/internal/core/ports"
)

// AuthService implements login, key resolution, and password changes.
// Keys are random 32-byte tokens held server-side with a TTL; there is
// nothing to decode in them, and logging in again simply issues a new one.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	guard    *Guard
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, guard *Guard, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, sessions: sessions, guard: guard, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	key, err := generateKey()
	if err != nil {
		return "", nil, err
	}

	identity := domain.Identity{
		UserID:      user.ID,
		DisplayName: user.Email,
		Tier:        user.Tier,
	}
	if err := s.sessions.Put(ctx, key, identity, s.tokenTTL); err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Str("tier", string(user.Tier)).Msg("session issued")
	return key, &identity, nil
}

func (s *AuthService) Resolve(ctx context.Context, key string) (*domain.Identity, error) {
	return s.guard.Require(ctx, key, domain.TierBasic)
}

// ChangePassword sets a new password for targetUserID. Callers may always
// change their own; any other target requires administrator tier.
func (s *AuthService) ChangePassword(ctx context.Context, key, targetUserID, newPassword string) error {
	if newPassword == "" {
		return domain.ErrBadRequest
	}

	identity, err := s.guard.Require(ctx, key, domain.TierBasic)
	if err != nil {
		return err
	}
	if targetUserID == "" || targetUserID == "self" {
		targetUserID = identity.UserID
	}
	if identity.UserID != targetUserID && !identity.Tier.Meets(domain.TierAdministrator) {
		return domain.ErrUnauthorized
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID != targetUserID {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		users[i].PasswordHash = string(hash)
		users[i].UpdatedAt = time.Now().UTC()
		return s.users.Update(ctx, &users[i])
	}
	// Absent target follows the store-wide update-on-missing rule: no-op.
	return nil
}

// EnsureAdministrator seeds a bootstrap administrator when none exists.
// Best effort: a race between two starting instances can seed twice; the
// second insert is harmless for login since FindByEmail picks one.
func (s *AuthService) EnsureAdministrator(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Tier == domain.TierAdministrator {
			return nil
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	admin := &domain.User{
		ID:           newEntityID(),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Tier:         domain.TierAdministrator,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, admin); err != nil {
		return err
	}
	s.log.Warn().Str("email", admin.Email).Msg("no administrator found, bootstrap account created")
	return nil
}

// generateKey returns a 64-hex-char random session key.
func generateKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// newEntityID returns a random 12-hex-char record id.
func newEntityID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%012x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
