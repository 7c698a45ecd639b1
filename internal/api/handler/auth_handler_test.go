package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/recibos/billing-system/internal/api/middleware"
	"github.com/recibos/billing-system/internal/core/domain"
)

type stubAuthService struct {
	loginFn          func(ctx context.Context, email, password string) (string, *domain.Identity, error)
	resolveFn        func(ctx context.Context, key string) (*domain.Identity, error)
	changePasswordFn func(ctx context.Context, key, targetUserID, newPassword string) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Resolve(ctx context.Context, key string) (*domain.Identity, error) {
	return s.resolveFn(ctx, key)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, key, targetUserID, newPassword string) error {
	return s.changePasswordFn(ctx, key, targetUserID, newPassword)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Identity, error) {
			if email != "admin@example.com" || password != "admin123" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return "opaque-key", &domain.Identity{UserID: "u1", DisplayName: "admin@example.com", Tier: domain.TierAdministrator}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := strings.NewReader(`{"email":"admin@example.com","password":"admin123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["key"] != "opaque-key" {
		t.Fatalf("key missing from response: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response: %+v", resp)
	}
	if user["tier"] != "administrator" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Login(c)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Identity, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	body := strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// The sentinel propagates; the central error handler maps it to 401.
	if err := handler.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		changePasswordFn: func(ctx context.Context, key, targetUserID, newPassword string) error {
			if key != "session-key" || targetUserID != "self" || newPassword != "newpw" {
				t.Fatalf("unexpected args: %s %s %s", key, targetUserID, newPassword)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	body := strings.NewReader(`{"target_user_id":"self","new_password":"newpw"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/password", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKey, "session-key")

	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ChangePassword_NoSession(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/password", strings.NewReader(`{"new_password":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.ChangePassword(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
