package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ovenandcrumb/bakeshop-backend/api/middleware"
	adminsvc "github.com/ovenandcrumb/bakeshop-backend/internal/admins"
	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
)

type stubAdminService struct {
	loginFn   func(ctx context.Context, input adminsvc.LoginInput) (*adminsvc.LoginResult, error)
	profileFn func(ctx context.Context, adminID uuid.UUID) (*adminsvc.AdminDTO, error)
}

func (s *stubAdminService) Login(ctx context.Context, input adminsvc.LoginInput) (*adminsvc.LoginResult, error) {
	return s.loginFn(ctx, input)
}

func (s *stubAdminService) Profile(ctx context.Context, adminID uuid.UUID) (*adminsvc.AdminDTO, error) {
	return s.profileFn(ctx, adminID)
}

func TestAdminLogin(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubAdminService{
			loginFn: func(ctx context.Context, input adminsvc.LoginInput) (*adminsvc.LoginResult, error) {
				if input.Email != "owner@ovenandcrumb.ca" {
					t.Fatalf("unexpected email %q", input.Email)
				}
				return &adminsvc.LoginResult{
					AccessToken: "token-123",
					Admin:       adminsvc.AdminDTO{ID: uuid.New(), Email: input.Email},
				}, nil
			},
		}
		body := `{"email":"owner@ovenandcrumb.ca","password":"correct horse"}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		AdminLogin(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "token-123") {
			t.Fatalf("expected token in body, got %s", rec.Body.String())
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		stub := &stubAdminService{
			loginFn: func(ctx context.Context, input adminsvc.LoginInput) (*adminsvc.LoginResult, error) {
				return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
			},
		}
		body := `{"email":"owner@ovenandcrumb.ca","password":"wrong password"}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		AdminLogin(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing password", func(t *testing.T) {
		stub := &stubAdminService{}
		body := `{"email":"owner@ovenandcrumb.ca"}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		AdminLogin(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAdminMe(t *testing.T) {
	logg := testLogger()
	adminID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubAdminService{
			profileFn: func(ctx context.Context, id uuid.UUID) (*adminsvc.AdminDTO, error) {
				if id != adminID {
					t.Fatalf("unexpected admin id %s", id)
				}
				return &adminsvc.AdminDTO{ID: adminID, Email: "owner@ovenandcrumb.ca"}, nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/me", nil)
		req = req.WithContext(middleware.WithAdminID(req.Context(), adminID.String()))
		rec := httptest.NewRecorder()
		AdminMe(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("no identity in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/me", nil)
		rec := httptest.NewRecorder()
		AdminMe(&stubAdminService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
