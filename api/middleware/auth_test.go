package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/ovenandcrumb/bakeshop-backend/pkg/auth"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/config"
)

var authTestJWT = config.JWTConfig{
	Secret:            "test-secret-test-secret-test-secret",
	Issuer:            "bakeshop",
	ExpirationMinutes: 60,
}

func mintTestToken(t *testing.T, adminID uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(authTestJWT, time.Now(), pkgauth.AccessTokenPayload{
		AdminID: adminID,
		Email:   "baker@ovenandcrumb.ca",
		Name:    "Head Baker",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	mw := Auth(authTestJWT, nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if handlerCalled {
		t.Fatalf("handler should not run without credentials")
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	mw := Auth(authTestJWT, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSeedsAdminContext(t *testing.T) {
	adminID := uuid.New()
	mw := Auth(authTestJWT, nil)

	var gotAdminID, gotEmail string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAdminID = AdminIDFromContext(r.Context())
		gotEmail = AdminEmailFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, adminID))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotAdminID != adminID.String() {
		t.Fatalf("expected admin id %s got %s", adminID, gotAdminID)
	}
	if gotEmail != "baker@ovenandcrumb.ca" {
		t.Fatalf("unexpected email %s", gotEmail)
	}
}
