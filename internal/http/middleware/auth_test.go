package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wolfman30/mhrs-booking/internal/domain"
)

func TestRoleJWTMissingSecret(t *testing.T) {
	mw := RoleJWT("", nil)
	req := httptest.NewRequest(http.MethodGet, "/patient/info", nil)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRoleJWTMissingHeader(t *testing.T) {
	mw := RoleJWT("secret", nil)
	req := httptest.NewRequest(http.MethodGet, "/patient/info", nil)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRoleJWTInvalidToken(t *testing.T) {
	mw := RoleJWT("secret", nil)
	req := httptest.NewRequest(http.MethodGet, "/patient/info", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "wrong", domain.RolePatient, time.Minute))
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRoleJWTExpiredToken(t *testing.T) {
	mw := RoleJWT("secret", nil)
	req := httptest.NewRequest(http.MethodGet, "/patient/info", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "secret", domain.RolePatient, -time.Minute))
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRoleJWTWrongRole(t *testing.T) {
	mw := RoleJWT("secret", nil, domain.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/admin/hospitals", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "secret", domain.RolePatient, time.Minute))
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestRoleJWTValidToken(t *testing.T) {
	mw := RoleJWT("secret", nil, domain.RolePatient, domain.RoleDoctor)
	req := httptest.NewRequest(http.MethodGet, "/patient/info", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "secret", domain.RolePatient, time.Minute))
	rec := httptest.NewRecorder()

	called := false
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Fatalf("expected claims in context")
		}
		if claims.Subject != "22222222222" || claims.Role != domain.RolePatient {
			t.Fatalf("unexpected claims %+v", claims)
		}
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestIssueTokenRequiresSecret(t *testing.T) {
	if _, err := IssueToken("", domain.RoleAdmin, "admin", time.Hour, time.Now()); err == nil {
		t.Fatalf("expected error without secret")
	}
}

func signedToken(t *testing.T, secret string, role domain.Role, ttl time.Duration) string {
	t.Helper()
	signed, err := IssueToken(secret, role, "22222222222", ttl, time.Now())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRoleJWTUsesInjectedClock(t *testing.T) {
	issued := time.Date(2025, 11, 30, 10, 0, 0, 0, time.UTC)
	token, err := IssueToken("secret", domain.RoleDoctor, "10000000000", time.Hour, issued)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	mw := RoleJWT("secret", func() time.Time { return issued.Add(30 * time.Minute) })
	req := httptest.NewRequest(http.MethodGet, "/doctor/info", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
}
