package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/backoffice/internal/pkg"
)

const authTestSecret = "auth-test-secret-0123456789abcdef"

type fakeChecker struct {
	granted map[uint][]string
	err     error
}

func (f fakeChecker) HasPermission(_ context.Context, userID uint, code string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, c := range f.granted[userID] {
		if c == code {
			return true, nil
		}
	}
	return false, nil
}

func setupAuthRouter(tokens TokenParser, checker PermissionChecker) *gin.Engine {
	r := gin.New()
	r.Use(Auth(tokens, []string{"/api/v1/auth/login"}))
	r.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.String(http.StatusOK, "public")
	})
	r.GET("/api/v1/me", func(c *gin.Context) {
		c.String(http.StatusOK, strconv.FormatUint(uint64(UserID(c)), 10)+"/"+
			strconv.FormatUint(uint64(UserIDFromContext(c.Request.Context())), 10))
	})
	r.DELETE("/api/v1/customers/1", RequirePermission(checker, "customers.write"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func authRequest(r http.Handler, method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func mustToken(t *testing.T, svc *pkg.TokenService, userID uint) string {
	t.Helper()
	token, _, err := svc.Generate(userID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return token
}

func TestAuth_PublicPath(t *testing.T) {
	svc := pkg.NewTokenService(authTestSecret, "backoffice", time.Hour, nil)
	r := setupAuthRouter(svc, fakeChecker{})

	w := authRequest(r, http.MethodPost, "/api/v1/auth/login", "")
	if w.Code != http.StatusOK || w.Body.String() != "public" {
		t.Errorf("expected public access, got %d %q", w.Code, w.Body.String())
	}
}

func TestAuth_RejectsMissingAndInvalidTokens(t *testing.T) {
	svc := pkg.NewTokenService(authTestSecret, "backoffice", time.Hour, nil)
	other := pkg.NewTokenService("another-secret-0123456789abcdef!!", "backoffice", time.Hour, nil)
	r := setupAuthRouter(svc, fakeChecker{})

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"no header", "", "missing bearer token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "missing bearer token"},
		{"empty bearer", "Bearer ", "missing bearer token"},
		{"garbage", "Bearer not.a.jwt", "invalid or expired token"},
		{"foreign signature", "Bearer " + mustToken(t, other, 3), "invalid or expired token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := authRequest(r, http.MethodGet, "/api/v1/me", tt.header)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", w.Code)
			}
			var resp pkg.Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Message != tt.message {
				t.Errorf("message = %q; want %q", resp.Message, tt.message)
			}
		})
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	clock := &pkg.FixedClock{T: time.Now().UTC().Truncate(time.Second)}
	svc := pkg.NewTokenService(authTestSecret, "backoffice", time.Minute, clock)
	r := setupAuthRouter(svc, fakeChecker{})
	token := mustToken(t, svc, 5)

	clock.Advance(2 * time.Minute)
	if w := authRequest(r, http.MethodGet, "/api/v1/me", "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for expired token, got %d", w.Code)
	}
}

func TestAuth_SetsActingUser(t *testing.T) {
	svc := pkg.NewTokenService(authTestSecret, "backoffice", time.Hour, nil)
	r := setupAuthRouter(svc, fakeChecker{})

	w := authRequest(r, http.MethodGet, "/api/v1/me", "bearer "+mustToken(t, svc, 42))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != "42/42" {
		t.Errorf("acting user = %q; want 42/42", got)
	}
}

func TestRequirePermission(t *testing.T) {
	svc := pkg.NewTokenService(authTestSecret, "backoffice", time.Hour, nil)
	checker := fakeChecker{granted: map[uint][]string{1: {"customers.write"}, 2: {"customers.read"}}}
	r := setupAuthRouter(svc, checker)

	if w := authRequest(r, http.MethodDelete, "/api/v1/customers/1", "Bearer "+mustToken(t, svc, 1)); w.Code != http.StatusNoContent {
		t.Errorf("granted: expected 204, got %d", w.Code)
	}

	w := authRequest(r, http.MethodDelete, "/api/v1/customers/1", "Bearer "+mustToken(t, svc, 2))
	if w.Code != http.StatusForbidden {
		t.Fatalf("denied: expected 403, got %d", w.Code)
	}
	var resp pkg.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Message != "missing permission customers.write" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestRequirePermission_CheckerError(t *testing.T) {
	svc := pkg.NewTokenService(authTestSecret, "backoffice", time.Hour, nil)
	r := setupAuthRouter(svc, fakeChecker{err: errors.New("db down")})

	w := authRequest(r, http.MethodDelete, "/api/v1/customers/1", "Bearer "+mustToken(t, svc, 1))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestRequirePermission_Anonymous(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequirePermission(fakeChecker{}, "x.read"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if w := authRequest(r, http.MethodGet, "/x", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
