package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// captureMailer records the last verification link instead of sending it.
type captureMailer struct {
	to  string
	url string
}

func (m *captureMailer) SendVerification(_ context.Context, to, verifyURL string) error {
	m.to = to
	m.url = verifyURL
	return nil
}

func authRouter(t *testing.T, store Store, mailer *captureMailer) *chi.Mux {
	t.Helper()
	logger := testLogger()

	r := chi.NewRouter()
	r.Post("/api/auth/register", handleRegister(logger, store, mailer, "http://test.local"))
	r.Post("/api/auth/verify", handleVerify(logger, store))
	r.Post("/api/auth/login", handleLogin(logger, store))
	r.Post("/api/auth/logout", handleLogout(logger, store))
	r.Group(func(r chi.Router) {
		r.Use(userAuthMiddleware(store))
		r.Get("/api/auth/me", handleMe(logger, store))
		r.Delete("/api/auth/me", handleEraseMe(logger, store))
	})
	return r
}

func postJSON(t *testing.T, r http.Handler, path, token string, v any) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(v)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	store := setupStore(t)
	mailer := &captureMailer{}
	r := authRouter(t, store, mailer)

	// Register.
	w := postJSON(t, r, "/api/auth/register", "", RegisterRequest{
		Email: "ruth@example.com", Name: "Ruth", Password: "gleanfields",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mailer.to != "ruth@example.com" {
		t.Fatalf("verification email sent to %q", mailer.to)
	}

	// The emailed link carries the token.
	_, token, found := strings.Cut(mailer.url, "token=")
	if !found || token == "" {
		t.Fatalf("verification url %q has no token", mailer.url)
	}

	// Login before verification works; the account is just unverified.
	w = postJSON(t, r, "/api/auth/login", "", LoginRequest{Email: "ruth@example.com", Password: "gleanfields"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var login LoginResponse
	json.NewDecoder(w.Body).Decode(&login)
	if login.Token == "" || login.User.Verified {
		t.Fatalf("login response = %+v", login)
	}

	// Verify.
	w = postJSON(t, r, "/api/auth/verify", "", VerifyRequest{Token: token})
	if w.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Me now reports verified.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rec.Code)
	}
	var me UserResponse
	json.NewDecoder(rec.Body).Decode(&me)
	if !me.Verified || me.Email != "ruth@example.com" {
		t.Errorf("me = %+v", me)
	}
}

func TestRegisterValidation(t *testing.T) {
	store := setupStore(t)
	r := authRouter(t, store, &captureMailer{})

	tests := []struct {
		name string
		req  RegisterRequest
		want int
	}{
		{"bad email", RegisterRequest{Email: "not-an-email", Password: "longenough"}, http.StatusBadRequest},
		{"short password", RegisterRequest{Email: "a@example.com", Password: "short"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postJSON(t, r, "/api/auth/register", "", tt.req); w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := setupStore(t)
	r := authRouter(t, store, &captureMailer{})

	req := RegisterRequest{Email: "dup@example.com", Password: "longenough"}
	if w := postJSON(t, r, "/api/auth/register", "", req); w.Code != http.StatusCreated {
		t.Fatalf("first register: %d", w.Code)
	}
	if w := postJSON(t, r, "/api/auth/register", "", req); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", w.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := setupStore(t)
	r := authRouter(t, store, &captureMailer{})

	postJSON(t, r, "/api/auth/register", "", RegisterRequest{Email: "a@example.com", Password: "rightpassword"})
	w := postJSON(t, r, "/api/auth/login", "", LoginRequest{Email: "a@example.com", Password: "wrongpassword"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	store := setupStore(t)
	r := authRouter(t, store, &captureMailer{})
	_, token := createVerifiedUser(t, store)

	if w := postJSON(t, r, "/api/auth/logout", token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", rec.Code)
	}
}

func TestEraseAccount(t *testing.T) {
	store := setupStore(t)
	r := authRouter(t, store, &captureMailer{})
	u, token := createVerifiedUser(t, store)

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("erase: expected 204, got %d", w.Code)
	}

	if _, err := store.UserByID(context.Background(), u.ID); err == nil {
		t.Error("user still exists after erase")
	}
}
