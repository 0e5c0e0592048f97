package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pixelcrate/gameshelf-backend/api/middleware"
	"github.com/pixelcrate/gameshelf-backend/internal/identity"
	"github.com/pixelcrate/gameshelf-backend/pkg/config"
	pkgerrors "github.com/pixelcrate/gameshelf-backend/pkg/errors"
)

type stubIdentityService struct {
	users   map[string]identity.UserDTO
	byID    map[int64]identity.UserDTO
	nextID  int64
	loadErr error
}

func newStubIdentityService() *stubIdentityService {
	return &stubIdentityService{
		users:  map[string]identity.UserDTO{},
		byID:   map[int64]identity.UserDTO{},
		nextID: 1,
	}
}

func (s *stubIdentityService) GetOrCreate(ctx context.Context, username string) (identity.UserDTO, error) {
	if s.loadErr != nil {
		return identity.UserDTO{}, s.loadErr
	}
	normalized, err := identity.NormalizeUsername(username)
	if err != nil {
		return identity.UserDTO{}, err
	}
	if user, ok := s.users[normalized]; ok {
		return user, nil
	}
	user := identity.UserDTO{ID: s.nextID, Username: normalized}
	s.nextID++
	s.users[normalized] = user
	s.byID[user.ID] = user
	return user, nil
}

func (s *stubIdentityService) GetByID(ctx context.Context, userID int64) (identity.UserDTO, error) {
	if s.loadErr != nil {
		return identity.UserDTO{}, s.loadErr
	}
	if user, ok := s.byID[userID]; ok {
		return user, nil
	}
	return identity.UserDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
}

type stubBinder struct {
	token       string
	boundUser   int64
	unboundTok  string
	bindErr     error
	unbindErr   error
	bindCalls   int
	unbindCalls int
}

func (s *stubBinder) Bind(ctx context.Context, userID int64) (string, error) {
	s.bindCalls++
	s.boundUser = userID
	if s.bindErr != nil {
		return "", s.bindErr
	}
	return s.token, nil
}

func (s *stubBinder) Unbind(ctx context.Context, token string) error {
	s.unbindCalls++
	s.unboundTok = token
	return s.unbindErr
}

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{CookieName: "gameshelf_session", TTL: 24 * time.Hour}
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	res := rec.Result()
	defer res.Body.Close()
	for _, cookie := range res.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestAuthLogin_SetsCookieAndReturnsUser(t *testing.T) {
	svc := newStubIdentityService()
	binder := &stubBinder{token: "tok-abc"}
	handler := AuthLogin(svc, binder, testSessionConfig(), nil)

	body := `{"username":"alice","next":"/games/3"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rec.Code, rec.Body.String())
	}
	if binder.boundUser != 1 {
		t.Fatalf("expected bind for user 1, got %d", binder.boundUser)
	}

	cookie := findCookie(t, rec, "gameshelf_session")
	if cookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if cookie.Value != "tok-abc" {
		t.Fatalf("unexpected cookie value %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be http-only")
	}

	var payload struct {
		Data loginResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.User.Username != "alice" {
		t.Fatalf("unexpected username %q", payload.Data.User.Username)
	}
	if payload.Data.Next != "/games/3" {
		t.Fatalf("unexpected next %q", payload.Data.Next)
	}
}

func TestAuthLogin_ReusesExistingUser(t *testing.T) {
	svc := newStubIdentityService()
	binder := &stubBinder{token: "tok-1"}
	handler := AuthLogin(svc, binder, testSessionConfig(), nil)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"username":"alice"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
	}

	if binder.boundUser != 1 {
		t.Fatalf("expected both logins to bind user 1, got %d", binder.boundUser)
	}
	if binder.bindCalls != 2 {
		t.Fatalf("expected a fresh bind per login, got %d", binder.bindCalls)
	}
}

func TestAuthLogin_ValidationFailures(t *testing.T) {
	svc := newStubIdentityService()
	binder := &stubBinder{token: "tok-1"}
	handler := AuthLogin(svc, binder, testSessionConfig(), nil)

	cases := []struct {
		name string
		body string
	}{
		{name: "missing username", body: `{}`},
		{name: "blank username", body: `{"username":"   "}`},
		{name: "absolute next", body: `{"username":"alice","next":"https://evil.example"}`},
		{name: "unknown field", body: `{"username":"alice","password":"nope"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthLogout_UnbindsAndClearsCookie(t *testing.T) {
	binder := &stubBinder{}
	handler := AuthLogout(binder, testSessionConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(middleware.WithSessionToken(req.Context(), "tok-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if binder.unboundTok != "tok-1" {
		t.Fatalf("expected unbind of tok-1, got %q", binder.unboundTok)
	}

	cookie := findCookie(t, rec, "gameshelf_session")
	if cookie == nil {
		t.Fatal("expected clearing cookie")
	}
	if cookie.MaxAge >= 0 {
		t.Fatalf("expected negative max-age, got %d", cookie.MaxAge)
	}
}

func TestAuthLogout_WithoutSessionIsIdempotent(t *testing.T) {
	binder := &stubBinder{}
	handler := AuthLogout(binder, testSessionConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if binder.unbindCalls != 0 {
		t.Fatal("expected no unbind call without a token")
	}
}

func TestMe(t *testing.T) {
	svc := newStubIdentityService()
	seeded, err := svc.GetOrCreate(context.Background(), "alice")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	handler := Me(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), seeded.ID))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var payload struct {
		Data meResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.User == nil || payload.Data.User.Username != "alice" {
		t.Fatalf("unexpected user payload: %+v", payload.Data.User)
	}
}

func TestMe_Anonymous(t *testing.T) {
	handler := Me(newStubIdentityService(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var payload struct {
		Data meResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.User != nil {
		t.Fatalf("expected null user for anonymous request, got %+v", payload.Data.User)
	}
}

func TestMe_StaleBindingIsAnonymous(t *testing.T) {
	handler := Me(newStubIdentityService(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 999))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var payload struct {
		Data meResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.User != nil {
		t.Fatalf("expected null user for stale binding, got %+v", payload.Data.User)
	}
}

func TestAuthLogin_BindFailure(t *testing.T) {
	svc := newStubIdentityService()
	binder := &stubBinder{bindErr: errors.New("redis down")}
	handler := AuthLogin(svc, binder, testSessionConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"username":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}
