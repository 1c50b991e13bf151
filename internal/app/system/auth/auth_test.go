package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/campusride/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/save-ride", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
}

func TestRequireSignedIn_WithUser_Passes(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := auth.WithUser(httptest.NewRequest("POST", "/api/save-ride", nil), &auth.SessionUser{Email: "a@vit.edu"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called || rec.Code != http.StatusOK {
		t.Errorf("expected handler to run with 200, got called=%v status=%d", called, rec.Code)
	}
}

// roundTrip signs in on one request and replays the cookie on a second one
// through LoadSessionUser.
func roundTrip(t *testing.T, sm *auth.SessionManager, u auth.SessionUser) (*auth.SessionUser, bool) {
	t.Helper()

	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, httptest.NewRequest("POST", "/api/login", nil), u); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	req := httptest.NewRequest("GET", "/api/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	var got *auth.SessionUser
	var ok bool
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), req)
	return got, ok
}

func TestSignIn_LoadSessionUser(t *testing.T) {
	sm := newTestSessionManager(t)

	got, ok := roundTrip(t, sm, auth.SessionUser{Email: "a@vit.edu", Name: "Asha", Role: "rider"})
	if !ok {
		t.Fatal("expected user in context")
	}
	if got.Email != "a@vit.edu" || got.Name != "Asha" || got.Role != "rider" {
		t.Errorf("unexpected session user %+v", got)
	}
}

type stubFetcher struct {
	user *auth.SessionUser
	err  error
}

func (s stubFetcher) FetchSessionUser(context.Context, string) (*auth.SessionUser, error) {
	return s.user, s.err
}

func TestLoadSessionUser_FetcherRefreshes(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{user: &auth.SessionUser{Email: "a@vit.edu", Name: "Asha P", Role: "passenger"}})

	got, ok := roundTrip(t, sm, auth.SessionUser{Email: "a@vit.edu", Name: "Asha", Role: "rider"})
	if !ok || got.Role != "passenger" || got.Name != "Asha P" {
		t.Errorf("expected refreshed user, got %+v ok=%v", got, ok)
	}
}

func TestLoadSessionUser_DeletedAccountSignedOut(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{})

	if _, ok := roundTrip(t, sm, auth.SessionUser{Email: "gone@vit.edu"}); ok {
		t.Error("expected no user for deleted account")
	}
}

func TestLoadSessionUser_FetchErrorKeepsCookieUser(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{err: errors.New("db down")})

	got, ok := roundTrip(t, sm, auth.SessionUser{Email: "a@vit.edu", Name: "Asha"})
	if !ok || got.Email != "a@vit.edu" {
		t.Errorf("expected cookie user to be kept, got %+v ok=%v", got, ok)
	}
}

func TestLoadSessionUser_GarbageCookieIgnored(t *testing.T) {
	sm := newTestSessionManager(t)

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-valid-cookie"})

	var ok bool
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), req)

	if ok {
		t.Error("expected no user for undecodable cookie")
	}
}

func TestSignOut(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, httptest.NewRequest("POST", "/api/logout", nil)); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected expiring cookie, got %+v", cookies)
	}
}
