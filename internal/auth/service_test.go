package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reelintake/internal/auth"
	"reelintake/internal/config"
	"reelintake/internal/logging"
)

func newService(t *testing.T) *auth.Service {
	t.Helper()
	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return auth.NewService(config.Auth{
		AdminEmail:        "admin@example.com",
		AdminPasswordHash: hash,
		TokenSecret:       "test-secret",
		TokenTTLMinutes:   60,
	}, logging.NewNop())
}

func TestSignInAndGetSession(t *testing.T) {
	svc := newService(t)

	session, err := svc.SignIn("Admin@Example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if session.Email != "admin@example.com" {
		t.Fatalf("unexpected email %q", session.Email)
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Fatal("expected future expiry")
	}

	roundTrip, err := svc.GetSession(session.Token)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if roundTrip.Email != session.Email {
		t.Fatalf("unexpected session %+v", roundTrip)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	svc := newService(t)

	if _, err := svc.SignIn("admin@example.com", "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn("other@example.com", "correct horse"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignInRequiresConfiguration(t *testing.T) {
	svc := auth.NewService(config.Auth{}, logging.NewNop())
	if _, err := svc.SignIn("admin@example.com", "anything"); !errors.Is(err, auth.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSignOutRevokesToken(t *testing.T) {
	svc := newService(t)

	session, err := svc.SignIn("admin@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if err := svc.SignOut(session.Token); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if _, err := svc.GetSession(session.Token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after sign-out, got %v", err)
	}
}

func TestGetSessionRejectsGarbage(t *testing.T) {
	svc := newService(t)
	if _, err := svc.GetSession("not-a-token"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestOnSessionChange(t *testing.T) {
	svc := newService(t)

	var events []*auth.Session
	svc.OnSessionChange(func(session *auth.Session) {
		events = append(events, session)
	})

	session, err := svc.SignIn("admin@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if err := svc.SignOut(session.Token); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0] == nil || events[1] != nil {
		t.Fatalf("expected sign-in then sign-out, got %v", events)
	}
}

func TestMiddleware(t *testing.T) {
	svc := newService(t)
	session, err := svc.SignIn("admin@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.SessionFromContext(r.Context()) == nil {
			t.Error("expected session on request context")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}
}
