package services

import (
	"context"
	"errors"
	"testing"

	"wealth/internal/core"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)
	auth := NewAuthService(r.Users, r.Session, nil)

	if _, err := auth.CurrentUser(ctx); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected no current user, got %v", err)
	}

	res, err := auth.Signup(ctx, core.SignupInput{FirstName: "Ada", LastName: "L", Email: "a@x", Password: "p"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	u, err := auth.CurrentUser(ctx)
	if err != nil || u.ID != res.User.ID {
		t.Fatalf("current user after signup = %+v, %v", u, err)
	}

	if err := auth.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := auth.CurrentUser(ctx); err == nil {
		t.Fatalf("session survived logout")
	}

	if _, err := auth.Login(ctx, "a@x", "wrong"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
	}
	if _, ok := r.Session.Current(ctx); ok {
		t.Fatalf("failed login must not start a session")
	}

	res, err = auth.Login(ctx, "a@x", "p")
	if err != nil || res.Token != "local-token-1" {
		t.Fatalf("login = %+v, %v", res, err)
	}
	if st, ok := r.Session.Current(ctx); !ok || st.Token != "local-token-1" {
		t.Fatalf("session = %+v", st)
	}
}
