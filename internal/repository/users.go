package repository

import (
	"context"
	"fmt"

	"wealth/internal/core"
	"wealth/internal/log"
	"wealth/internal/store"
)

type Users struct {
	store    *store.KeyedStore
	counters *store.Counters
	hasher   PasswordHasher
	logger   *log.Logger
}

func NewUsers(s *store.KeyedStore, c *store.Counters, hasher PasswordHasher, logger *log.Logger) *Users {
	return &Users{
		store:    s,
		counters: c,
		hasher:   hasher,
		logger:   log.OrDiscard(logger).WithComponent(log.ComponentAuth),
	}
}

// List returns every stored user, passwords included.
func (r *Users) List(ctx context.Context) []core.User {
	return store.Get(ctx, r.store, store.KeyUsers, []core.User{})
}

func (r *Users) Get(ctx context.Context, id core.ID) (core.User, error) {
	for _, u := range r.List(ctx) {
		if u.ID == id {
			return u, nil
		}
	}
	return core.User{}, core.WithMessage(core.ErrNotFound, fmt.Sprintf("user %s not found", id))
}

// Signup registers a new user and returns its session credentials.
func (r *Users) Signup(ctx context.Context, in core.SignupInput) (core.AuthResult, error) {
	in.Email = core.NormalizeEmail(in.Email)
	if err := core.Validate(in); err != nil {
		return core.AuthResult{}, err
	}
	hashed, err := r.hasher.Hash(in.Password)
	if err != nil {
		return core.AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	var created core.User
	_, err = store.Update(ctx, r.store, store.KeyUsers, []core.User{}, func(users []core.User) ([]core.User, error) {
		for _, u := range users {
			if u.Email == in.Email {
				return nil, core.ErrDuplicateEmail
			}
		}
		id, err := r.counters.NextID(ctx, store.KeyUserCounter)
		if err != nil {
			return nil, err
		}
		created = core.User{
			ID:        id,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Password:  hashed,
		}
		return append(users, created), nil
	})
	if err != nil {
		return core.AuthResult{}, err
	}

	r.logger.InfoContext(ctx, "User signed up", log.FieldUserID, created.ID)
	return authResult(created), nil
}

// Login checks the credentials against the stored users.
func (r *Users) Login(ctx context.Context, email, password string) (core.AuthResult, error) {
	email = core.NormalizeEmail(email)
	for _, u := range r.List(ctx) {
		if u.Email == email && r.hasher.Matches(u.Password, password) {
			return authResult(u), nil
		}
	}
	r.logger.WarnContext(ctx, "Login rejected")
	return core.AuthResult{}, core.ErrInvalidCredentials
}

func authResult(u core.User) core.AuthResult {
	return core.AuthResult{Token: core.SessionToken(u.ID), User: u.Public()}
}
