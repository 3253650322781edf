package services

import (
	"context"
	"fmt"

	"wealth/internal/core"
	"wealth/internal/log"
	"wealth/internal/repository"
)

// AuthService couples user accounts with the workspace session.
type AuthService struct {
	users   *repository.Users
	session *repository.Session
	logger  *log.Logger
}

func NewAuthService(users *repository.Users, session *repository.Session, logger *log.Logger) *AuthService {
	return &AuthService{
		users:   users,
		session: session,
		logger:  log.OrDiscard(logger).WithComponent(log.ComponentAuth),
	}
}

// Signup creates the user and logs them in.
func (s *AuthService) Signup(ctx context.Context, in core.SignupInput) (core.AuthResult, error) {
	res, err := s.users.Signup(ctx, in)
	if err != nil {
		return core.AuthResult{}, err
	}
	if err := s.session.Start(ctx, res.Token, res.User.ID); err != nil {
		return core.AuthResult{}, fmt.Errorf("start session: %w", err)
	}
	return res, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (core.AuthResult, error) {
	res, err := s.users.Login(ctx, email, password)
	if err != nil {
		return core.AuthResult{}, err
	}
	if err := s.session.Start(ctx, res.Token, res.User.ID); err != nil {
		return core.AuthResult{}, fmt.Errorf("start session: %w", err)
	}
	s.logger.InfoContext(ctx, "User logged in", log.FieldUserID, res.User.ID)
	return res, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.session.End(ctx); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	s.logger.InfoContext(ctx, "User logged out")
	return nil
}

// CurrentUser returns the logged-in user, or NOT_FOUND when nobody is.
func (s *AuthService) CurrentUser(ctx context.Context) (core.PublicUser, error) {
	st, ok := s.session.Current(ctx)
	if !ok {
		return core.PublicUser{}, core.WithMessage(core.ErrNotFound, "no active session")
	}
	u, err := s.users.Get(ctx, st.UserID)
	if err != nil {
		return core.PublicUser{}, err
	}
	return u.Public(), nil
}
