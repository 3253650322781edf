package repository

import (
	"context"

	"wealth/internal/core"
	"wealth/internal/store"
)

// SessionState is the logged-in user of the workspace.
type SessionState struct {
	Token  string
	UserID core.ID
}

// Session stores the current token and user id as JSON strings under the
// token and userId keys.
type Session struct {
	store *store.KeyedStore
}

func NewSession(s *store.KeyedStore) *Session {
	return &Session{store: s}
}

// Start records a login. The token is written before the user id.
func (r *Session) Start(ctx context.Context, token string, userID core.ID) error {
	if err := r.store.Set(ctx, store.KeyToken, token); err != nil {
		return err
	}
	return r.store.Set(ctx, store.KeyUserID, string(userID))
}

// Current returns the active session, if both halves are present.
func (r *Session) Current(ctx context.Context) (SessionState, bool) {
	token := store.Get(ctx, r.store, store.KeyToken, "")
	userID := store.Get[core.ID](ctx, r.store, store.KeyUserID, "")
	if token == "" || userID == "" {
		return SessionState{}, false
	}
	return SessionState{Token: token, UserID: userID}, true
}

// End forgets the session.
func (r *Session) End(ctx context.Context) error {
	return r.store.RemoveMany(ctx, store.SessionKeys...)
}
