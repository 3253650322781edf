// Package repository owns the storage keys of each domain entity and the
// invariants that hold within a single key.
package repository

import (
	"time"

	"wealth/internal/log"
	"wealth/internal/store"
)

// Options tune the repositories built by New.
type Options struct {
	Hasher PasswordHasher
	Now    func() time.Time
	Logger *log.Logger
}

// Repositories bundles every repository over one keyed store.
type Repositories struct {
	Store    *store.KeyedStore
	Counters *store.Counters

	Users   *Users
	Session *Session
	Assets  *Assets
	Growth  *Growth
	Goals   *Goals
	Budgets *Budgets
}

func New(s *store.KeyedStore, opts Options) *Repositories {
	if opts.Hasher == nil {
		opts.Hasher = NewBcryptHasher(0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := log.OrDiscard(opts.Logger)
	counters := store.NewCounters(s)

	return &Repositories{
		Store:    s,
		Counters: counters,
		Users:    NewUsers(s, counters, opts.Hasher, logger),
		Session:  NewSession(s),
		Assets:   NewAssets(s, counters, logger),
		Growth:   NewGrowth(s, counters, logger),
		Goals:    NewGoals(s, counters, opts.Now, logger),
		Budgets:  NewBudgets(s, opts.Now, logger),
	}
}
