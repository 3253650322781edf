package cli

import (
	"context"
	"errors"
	"fmt"

	"wealth/internal/backend"
	"wealth/internal/config"
	"wealth/internal/core"
	"wealth/internal/log"
	"wealth/internal/repository"
	"wealth/internal/services"
	"wealth/internal/workspace"
)

// App wires the configured storage to every service a command may need.
type App struct {
	Config *config.Config
	Logger *log.Logger

	Backend   *backend.BackendResult
	Repos     *repository.Repositories
	Auth      *services.AuthService
	Budgets   *services.BudgetEngine
	Sampler   *services.GrowthSampler
	Savings   *services.SavingsAllocator
	Autosaver *services.GoalsAutosaver
	Workspace *workspace.Workspace
}

// Open creates the backend described by cfg and assembles the services.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	logger = log.OrDiscard(logger)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.MonthLocation()
	if err != nil {
		res.Cleanup()
		return nil, fmt.Errorf("month timezone: %w", err)
	}

	var hasher repository.PasswordHasher = repository.PlainHasher{}
	if cfg.PasswordHashing {
		hasher = repository.NewBcryptHasher(0)
	}
	repos := repository.New(res.Store, repository.Options{Hasher: hasher, Logger: logger})
	savings := services.NewSavingsAllocator(repos.Goals, logger)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Backend:   res,
		Repos:     repos,
		Auth:      services.NewAuthService(repos.Users, repos.Session, logger),
		Budgets:   services.NewBudgetEngine(repos.Budgets, logger),
		Sampler:   services.NewGrowthSampler(repos.Assets, repos.Growth, nil, loc, logger),
		Savings:   savings,
		Autosaver: services.NewGoalsAutosaver(savings, cfg.SavingsDebounce, logger),
		Workspace: workspace.New(repos, workspace.Options{Publisher: res.Publisher, Logger: logger}),
	}, nil
}

// CurrentUserID returns the id of the logged-in user.
func (a *App) CurrentUserID(ctx context.Context) (core.ID, error) {
	st, ok := a.Repos.Session.Current(ctx)
	if !ok {
		return "", core.WithMessage(core.ErrNotFound, "not logged in, run the login command first")
	}
	return st.UserID, nil
}

// Close flushes pending goal edits and releases the backend.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.Autosaver.Close(ctx), a.Backend.Cleanup())
}
