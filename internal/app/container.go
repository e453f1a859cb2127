// Package app assembles repositories and services from configuration. Both the HTTP
// server and the operator CLI build on it.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/civicpulse/complaint-service/internal/config"
	"github.com/civicpulse/complaint-service/internal/events"
	"github.com/civicpulse/complaint-service/internal/observability"
	"github.com/civicpulse/complaint-service/internal/persistence"
	"github.com/civicpulse/complaint-service/internal/repository"
	"github.com/civicpulse/complaint-service/internal/repository/memory"
	"github.com/civicpulse/complaint-service/internal/service"
	"github.com/civicpulse/complaint-service/internal/worker"
)

// Container holds the wired dependency graph.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Postgres *persistence.Postgres
	Redis    *persistence.Redis

	Users      repository.UserRepository
	Complaints repository.ComplaintRepository
	History    repository.ComplaintHistoryRepository

	Dispatcher   events.Dispatcher
	Auth         *service.AuthService
	Lifecycle    *service.LifecycleService
	Query        *service.QueryService
	UserAdmin    *service.UserService
	Notification *service.NotificationService
}

// Options tweak container construction.
type Options struct {
	// SkipMigrations disables automatic migrations even when configured.
	SkipMigrations bool
}

// New connects backends and wires services. Without a Postgres DSN the in-memory
// stores are used; without a Redis address submissions are not rate limited.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*Container, error) {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if pg.Enabled() && cfg.Postgres.RunMigrations && !opts.SkipMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			pg.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	rdb := persistence.NewRedis(cfg.Redis, logger)

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Metrics:    observability.NewMetrics(cfg.Metrics.Namespace),
		Postgres:   pg,
		Redis:      rdb,
		Dispatcher: events.NewInMemoryDispatcher(),
	}

	if pg.Enabled() {
		pool := pg.PoolHandle()
		c.Users = repository.NewUserRepository(pool)
		c.Complaints = repository.NewComplaintRepository(pool)
		c.History = repository.NewComplaintHistoryRepository(pool)
	} else {
		c.Users = memory.NewUserStore()
		c.Complaints = memory.NewComplaintStore()
		c.History = memory.NewHistoryStore()
	}

	var limiter service.SubmissionLimiter
	if rdb.Enabled() {
		limiter = persistence.NewRedisSubmissionLimiter(rdb.Client, cfg.Complaints.SubmitLimit, cfg.Complaints.SubmitWindow())
	}

	c.Auth = service.NewAuthService(cfg.Auth, c.Users)
	c.Lifecycle = service.NewLifecycleService(service.LifecycleDependencies{
		ComplaintRepo: c.Complaints,
		UserRepo:      c.Users,
		HistoryRepo:   c.History,
		Dispatcher:    c.Dispatcher,
		Limiter:       limiter,
		Logger:        logger,
		MaskForbidden: cfg.Complaints.MaskForbidden,
	})
	c.Query = service.NewQueryService(c.Complaints)
	c.UserAdmin = service.NewUserService(c.Users, c.Complaints)
	c.Notification = service.NewNotificationService(c.Dispatcher, logger, c.Metrics, cfg.Notification)
	worker.StartNotificationWorker(c.Notification)

	return c, nil
}

// Close releases backend connections.
func (c *Container) Close() {
	c.Redis.Close()
	c.Postgres.Close()
}
