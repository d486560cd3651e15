package bootstrap

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/tahfidz-api/internal/models"
	"github.com/noah-isme/tahfidz-api/internal/repository"
	"github.com/noah-isme/tahfidz-api/internal/service"
	"github.com/noah-isme/tahfidz-api/pkg/cache"
	"github.com/noah-isme/tahfidz-api/pkg/config"
	"github.com/noah-isme/tahfidz-api/pkg/database"
)

// SystemClaims identifies maintenance callers that act outside an HTTP request.
var SystemClaims = &models.JWTClaims{UserID: "system", Role: models.RoleSuperAdmin, FullName: "System"}

// Container wires repositories and services from config. It is shared by the
// API server and the admin CLI.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	Cache         *repository.CacheRepository
	Metrics       *service.MetricsService
	Tokens        *service.TokenService
	Authorization *service.AuthorizationService
	Notifications *service.NotificationService
	Tickets       *service.TicketService
	Mushaf        *service.MushafService
	Assignments   *service.AssignmentService
	Archiver      *service.AssignmentArchiver
}

// New connects to Postgres and, when a feature needs it, Redis. An unreachable
// Redis degrades to no cache and no pub/sub instead of failing startup.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Mushaf.CacheEnabled || cfg.Notifications.Enabled {
		rdb, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, continuing without cache and pub/sub", zap.Error(err))
			rdb = nil
		}
	}

	c := &Container{Config: cfg, Logger: logger, DB: db, Redis: rdb}
	c.wire()
	return c, nil
}

func (c *Container) wire() {
	cfg := c.Config

	tickets := repository.NewTicketRepository(c.DB)
	mushafs := repository.NewMushafRepository(c.DB)
	assignments := repository.NewAssignmentRepository(c.DB)
	students := repository.NewStudentRepository(c.DB)
	teachers := repository.NewTeacherRepository(c.DB)
	notifications := repository.NewNotificationRepository(c.DB)
	tx := repository.NewTransactor(c.DB)
	c.Cache = repository.NewCacheRepository(c.Redis, c.Logger.Named("cache"))

	c.Metrics = service.NewMetricsService()
	c.Tokens = service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiration,
	})
	c.Authorization = service.NewAuthorizationService(students)

	cacheSvc := service.NewCacheService(c.Cache, c.Metrics, cfg.Mushaf.CacheTTL, c.Logger.Named("cache"), cfg.Mushaf.CacheEnabled && c.Redis != nil)
	ledger := service.NewMushafLedger(service.NewMistakeMatcher(cfg.Mushaf.PositionTolerance))
	stats := service.NewMushafStatistician(cfg.Academy.Timezone, cfg.Mushaf.RepeatOffenderThreshold)

	c.Notifications = service.NewNotificationService(notifications, c.Cache, c.Metrics, service.NotificationOptions{
		Enabled:       cfg.Notifications.Enabled,
		Workers:       cfg.Notifications.Workers,
		Retries:       cfg.Notifications.Retries,
		RetryDelay:    cfg.Notifications.RetryDelay,
		ChannelPrefix: cfg.Notifications.ChannelPrefix,
	}, c.Logger.Named("notifications"))

	c.Tickets = service.NewTicketService(service.TicketDependencies{
		Tickets:       tickets,
		Mushafs:       mushafs,
		Assignments:   assignments,
		Students:      students,
		Teachers:      teachers,
		Tx:            tx,
		Authorization: c.Authorization,
		Ledger:        ledger,
		Synthesizer:   service.NewAssignmentSynthesizer(),
		Notifier:      c.Notifications,
		Cache:         cacheSvc,
		Metrics:       c.Metrics,
		Validator:     validator.New(),
		Logger:        c.Logger.Named("tickets"),
	})
	c.Mushaf = service.NewMushafService(mushafs, students, tx, c.Authorization, ledger, stats, cacheSvc, c.Logger.Named("mushaf"))
	c.Assignments = service.NewAssignmentService(assignments, c.Authorization, c.Metrics, c.Logger.Named("assignments"))
	c.Archiver = service.NewAssignmentArchiver(c.Assignments, cfg.Assignments.ArchiveSchedule, cfg.Assignments.ArchiveAfter, cfg.Academy.Timezone, c.Logger.Named("archiver"))
}

// Close stops background workers and releases connections.
func (c *Container) Close() {
	if c.Notifications != nil {
		c.Notifications.Stop()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("failed to close postgres", zap.Error(err))
		}
	}
}
