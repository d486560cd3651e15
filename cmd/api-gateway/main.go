package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/noah-isme/tahfidz-api/api/swagger"
	"github.com/noah-isme/tahfidz-api/internal/bootstrap"
	"github.com/noah-isme/tahfidz-api/internal/handler"
	"github.com/noah-isme/tahfidz-api/pkg/config"
	"github.com/noah-isme/tahfidz-api/pkg/logger"
)

// @title Tahfidz Academy API
// @version 1.0.0
// @description Recitation review pipeline: tickets, personal mushaf and assignments.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to initialise dependencies", zap.Error(err))
	}
	defer app.Close()

	app.Notifications.Start(ctx)

	router := newRouter(routerDeps{
		cfg:         cfg,
		logger:      logr,
		metrics:     app.Metrics,
		tokens:      app.Tokens,
		authz:       app.Authorization,
		tickets:     handler.NewTicketHandler(app.Tickets),
		mushaf:      handler.NewMushafHandler(app.Mushaf, cfg.Academy.Timezone),
		assignments: handler.NewAssignmentHandler(app.Assignments),
		probes: handler.NewMetricsHandler(app.Metrics, map[string]handler.Pinger{
			"postgres": app.DB,
			"redis":    handler.PingFunc(app.Cache.Ping),
		}),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logr.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Assignments.ArchiveEnabled {
		g.Go(func() error {
			return app.Archiver.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logr.Error("server exited with error", zap.Error(err))
	}
}
