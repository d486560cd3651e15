package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/tahfidz-api/internal/handler"
	"github.com/noah-isme/tahfidz-api/internal/middleware"
	"github.com/noah-isme/tahfidz-api/internal/service"
	"github.com/noah-isme/tahfidz-api/pkg/config"
	"github.com/noah-isme/tahfidz-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tahfidz-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tahfidz-api/pkg/middleware/requestid"
)

type routerDeps struct {
	cfg         *config.Config
	logger      *zap.Logger
	metrics     *service.MetricsService
	tokens      middleware.TokenValidator
	authz       middleware.CapabilityChecker
	tickets     *handler.TicketHandler
	mushaf      *handler.MushafHandler
	assignments *handler.AssignmentHandler
	probes      *handler.MetricsHandler
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.logger))
	r.Use(corsmiddleware.New(d.cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(d.metrics))

	r.GET("/health", d.probes.Health)
	r.GET("/ready", d.probes.Ready)
	r.GET("/metrics", d.probes.Prometheus)

	if d.cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(d.cfg.APIPrefix, middleware.JWT(d.tokens))
	can := func(capability service.Capability) gin.HandlerFunc {
		return middleware.RequireCapability(d.authz, capability)
	}

	tickets := api.Group("/tickets")
	tickets.POST("", can(service.CapabilityTicketsSubmit), d.tickets.Submit)
	tickets.GET("", can(service.CapabilityTicketsRead), d.tickets.List)
	tickets.GET("/:id", can(service.CapabilityTicketsRead), d.tickets.Get)
	tickets.POST("/:id/approve", can(service.CapabilityTicketsApprove), d.tickets.Approve)
	tickets.POST("/:id/reject", can(service.CapabilityTicketsReject), d.tickets.Reject)

	students := api.Group("/students/:id")
	students.GET("/mushaf", can(service.CapabilityMushafRead), d.mushaf.Get)
	students.GET("/mushaf/insights", can(service.CapabilityMushafRead), d.mushaf.Insights)
	students.GET("/mushaf/export", can(service.CapabilityMushafRead), d.mushaf.Export)
	students.POST("/mushaf/entries/:entryId/resolve", can(service.CapabilityMushafResolve), d.mushaf.Resolve)
	students.GET("/assignments", can(service.CapabilityAssignmentsRead), d.assignments.ListByStudent)

	api.GET("/assignments/:id", can(service.CapabilityAssignmentsRead), d.assignments.Get)

	return r
}
