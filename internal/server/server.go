// Package server exposes the engine over HTTP.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	auditdomain "github.com/billforgelabs/billforge/internal/audit/domain"
	"github.com/billforgelabs/billforge/internal/config"
	tierdomain "github.com/billforgelabs/billforge/internal/packagetier/domain"
	reconcilerdomain "github.com/billforgelabs/billforge/internal/reconciler/domain"
	ruledomain "github.com/billforgelabs/billforge/internal/revenuerule/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(Start),
)

type Params struct {
	fx.In

	Config         config.Config
	Log            *zap.Logger
	RuleSvc        ruledomain.Service
	TierSvc        tierdomain.Service
	ReconcilerSvc  reconcilerdomain.Service
	AuditExportSvc auditdomain.ExportService
	Registry       *prometheus.Registry
}

type Server struct {
	cfg            config.Config
	log            *zap.Logger
	ruleSvc        ruledomain.Service
	tierSvc        tierdomain.Service
	reconcilerSvc  reconcilerdomain.Service
	auditExportSvc auditdomain.ExportService
	registry       *prometheus.Registry
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:            p.Config,
		log:            p.Log.Named("server"),
		ruleSvc:        p.RuleSvc,
		tierSvc:        p.TierSvc,
		reconcilerSvc:  p.ReconcilerSvc,
		auditExportSvc: p.AuditExportSvc,
		registry:       p.Registry,
	}
}

func (s *Server) Router() *gin.Engine {
	if strings.EqualFold(s.cfg.Server.Mode, "release") {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/accounts/:account_id/services/:service_id/revenue_rule", s.GetRevenueRule)
		v1.PUT("/accounts/:account_id/services/:service_id/revenue_rule", s.SaveRevenueRule)
		v1.DELETE("/accounts/:account_id/services/:service_id/revenue_rule", s.DeleteRevenueRule)
		v1.POST("/revenue_rules/validate", s.ValidateRevenueRule)

		v1.GET("/package_tiers", s.ListPackageTiers)
		v1.POST("/package_tiers", s.CreatePackageTier)
		v1.GET("/package_tiers/:id", s.GetPackageTierByID)
		v1.PATCH("/package_tiers/:id", s.UpdatePackageTier)
		v1.DELETE("/package_tiers/:id", s.DeletePackageTier)
		v1.POST("/package_tiers/import", s.ImportPackageTiers)
		v1.POST("/package_tiers/sync", s.SyncPackageTiers)

		v1.GET("/audit_logs/export", s.ExportAuditLogs)
	}
	return r
}

func Start(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			s.log.Info("http server listening", zap.String("addr", s.cfg.Server.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(started)),
		)
	}
}
