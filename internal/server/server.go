package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/ideabox/internal/access"
	"github.com/smallbiznis/ideabox/internal/audit"
	auditdomain "github.com/smallbiznis/ideabox/internal/audit/domain"
	"github.com/smallbiznis/ideabox/internal/bulkops"
	bulkdomain "github.com/smallbiznis/ideabox/internal/bulkops/domain"
	"github.com/smallbiznis/ideabox/internal/config"
	"github.com/smallbiznis/ideabox/internal/evaluation"
	evaluationdomain "github.com/smallbiznis/ideabox/internal/evaluation/domain"
	"github.com/smallbiznis/ideabox/internal/export"
	exportdomain "github.com/smallbiznis/ideabox/internal/export/domain"
	"github.com/smallbiznis/ideabox/internal/idea"
	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
	"github.com/smallbiznis/ideabox/internal/identity"
	"github.com/smallbiznis/ideabox/internal/observability"
	obsmiddleware "github.com/smallbiznis/ideabox/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/ideabox/internal/observability/metrics"
	obstracing "github.com/smallbiznis/ideabox/internal/observability/tracing"
	"github.com/smallbiznis/ideabox/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	access.Module,
	identity.Module,
	idea.Module,
	evaluation.Module,
	audit.Module,
	bulkops.Module,
	export.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	if httpMetrics != nil {
		r.Use(httpMetrics.GinMiddleware())
	}
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	verifier      identity.Verifier
	resolver      access.Resolver
	ideaSvc       ideadomain.Service
	evaluationSvc evaluationdomain.Service
	bulkSvc       bulkdomain.Service
	exportSvc     exportdomain.Service
	auditSvc      auditdomain.Service
	obsMetrics    *obsmetrics.Metrics
	httpMetrics   *obsmetrics.HTTPMetrics
	limiter       *ratelimit.BulkLimiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Verifier      identity.Verifier
	Resolver      access.Resolver
	IdeaSvc       ideadomain.Service
	EvaluationSvc evaluationdomain.Service
	BulkSvc       bulkdomain.Service
	ExportSvc     exportdomain.Service
	AuditSvc      auditdomain.Service
	ObsMetrics    *obsmetrics.Metrics     `optional:"true"`
	HTTPMetrics   *obsmetrics.HTTPMetrics `optional:"true"`
	Limiter       *ratelimit.BulkLimiter  `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		verifier:      p.Verifier,
		resolver:      p.Resolver,
		ideaSvc:       p.IdeaSvc,
		evaluationSvc: p.EvaluationSvc,
		bulkSvc:       p.BulkSvc,
		exportSvc:     p.ExportSvc,
		auditSvc:      p.AuditSvc,
		obsMetrics:    p.ObsMetrics,
		httpMetrics:   p.HTTPMetrics,
		limiter:       p.Limiter,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.RequireAuth())

	reviewers := s.RequireRole(access.RoleEvaluator, access.RoleAdmin)
	throttled := s.BulkRateLimit()

	api.GET("/me", s.AnyRole(), s.Me)

	// -------- Evaluation --------
	api.GET("/evaluations/queue", reviewers, s.ListEvaluationQueue)
	api.POST("/ideas/:id/evaluations", reviewers, s.SubmitEvaluation)
	api.GET("/ideas/:id/evaluations", s.AnyRole(), s.ListEvaluationHistory)

	// -------- Bulk --------
	api.POST("/ideas/bulk/status", reviewers, throttled, s.BulkUpdateStatus)
	api.POST("/ideas/bulk/assign", s.RequireRole(access.RoleAdmin), throttled, s.BulkAssign)

	// -------- Export --------
	api.POST("/ideas/export", reviewers, throttled, s.ExportIdeasByIDs)
	api.GET("/ideas/export", reviewers, throttled, s.ExportIdeasByFilter)

	// -------- Ideas --------
	api.POST("/ideas", s.AnyRole(), s.CreateIdea)
	api.GET("/ideas", s.AnyRole(), s.ListIdeas)
	api.GET("/ideas/:id", s.AnyRole(), s.GetIdeaByID)
	api.PATCH("/ideas/:id", s.AnyRole(), s.UpdateIdea)
	api.DELETE("/ideas/:id", s.AnyRole(), s.DeleteIdea)

	// -------- Audit --------
	api.GET("/audit-logs", s.RequireRole(access.RoleAdmin), s.ListAuditLogs)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
