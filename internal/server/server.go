package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/platefull/weekplan/internal/clock"
	"github.com/platefull/weekplan/internal/config"
	"github.com/platefull/weekplan/internal/cutoff"
	"github.com/platefull/weekplan/internal/observability/metrics"
	reconcileservice "github.com/platefull/weekplan/internal/reconcile/service"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	return r
}

func registerGin(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	return NewEngine(log, m)
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	policy     cutoff.Policy
	reconciler *reconcileservice.Reconciler
	clock      clock.Clock
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Policy     cutoff.Policy
	Reconciler *reconcileservice.Reconciler
	Clock      clock.Clock
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		policy:     p.Policy,
		reconciler: p.Reconciler,
		clock:      p.Clock,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")
	v1.GET("/lock-state", s.getLockState)
	v1.GET("/reconciliation", s.getReconciliation)
	v1.POST("/reconciliation/backfill", s.postBackfill)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
