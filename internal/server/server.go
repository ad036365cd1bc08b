// Package server exposes the scheduling services over an authenticated JSON
// HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/qashsolutions/myhealthguide/internal/auth"
	"github.com/qashsolutions/myhealthguide/pkg/core/services"
	"github.com/qashsolutions/myhealthguide/pkg/db"
)

// Store is the full persistence surface the API needs. *postgres.DB
// implements it; tests substitute an in-memory double.
type Store interface {
	db.ShiftStore
	db.OfferStore
	db.ElderStore
	db.CaregiverStore
	db.GroupStore
}

// Options carries the server's runtime knobs
type Options struct {
	OfferTTL           time.Duration
	RepeatHorizonDays  int
	DailyCoverageQuota int
}

// Server wires stores, auth and the notifier into the HTTP API
type Server struct {
	store    Store
	notifier services.Notifier
	jwt      *auth.JWTManager
	redis    *redis.Client
	logger   *zap.Logger
	opts     Options
	engine   *gin.Engine

	// now is swappable in tests
	now func() time.Time
}

// NewServer builds the API server and its routes
func NewServer(store Store, notifier services.Notifier, jwtManager *auth.JWTManager, rdb *redis.Client, logger *zap.Logger, opts Options) *Server {
	s := &Server{
		store:    store,
		notifier: notifier,
		jwt:      jwtManager,
		redis:    rdb,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), metricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		respondOK(c, gin.H{"status": "up"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.POST("/auth/login", s.handleLogin)

	authed := api.Group("")
	authed.Use(authMiddleware(s.jwt))

	authed.POST("/auth/register", adminOnly(), s.handleRegister)

	shifts := authed.Group("/shifts")
	shifts.POST("", adminOnly(), s.handleCreateShift)
	shifts.POST("/repeating", adminOnly(), s.handleCreateRepeatingShifts)
	shifts.POST("/cascade", adminOnly(), s.handleCreateCascadeShift)
	shifts.GET("/:id", s.handleGetShift)
	shifts.GET("/:id/offers", s.handleListShiftOffers)
	shifts.PATCH("/:id", adminOnly(), s.handleEditShift)
	shifts.POST("/:id/cancel", adminOnly(), s.handleCancelShift)
	shifts.POST("/:id/confirm", s.handleConfirmShift)

	offers := authed.Group("/offers")
	offers.POST("/:id/accept", s.handleAcceptOffer)
	offers.POST("/:id/decline", s.handleDeclineOffer)

	groups := authed.Group("/groups")
	groups.GET("/:id", s.handleGetGroup)
	groups.GET("/:id/elders", s.handleListElders)
	groups.POST("/:id/elders", adminOnly(), s.handleCreateElder)
	groups.GET("/:id/shifts", s.handleListGroupShifts)
	groups.PUT("/:id/primary-caregiver", adminOnly(), s.handleTransferPrimary)
	if s.redis != nil {
		groups.GET("/:id/coverage", quotaMiddleware(s.redis, s.logger, s.opts.DailyCoverageQuota, s.now), s.handleCoverage)
	} else {
		groups.GET("/:id/coverage", s.handleCoverage)
	}

	return router
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the API until the context is cancelled, then drains in-flight
// requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
