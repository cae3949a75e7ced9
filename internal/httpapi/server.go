// Package httpapi exposes the running engine's /metrics and /healthz over
// HTTP, plus the WebSocket dashboard upgrade endpoint, the way the
// marketfeeds and api packages expose theirs: a minimal gin.Engine with
// zap request logging and a wrapped promhttp handler.
package httpapi

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/orbitcex/itchbook/internal/observers"
)

// Server is the engine's operating surface: liveness, metrics, and the
// dashboard WebSocket upgrade.
type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

// New builds the router. reg is the Prometheus registry MetricsObserver
// was constructed with; hub may be nil if the WebSocket observer was not
// wired (it is optional per SPEC_FULL.md).
func New(logger *zap.Logger, reg *prometheus.Registry, hub *observers.WebSocketHub) *Server {
	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	if hub != nil {
		router.GET("/ws", gin.WrapH(hub))
	}

	return &Server{router: router, logger: logger}
}

// Run starts the HTTP server on addr, blocking until it returns an error.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Router exposes the gin.Engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
