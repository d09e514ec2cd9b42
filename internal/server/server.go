package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tribemart/tribemart-orders-service/internal/config"
	"github.com/tribemart/tribemart-orders-service/internal/handlers"
	"github.com/tribemart/tribemart-orders-service/internal/middleware"
)

// Server wires the gin router, middleware and routes.
type Server struct {
	config *config.Config
	router *gin.Engine
	http   *http.Server
}

// New creates the HTTP server with all routes registered.
func New(h *handlers.Handlers, auth *middleware.Auth, cfg *config.Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())

	s := &Server{
		config: cfg,
		router: router,
		http: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	s.setupRoutes(h, auth)
	return s
}

func (s *Server) setupRoutes(h *handlers.Handlers, auth *middleware.Auth) {
	s.router.GET("/health", h.Health)
	s.router.GET("/ready", h.Ready)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	v1.Use(auth.Require())
	{
		v1.POST("/orders", h.CreateOrder)
		v1.GET("/orders", h.ListOrders)
		v1.GET("/orders/:id", h.GetOrder)
		v1.PATCH("/orders/:id/status", auth.RequireAdmin(), h.UpdateOrderStatus)

		v1.POST("/payments/orders", h.CreateGatewayOrder)
		v1.POST("/payments/verify", h.VerifyPayment)
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
