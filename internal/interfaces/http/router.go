// Package http wires the gin engine, middleware, and route groups.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paydesk/internal/infrastructure/config"
	"paydesk/internal/interfaces/http/handlers"
	"paydesk/internal/interfaces/http/middleware"
	"paydesk/internal/interfaces/http/routes"
	"paydesk/internal/shared/logger"
)

// Router holds the gin engine and the handlers it serves.
type Router struct {
	engine                  *gin.Engine
	paymentMethodHandler    *handlers.PaymentMethodHandler
	contractCallbackHandler *handlers.ContractCallbackHandler
	authMiddleware          *middleware.AuthMiddleware
	config                  *config.Config
	logger                  logger.Interface
}

// NewRouter creates a new HTTP router.
func NewRouter(
	paymentMethodHandler *handlers.PaymentMethodHandler,
	contractCallbackHandler *handlers.ContractCallbackHandler,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
	log logger.Interface,
) *Router {
	return &Router{
		engine:                  gin.New(),
		paymentMethodHandler:    paymentMethodHandler,
		contractCallbackHandler: contractCallbackHandler,
		authMiddleware:          authMiddleware,
		config:                  cfg,
		logger:                  log,
	}
}

// SetupRoutes registers middleware and all route groups.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.config.Server.AllowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupBillingRoutes(r.engine, &routes.BillingRouteConfig{
		PaymentMethodHandler:    r.paymentMethodHandler,
		ContractCallbackHandler: r.contractCallbackHandler,
		AuthMiddleware:          r.authMiddleware,
	})
}

// GetEngine returns the gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
