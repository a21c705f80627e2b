// Package routes provides HTTP route configurations.
package routes

import (
	"github.com/gin-gonic/gin"

	"paydesk/internal/interfaces/http/handlers"
	"paydesk/internal/interfaces/http/middleware"
)

// BillingRouteConfig contains dependencies for payment method routes.
type BillingRouteConfig struct {
	PaymentMethodHandler    *handlers.PaymentMethodHandler
	ContractCallbackHandler *handlers.ContractCallbackHandler
	AuthMiddleware          *middleware.AuthMiddleware
}

// SetupBillingRoutes configures the payment method and contract routes.
// Routes: /api/payment-methods/*
// :id is a payment method SID (pm_xxx format)
func SetupBillingRoutes(engine *gin.Engine, cfg *BillingRouteConfig) {
	paymentMethods := engine.Group("/api/payment-methods")

	// The bank redirect arrives without a reliable session, so the
	// callback uses optional auth plus the pending-contract cookie.
	paymentMethods.GET("/contracts/callback",
		cfg.AuthMiddleware.OptionalAuth(),
		cfg.ContractCallbackHandler.Callback,
	)

	authed := paymentMethods.Group("")
	authed.Use(cfg.AuthMiddleware.RequireAuth())
	{
		authed.GET("", cfg.PaymentMethodHandler.List)
		authed.PATCH("/:id/default", cfg.PaymentMethodHandler.SetDefault)

		contracts := authed.Group("/contracts")
		{
			contracts.POST("", cfg.PaymentMethodHandler.CreateContract)
			contracts.POST("/recover", cfg.PaymentMethodHandler.RecoverContract)
			contracts.POST("/:id/verify", cfg.PaymentMethodHandler.VerifyContract)
			contracts.DELETE("/:id", cfg.PaymentMethodHandler.CancelContract)
		}
	}
}
