package api

import (
	"net/http"

	"postroom-backend/internal/auth/delivery"
	authUsecase "postroom-backend/internal/auth/usecase"
	forwardingDelivery "postroom-backend/internal/forwarding/delivery"
	forwardingUsecase "postroom-backend/internal/forwarding/usecase"
	"postroom-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, forwardingUc forwardingUsecase.ForwardingUsecase, listLimiter *ratelimit.Limiter) {
	authHandler := delivery.NewAuthHandler(authUc)
	forwardingHandler := forwardingDelivery.NewForwardingHandler(forwardingUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// Forwarding board routes (protected)
		forwarding := api.Group("/forwarding")
		forwarding.Use(delivery.AuthMiddleware(authUc))
		{
			// The list endpoint is what board clients poll; rate-limit it so
			// an over-eager poller gets 429 instead of hammering the database
			forwarding.GET("", listLimiter.Middleware(), forwardingHandler.ListRequests)
			forwarding.POST("", forwardingHandler.CreateRequest)
			forwarding.GET("/locks", forwardingHandler.ListLocks)
			forwarding.PATCH("/:id/status", forwardingHandler.AdvanceStatus)
			forwarding.DELETE("/:id", forwardingHandler.DeleteRequest)
			forwarding.POST("/:id/lock", forwardingHandler.AcquireLock)
			forwarding.DELETE("/:id/lock", forwardingHandler.ReleaseLock)
			forwarding.POST("/:id/lock/force", forwardingHandler.ForceReleaseLock)
		}
	}
}
