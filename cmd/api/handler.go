package api

import (
	authUsecase "postroom-backend/internal/auth/usecase"
	forwardingUsecase "postroom-backend/internal/forwarding/usecase"
	"postroom-backend/pkg/config"
	"postroom-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase       authUsecase.AuthUsecase
	forwardingUsecase forwardingUsecase.ForwardingUsecase
	config            *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, forwardingUc forwardingUsecase.ForwardingUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:       authUc,
		forwardingUsecase: forwardingUc,
		config:            cfg,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	listLimiter := ratelimit.New(h.config.ListRateInterval, h.config.ListRateBurst)
	SetupRoutes(r, h.authUsecase, h.forwardingUsecase, listLimiter)

	return r.Run(addr)
}
