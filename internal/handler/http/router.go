package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/repository"
	"github.com/abdur1547/roombridge/services/auth-service/internal/handler/http/middleware"
	"github.com/abdur1547/roombridge/services/auth-service/internal/service"
)

// SetupRouter wires the HTTP surface of the auth service.
func SetupRouter(
	otpService *service.OtpService,
	tokenService *service.TokenService,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CorsMiddleware())
	router.Use(middleware.MetricsMiddleware())

	authHandler := NewAuthHandler(otpService, tokenService, logger)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/readiness", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/otp/send", authHandler.SendOtp)
			auth.POST("/otp/verify", authHandler.VerifyOtp)
			auth.POST("/refresh", authHandler.RefreshToken)

			authenticated := auth.Group("")
			authenticated.Use(middleware.AuthMiddleware(tokenService, userRepo, logger))
			{
				authenticated.POST("/signout", authHandler.Signout)
			}
		}
	}

	return router
}
