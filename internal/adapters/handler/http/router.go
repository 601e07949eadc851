package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-report/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-report/internal/core/services"
)

type RouterDependencies struct {
	ReportHandler *ReportHandler
	TokenService  *services.TokenService
	Redis         *redis.Client
	Metrics       http.Handler
	RateLimit     int
	Log           logrus.FieldLogger
	StartTime     time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if deps.Log != nil {
		router.Use(middleware.RequestLogger(deps.Log))
	}

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Encoding, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		redisStatus := "disabled"
		statusCode := http.StatusOK
		if deps.Redis != nil {
			redisStatus = "connected"
			if err := deps.Redis.Ping(c.Request.Context()).Err(); err != nil {
				redisStatus = "unreachable"
				statusCode = http.StatusServiceUnavailable
			}
		}

		c.JSON(statusCode, gin.H{
			"status": "ok",
			"redis":  redisStatus,
			"uptime": time.Since(deps.StartTime).String(),
		})
	})

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	apiV1 := router.Group("/api/v1")

	if deps.Redis != nil && deps.RateLimit > 0 {
		apiV1.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, 1*time.Minute, deps.Log))
	}
	if deps.TokenService != nil {
		apiV1.Use(middleware.AuthMiddleware(deps.TokenService, deps.Log))
	}

	deps.ReportHandler.RegisterRoutes(apiV1)

	return router
}
