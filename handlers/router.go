package handlers

import (
	"context"
	"net/http"
	"time"

	"securecheck/config"
	"securecheck/middleware"
	"securecheck/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pinger reports record store reachability for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDeps struct {
	Config    *config.Config
	DB        *gorm.DB
	Store     Pinger
	Dashboard *services.Dashboard
	Cache     *services.CacheService
	Auth      *services.AuthService
	Log       *zap.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(d.Log), middleware.SetupCORS(d.Config.CORS))

	router.GET("/health", health(d.Store))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := NewAuthHandler(d.DB, d.Auth, d.Log)
	stopsHandler := NewStopsHandler(d.Dashboard)
	queryHandler := NewQueryHandler(d.Dashboard)
	predictionHandler := NewPredictionHandler(d.Dashboard)
	required := d.Config.Auth.Required

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)

		api.GET("/stops", stopsHandler.List)
		api.GET("/stats", stopsHandler.Stats)
		api.GET("/charts/metrics", stopsHandler.MetricsChart)
		api.GET("/charts/drug-gender", stopsHandler.DrugGenderChart)
		api.GET("/durations", stopsHandler.Durations)

		api.GET("/queries", queryHandler.List)
		api.GET("/queries/:id", queryHandler.Get)
		api.POST("/queries/:id/run", append(middleware.Gate(required, d.Auth, services.RoleAnalyst), queryHandler.Run)...)

		api.POST("/predict", append(middleware.Gate(required, d.Auth), predictionHandler.Predict)...)
	}

	router.GET("/ws/live", LiveWebSocket(d.Cache, d.Auth, d.Log))

	return router
}

func health(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		database := "UP"
		if err := store.Ping(ctx); err != nil {
			database = "DOWN"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "UP",
			"database": database,
			"message":  "SecureCheck API is running",
		})
	}
}
