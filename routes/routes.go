package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	v1 "github.com/taskboard-api/api/v1"
	"github.com/taskboard-api/config"
	"github.com/taskboard-api/middleware"
	"github.com/taskboard-api/services"
	"gorm.io/gorm"
)

// SetupRouter builds the gin engine with middleware, metrics, media files
// and every API route
func SetupRouter(cfg *config.Config, db *gorm.DB, reg *prometheus.Registry) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())
	router.Use(middleware.NewMetrics(reg).Handler())
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// Public routes
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "taskboard-api",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	router.Static(strings.TrimSuffix(services.MediaURLPrefix, "/"), cfg.MediaRoot)

	// API routes
	api := router.Group("/api")
	v1.RegisterRoutes(api, db, services.New(db, cfg))

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	// credentials are only allowed towards an explicit origin list
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	} else {
		c.AllowAllOrigins = true
	}
	return c
}
