package transport

import (
	"net/http"

	"github.com/ds124wfegd/imagecomposer/internal/pkg/metrics"
	"github.com/ds124wfegd/imagecomposer/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

// InitRoutes builds the router. Pass a nil m to leave metrics out.
func InitRoutes(imgHandler *ImageHandler, m *metrics.Metrics, metricsPath string) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	if m != nil {
		router.Use(middleware.Metrics(m))
	}

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, If-None-Match")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/", imgHandler.RenderImage)
	router.GET("/discosolaris", imgHandler.RenderPreset)

	if m != nil {
		router.GET(metricsPath, gin.WrapH(m.Handler()))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "image-composer-service",
		})
	})
	return router
}
