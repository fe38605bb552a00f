package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nexusprep/assessd/internal/config"
	"github.com/nexusprep/assessd/internal/handler"
	"github.com/nexusprep/assessd/internal/response"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Session *handler.SessionHandler
	Catalog *handler.CatalogHandler
	WS      *handler.WSHandler
}

// Setup configures the Gin engine: middleware, CORS, health check and the
// versioned API routes.
func Setup(cfg *config.Config, h Handlers) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(response.RequestIDMiddleware())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", h.Session.Create)
			sessions.GET("", h.Session.List)
			sessions.GET("/:id", h.Session.Status)
			sessions.GET("/:id/question", h.Session.CurrentQuestion)
			sessions.POST("/:id/answers", h.Session.SubmitAnswer)
			sessions.POST("/:id/pause", h.Session.Pause)
			sessions.POST("/:id/resume", h.Session.Resume)
			sessions.POST("/:id/submit", h.Session.Submit)
		}

		v1.GET("/catalog/stats", h.Catalog.Stats)
		v1.POST("/configurations/preview", h.Catalog.PreviewConfiguration)
	}

	ws := r.Group("/ws/v1")
	{
		ws.GET("/sessions/:id/events", h.WS.Events)
	}

	return r
}
