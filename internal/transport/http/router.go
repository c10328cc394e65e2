package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"interview-assessment-service/internal/auth"
	"interview-assessment-service/internal/metrics"
)

// RouterConfig tunes the gin engine.
type RouterConfig struct {
	Mode        string
	CORSOrigins []string
	// Health checks run on /healthz; any error reports 503.
	Health []func(context.Context) error
}

// NewRouter builds the engine serving /api/v1, /healthz and /metrics.
func NewRouter(cfg RouterConfig, h *Handler, resolver auth.Resolver, collector *metrics.Collector, log *zap.Logger) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.New()
	r.Use(requestLogger(log.Named("http")))
	r.Use(gin.Recovery())
	if collector != nil {
		r.Use(collector.Middleware())
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: len(cfg.CORSOrigins) > 0,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		for _, check := range cfg.Health {
			if err := check(c.Request.Context()); err != nil {
				c.String(http.StatusServiceUnavailable, "unhealthy: %v", err)
				return
			}
		}
		c.String(http.StatusOK, "ok")
	})
	if collector != nil {
		r.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	api := r.Group("/api/v1")
	api.Use(auth.Middleware(resolver, log))
	h.Register(api)
	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("gin_request",
			zap.String("client_ip", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status_code", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("error_message", c.Errors.ByType(gin.ErrorTypePrivate).String()))
	}
}
