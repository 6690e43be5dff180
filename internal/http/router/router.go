// Package router builds the gin engine from the application's modules.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "vitrine_backend/internal/http"
	"vitrine_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// New creates the engine, mounts shared middleware and lets every module register its routes.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(httpkit.CORS(app.Config))

	engine.GET("/api/health", func(c *gin.Context) {
		if app.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := app.Health.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := httpkit.NewPublicRateLimiter(app.Config, app.Logger)
	rc := &apphttp.RouterContext{
		Engine:          engine,
		V1:              engine.Group("/api/v1"),
		AuthOptional:    httpkit.AuthOptional(app.Config),
		AuthRequired:    httpkit.AuthRequired(app.Config),
		AdminRequired:   httpkit.AdminRequired(app.Config),
		PublicRateLimit: limiter.RateLimit(),
	}

	for _, m := range app.Modules {
		m.RegisterRoutes(rc)
		if sub, ok := m.(apphttp.EventSubscriber); ok && app.EventBus != nil {
			sub.RegisterHandlers(app.EventBus)
		}
		app.Logger.Debug("module registered", "module", m.Name())
	}

	return engine
}
