// Package http provides HTTP server infrastructure including the Module interface
// that all domain modules must implement for route registration.
package http

import (
	"vitrine_backend/internal/events"

	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
// Each domain module implements this interface to encapsulate its own
// route setup, keeping the main router decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router group.
	// The RouterContext provides access to shared middleware and configuration.
	RegisterRoutes(ctx *RouterContext)
}

// EventSubscriber is implemented by modules that react to domain events.
type EventSubscriber interface {
	RegisterHandlers(bus events.Bus)
}

// RouterContext provides shared dependencies for module route registration.
// Public and admin routes share the same paths, so access control is handed
// out as middleware rather than as separate groups.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// V1 is the /api/v1 route group.
	V1 *gin.RouterGroup
	// AuthOptional attaches the session when a valid token is present and never rejects.
	AuthOptional gin.HandlerFunc
	// AuthRequired rejects requests without a valid access token.
	AuthRequired gin.HandlerFunc
	// AdminRequired rejects requests that are not signed in as an admin.
	AdminRequired gin.HandlerFunc
	// PublicRateLimit throttles anonymous form submissions per client IP.
	PublicRateLimit gin.HandlerFunc
}
