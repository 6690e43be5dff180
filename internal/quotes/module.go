// Package quotes provides the quote request module: the configurator preview,
// public submissions and the admin editor.
package quotes

import (
	"vitrine_backend/internal/events"
	apphttp "vitrine_backend/internal/http"
	"vitrine_backend/internal/quotes/handler"
	"vitrine_backend/internal/quotes/repository"
	"vitrine_backend/internal/quotes/service"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quotes domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new quotes module with all dependencies wired
func NewModule(pool *pgxpool.Pool, catalog service.CatalogReader, val *validator.Validator, eventBus events.Bus, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), catalog, val, eventBus, log)
	return &Module{handler: handler.New(svc), service: svc}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/quotes"), ctx.AdminRequired, ctx.PublicRateLimit)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
