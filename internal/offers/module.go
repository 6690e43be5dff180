// Package offers provides the service offer catalog module: offers with their
// features, steps, use cases and included options, plus the option catalog.
package offers

import (
	apphttp "vitrine_backend/internal/http"
	"vitrine_backend/internal/offers/handler"
	"vitrine_backend/internal/offers/repository"
	"vitrine_backend/internal/offers/service"
	"vitrine_backend/platform/cache"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the offers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the offers module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, c cache.Cache, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, val, c, log)

	return &Module{handler: handler.New(svc), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "offers"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts offer and option routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterOfferRoutes(ctx.V1.Group("/service-offers"), ctx.AdminRequired)
	m.handler.RegisterOptionRoutes(ctx.V1.Group("/offer-options"), ctx.AdminRequired)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
