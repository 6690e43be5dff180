// Package rendezvous provides the rendez-vous booking module.
package rendezvous

import (
	"vitrine_backend/internal/events"
	apphttp "vitrine_backend/internal/http"
	"vitrine_backend/internal/rendezvous/handler"
	"vitrine_backend/internal/rendezvous/repository"
	"vitrine_backend/internal/rendezvous/service"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the rendez-vous bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates the rendez-vous module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, eventBus events.Bus, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), val, eventBus, log)
	return &Module{handler: handler.New(svc), Service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "rendezvous"
}

// RegisterRoutes mounts rendez-vous routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/rendezvous"), ctx.AdminRequired, ctx.PublicRateLimit)
}

var _ apphttp.Module = (*Module)(nil)
