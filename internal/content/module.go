// Package content provides the partners, FAQ and customer cases module.
package content

import (
	"vitrine_backend/internal/adapters/storage"
	"vitrine_backend/internal/content/handler"
	"vitrine_backend/internal/content/repository"
	"vitrine_backend/internal/content/service"
	apphttp "vitrine_backend/internal/http"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the site content module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the content module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, storageSvc storage.StorageService, buckets service.Buckets, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), storageSvc, buckets, val, log)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string {
	return "content"
}

// RegisterRoutes mounts /partners, /faq and /customer-cases.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPartnerRoutes(ctx.V1.Group("/partners"), ctx.AdminRequired)
	m.handler.RegisterFAQRoutes(ctx.V1.Group("/faq"), ctx.AuthOptional, ctx.AdminRequired)
	m.handler.RegisterCaseRoutes(ctx.V1.Group("/customer-cases"), ctx.AuthOptional, ctx.AdminRequired)
}

var _ apphttp.Module = (*Module)(nil)
