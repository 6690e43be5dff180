// Package auth provides dashboard sign-in and user administration.
package auth

import (
	"context"

	"vitrine_backend/internal/auth/handler"
	"vitrine_backend/internal/auth/password"
	"vitrine_backend/internal/auth/repository"
	"vitrine_backend/internal/auth/service"
	apphttp "vitrine_backend/internal/http"
	"vitrine_backend/platform/config"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the auth module and registers the password policy on val.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := val.RegisterRule("strongpassword", password.Strong, password.Policy); err != nil {
		return nil, err
	}
	svc := service.New(repository.New(pool), cfg, val, log)
	return &Module{handler: handler.New(svc), service: svc}, nil
}

func (m *Module) Name() string {
	return "auth"
}

// Bootstrap creates the first admin account when configured and no user exists yet.
func (m *Module) Bootstrap(ctx context.Context, cfg config.BootstrapConfig) error {
	return m.service.Bootstrap(ctx, cfg)
}

// RegisterRoutes mounts /auth and /users.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAuthRoutes(ctx.V1.Group("/auth"), ctx.AuthRequired, ctx.PublicRateLimit)
	m.handler.RegisterUserRoutes(ctx.V1.Group("/users"), ctx.AdminRequired)
}

var _ apphttp.Module = (*Module)(nil)
