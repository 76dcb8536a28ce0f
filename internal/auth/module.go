// Package auth owns user accounts, credential checks, and access token
// issuance for the API.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"advisormatch_backend/internal/auth/handler"
	"advisormatch_backend/internal/auth/repository"
	"advisormatch_backend/internal/auth/service"
	"advisormatch_backend/internal/http"
	"advisormatch_backend/platform/config"
	"advisormatch_backend/platform/logger"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), cfg, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Service exposes the auth service so the composition root can run the
// admin bootstrap on startup.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "auth"
}

func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	// Login is throttled like intake to slow credential stuffing.
	ctx.V1.POST("/auth/login", ctx.IntakeRateLimiter.RateLimit(), m.handler.Login)
	ctx.Protected.GET("/auth/me", m.handler.GetMe)
	ctx.Admin.POST("/users", m.handler.CreateAdvisorUser)
}
