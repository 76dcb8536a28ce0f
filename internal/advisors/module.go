// Package advisors owns the advisor registry: profile records, targeting
// preferences, branding assets, and matching eligibility.
package advisors

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"advisormatch_backend/internal/advisors/handler"
	"advisormatch_backend/internal/advisors/repository"
	"advisormatch_backend/internal/advisors/service"
	"advisormatch_backend/internal/events"
	"advisormatch_backend/internal/http"
	"advisormatch_backend/internal/storage"
	"advisormatch_backend/platform/logger"
	"advisormatch_backend/platform/validator"
)

// Module wires the advisor registry's repository, service, and handlers.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, store storage.Service, cfg service.Config, val *validator.Validator, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, cfg, val, bus, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Service exposes the advisor service for modules that depend on the
// registry (matching consumes the candidate roster and records
// assignments).
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "advisors"
}

func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	admin := ctx.Admin.Group("/advisors")
	{
		admin.POST("", m.handler.CreateAdvisor)
		admin.GET("", m.handler.ListAdvisors)
		admin.GET("/:id", m.handler.GetAdvisor)
		admin.PATCH("/:id/active", m.handler.SetActive)
		admin.PATCH("/:id/targeting", m.handler.UpdateTargeting)
		admin.PATCH("/:id/branding", m.handler.UpdateBranding)
		admin.POST("/:id/branding/:kind", m.handler.UploadBrandingAsset)
	}

	me := ctx.Protected.Group("/advisors/me")
	{
		me.GET("", m.handler.GetMe)
		me.PATCH("/targeting", m.handler.UpdateMyTargeting)
		me.PATCH("/branding", m.handler.UpdateMyBranding)
		me.POST("/branding/:kind", m.handler.UploadMyBrandingAsset)
	}
}
