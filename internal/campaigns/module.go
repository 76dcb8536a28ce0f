// Package campaigns owns advisor-owned campaign records used for lead
// attribution.
package campaigns

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"advisormatch_backend/internal/campaigns/handler"
	"advisormatch_backend/internal/campaigns/repository"
	"advisormatch_backend/internal/campaigns/service"
	"advisormatch_backend/internal/http"
)

// Module wires campaign persistence, service, and handlers.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, leads service.LeadCounter) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Service exposes the campaign service; the intake flow uses it to
// validate campaign attribution.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "campaigns"
}

func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	campaigns := ctx.Protected.Group("/campaigns")
	{
		campaigns.POST("", m.handler.CreateCampaign)
		campaigns.GET("", m.handler.ListCampaigns)
		campaigns.GET("/:id", m.handler.GetCampaign)
		campaigns.PATCH("/:id", m.handler.UpdateCampaign)
		campaigns.DELETE("/:id", m.handler.DeleteCampaign)
	}
}
