// Package leads owns the lead record store, the public intake flow, and
// the lifecycle manager that routes leads to advisors.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"advisormatch_backend/internal/events"
	"advisormatch_backend/internal/http"
	"advisormatch_backend/internal/leads/handler"
	"advisormatch_backend/internal/leads/repository"
	"advisormatch_backend/internal/leads/service"
	"advisormatch_backend/internal/matching"
	"advisormatch_backend/platform/logger"
)

// Module wires the lead store, lifecycle service, and HTTP handlers.
type Module struct {
	handler    *handler.Handler
	repository *repository.Repository
}

func NewModule(
	pool *pgxpool.Pool,
	registry service.AdvisorRegistry,
	matcher *matching.Engine,
	verifier service.Verifier,
	campaigns service.CampaignResolver,
	bus events.Bus,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, registry, matcher, verifier, campaigns, bus, log)
	return &Module{
		handler:    handler.New(svc),
		repository: repo,
	}
}

// Repository exposes the lead store for modules that aggregate over leads
// (campaigns reads per-campaign totals).
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

func (m *Module) Name() string {
	return "leads"
}

func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	// Public consumer intake, throttled harder than the rest of the API.
	ctx.Public.POST("/leads", ctx.IntakeRateLimiter.RateLimit(), m.handler.Intake)

	leads := ctx.Protected.Group("/leads")
	{
		leads.GET("", m.handler.ListLeads)
		leads.GET("/:id", m.handler.GetLead)
		leads.PATCH("/:id", m.handler.UpdateLead)
		leads.PATCH("/:id/status", m.handler.UpdateStatus)
		leads.PATCH("/:id/qualification", m.handler.SetQualification)
		leads.POST("/:id/schedule", m.handler.Schedule)
		leads.POST("/:id/notes", m.handler.AddNote)
		leads.GET("/:id/notes", m.handler.ListNotes)
	}

	ctx.Admin.POST("/leads/:id/assign", m.handler.Assign)
}
