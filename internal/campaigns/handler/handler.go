package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"advisormatch_backend/internal/campaigns/service"
	"advisormatch_backend/internal/campaigns/transport"
	"advisormatch_backend/platform/apperr"
	"advisormatch_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// CreateCampaign handles POST /campaigns. Advisors create for themselves;
// admins may set advisorId explicitly.
func (h *Handler) CreateCampaign(c *gin.Context) {
	actor, ok := requestActor(c)
	if !ok {
		return
	}

	var req transport.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := service.CreateInput{Name: req.Name, Source: req.Source}
	switch {
	case req.AdvisorID != nil && *req.AdvisorID != "":
		advisorID, err := uuid.Parse(*req.AdvisorID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid advisorId", nil)
			return
		}
		input.AdvisorID = advisorID
	case actor.AdvisorID != nil:
		input.AdvisorID = *actor.AdvisorID
	default:
		httpkit.HandleError(c, apperr.Validation("advisorId is required"))
		return
	}

	campaign, err := h.svc.Create(c.Request.Context(), input, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToCampaignResponse(campaign, 0))
}

// ListCampaigns handles GET /campaigns with per-campaign lead counts.
func (h *Handler) ListCampaigns(c *gin.Context) {
	actor, ok := requestActor(c)
	if !ok {
		return
	}

	campaigns, err := h.svc.List(c.Request.Context(), actor)
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.CampaignResponse, 0, len(campaigns))
	for _, item := range campaigns {
		responses = append(responses, transport.ToCampaignResponse(item.Campaign, item.LeadCount))
	}
	httpkit.OK(c, responses)
}

// GetCampaign handles GET /campaigns/:id.
func (h *Handler) GetCampaign(c *gin.Context) {
	id, actor, ok := requestScope(c)
	if !ok {
		return
	}

	campaign, err := h.svc.GetByID(c.Request.Context(), id, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCampaignResponse(campaign, 0))
}

// UpdateCampaign handles PATCH /campaigns/:id.
func (h *Handler) UpdateCampaign(c *gin.Context) {
	id, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req transport.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	campaign, err := h.svc.Update(c.Request.Context(), id, service.UpdateInput{
		Name:     req.Name,
		Source:   req.Source,
		IsActive: req.IsActive,
	}, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCampaignResponse(campaign, 0))
}

// DeleteCampaign handles DELETE /campaigns/:id.
func (h *Handler) DeleteCampaign(c *gin.Context) {
	id, actor, ok := requestScope(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, actor); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func requestActor(c *gin.Context) (service.Actor, bool) {
	ident := httpkit.GetIdentity(c)
	if !ident.IsAuthenticated() {
		httpkit.HandleError(c, apperr.Unauthorized("authentication required"))
		return service.Actor{}, false
	}
	actor := service.Actor{IsAdmin: ident.HasRole("admin")}
	if advisorID, ok := ident.AdvisorID(); ok {
		actor.AdvisorID = &advisorID
	}
	return actor, true
}

func requestScope(c *gin.Context) (uuid.UUID, service.Actor, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid campaign id"))
		return uuid.Nil, service.Actor{}, false
	}
	actor, ok := requestActor(c)
	if !ok {
		return uuid.Nil, service.Actor{}, false
	}
	return id, actor, true
}
