package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"advisormatch_backend/internal/leads/domain"
	"advisormatch_backend/internal/leads/service"
	"advisormatch_backend/internal/leads/transport"
	"advisormatch_backend/platform/apperr"
	"advisormatch_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// GetLead handles GET /leads/:id for both admins and owning advisors.
func (h *Handler) GetLead(c *gin.Context) {
	id, actor, ok := requestScope(c)
	if !ok {
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), id, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// ListLeads handles GET /leads. Admins see everything; advisors are scoped
// to their own assignments by the service.
func (h *Handler) ListLeads(c *gin.Context) {
	actor, ok := requestActor(c)
	if !ok {
		return
	}

	input := service.ListInput{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	if raw := c.Query("campaignId"); raw != "" {
		campaignID, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid campaignId filter", nil)
			return
		}
		input.CampaignID = &campaignID
	}
	if raw := c.Query("advisorId"); raw != "" {
		advisorID, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid advisorId filter", nil)
			return
		}
		input.AdvisorID = &advisorID
	}
	if raw := c.Query("isQualified"); raw != "" {
		isQualified, err := strconv.ParseBool(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid isQualified filter", nil)
			return
		}
		input.IsQualified = &isQualified
	}
	if raw := c.Query("unassigned"); raw != "" {
		input.Unassigned, _ = strconv.ParseBool(raw)
	}
	input.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	input.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "25"))

	leads, total, err := h.svc.List(c.Request.Context(), input, actor)
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		responses = append(responses, transport.ToLeadResponse(lead))
	}
	httpkit.OK(c, transport.ListLeadsResponse{
		Leads:  responses,
		Total:  total,
		Offset: input.Offset,
		Limit:  input.Limit,
	})
}

// UpdateLead handles PATCH /leads/:id with a sparse payload.
func (h *Handler) UpdateLead(c *gin.Context) {
	id, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), id, service.UpdateInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		State:           req.State,
		PortfolioBucket: req.PortfolioBucket,
		AgeBucket:       req.AgeBucket,
		Goals:           req.Goals,
		Status:          req.Status,
		IsQualified:     req.IsQualified.Value,
		IsQualifiedSet:  req.IsQualified.Set,
	}, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// UpdateStatus handles PATCH /leads/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	lead, err := h.svc.UpdateStatus(c.Request.Context(), id, domain.Status(req.Status), actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// SetQualification handles PATCH /leads/:id/qualification. An explicit
// null clears the verdict back to "not yet reviewed".
func (h *Handler) SetQualification(c *gin.Context) {
	id, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req transport.SetQualificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	verdict := domain.QualificationFromPtr(req.IsQualified.Value)
	lead, err := h.svc.SetQualification(c.Request.Context(), id, verdict, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// Assign handles POST /admin/leads/:id/assign for manual routing.
func (h *Handler) Assign(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	advisorID, err := uuid.Parse(req.AdvisorID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid advisorId", nil)
		return
	}

	lead, err := h.svc.Assign(c.Request.Context(), id, advisorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// Schedule handles POST /leads/:id/schedule.
func (h *Handler) Schedule(c *gin.Context) {
	id, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req transport.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	lead, err := h.svc.Schedule(c.Request.Context(), id, req.ScheduledAt, req.Note, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// AddNote handles POST /leads/:id/notes.
func (h *Handler) AddNote(c *gin.Context) {
	id, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req transport.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	note, err := h.svc.AddNote(c.Request.Context(), id, req.Body, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToNoteResponse(note))
}

// ListNotes handles GET /leads/:id/notes.
func (h *Handler) ListNotes(c *gin.Context) {
	id, actor, ok := requestScope(c)
	if !ok {
		return
	}

	notes, err := h.svc.ListNotes(c.Request.Context(), id, actor)
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, transport.ToNoteResponse(note))
	}
	httpkit.OK(c, responses)
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid lead id"))
		return uuid.Nil, false
	}
	return id, true
}

func requestActor(c *gin.Context) (service.Actor, bool) {
	ident := httpkit.GetIdentity(c)
	if !ident.IsAuthenticated() {
		httpkit.HandleError(c, apperr.Unauthorized("authentication required"))
		return service.Actor{}, false
	}
	actor := service.Actor{
		UserID:  ident.UserID(),
		IsAdmin: ident.HasRole("admin"),
	}
	if advisorID, ok := ident.AdvisorID(); ok {
		actor.AdvisorID = &advisorID
	}
	return actor, true
}

func requestScope(c *gin.Context) (uuid.UUID, service.Actor, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return uuid.Nil, service.Actor{}, false
	}
	actor, ok := requestActor(c)
	if !ok {
		return uuid.Nil, service.Actor{}, false
	}
	return id, actor, true
}
