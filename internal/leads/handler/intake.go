package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"advisormatch_backend/internal/leads/service"
	"advisormatch_backend/internal/leads/transport"
	"advisormatch_backend/platform/httpkit"
)

// Intake handles the public POST /public/leads submission. Always returns
// 201 when the lead was stored, whether or not an advisor matched.
func (h *Handler) Intake(c *gin.Context) {
	var req transport.IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := service.IntakeInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		State:           req.State,
		PortfolioBucket: req.PortfolioBucket,
		AgeBucket:       req.AgeBucket,
		Goals:           req.Goals,
	}
	if req.CampaignID != nil && *req.CampaignID != "" {
		campaignID, err := uuid.Parse(*req.CampaignID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid campaignId", nil)
			return
		}
		input.CampaignID = &campaignID
	}

	result, err := h.svc.Intake(c.Request.Context(), input)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.IntakeResponse{
		LeadID:   result.Lead.ID,
		Assigned: result.Assigned,
	})
}
