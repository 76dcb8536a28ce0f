package transport

import (
	"time"

	"github.com/google/uuid"

	"advisormatch_backend/internal/campaigns/repository"
)

type CreateCampaignRequest struct {
	AdvisorID *string `json:"advisorId"`
	Name      string  `json:"name" binding:"required,max=200"`
	Source    string  `json:"source" binding:"required,max=100"`
}

type UpdateCampaignRequest struct {
	Name     *string `json:"name"`
	Source   *string `json:"source"`
	IsActive *bool   `json:"isActive"`
}

type CampaignResponse struct {
	ID        uuid.UUID `json:"id"`
	AdvisorID uuid.UUID `json:"advisorId"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	IsActive  bool      `json:"isActive"`
	LeadCount int       `json:"leadCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToCampaignResponse(c repository.Campaign, leadCount int) CampaignResponse {
	return CampaignResponse{
		ID:        c.ID,
		AdvisorID: c.AdvisorID,
		Name:      c.Name,
		Source:    c.Source,
		IsActive:  c.IsActive,
		LeadCount: leadCount,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
