package transport

import (
	"time"

	"github.com/google/uuid"

	"advisormatch_backend/internal/advisors/repository"
)

type CreateAdvisorRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	FirmName  string `json:"firmName" binding:"required,max=200"`
}

// UpdateTargetingRequest uses Optional fields to tell an absent JSON key
// from an explicit null: absent keys leave the stored bound untouched,
// nulls clear it. The list fields use plain pointers since an empty list
// already expresses clearing.
type UpdateTargetingRequest struct {
	MinAssets    Optional[int64] `json:"minAssets"`
	MaxAssets    Optional[int64] `json:"maxAssets"`
	MinAge       Optional[int]   `json:"minAge"`
	MaxAge       Optional[int]   `json:"maxAge"`
	TargetStates *[]string       `json:"targetStates"`
	TargetGoals  *[]string       `json:"targetGoals"`
}

type UpdateBrandingRequest struct {
	Bio      Optional[string] `json:"bio"`
	FirmName *string          `json:"firmName"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

type AdvisorResponse struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	FirmName           string    `json:"firmName"`
	IsActive           bool      `json:"isActive"`
	MinAssets          *int64    `json:"minAssets"`
	MaxAssets          *int64    `json:"maxAssets"`
	MinAge             *int      `json:"minAge"`
	MaxAge             *int      `json:"maxAge"`
	TargetStates       []string  `json:"targetStates"`
	TargetGoals        []string  `json:"targetGoals"`
	Bio                *string   `json:"bio"`
	LogoURL            *string   `json:"logoUrl"`
	PhotoURL           *string   `json:"photoUrl"`
	LeadsAssignedCount int       `json:"leadsAssignedCount"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func ToAdvisorResponse(a repository.Advisor, logoURL, photoURL *string) AdvisorResponse {
	states := a.TargetStates
	if states == nil {
		states = []string{}
	}
	goals := a.TargetGoals
	if goals == nil {
		goals = []string{}
	}
	return AdvisorResponse{
		ID:                 a.ID,
		Email:              a.Email,
		FirstName:          a.FirstName,
		LastName:           a.LastName,
		FirmName:           a.FirmName,
		IsActive:           a.IsActive,
		MinAssets:          a.MinAssets,
		MaxAssets:          a.MaxAssets,
		MinAge:             a.MinAge,
		MaxAge:             a.MaxAge,
		TargetStates:       states,
		TargetGoals:        goals,
		Bio:                a.Bio,
		LogoURL:            logoURL,
		PhotoURL:           photoURL,
		LeadsAssignedCount: a.LeadsAssignedCount,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

type ListAdvisorsResponse struct {
	Advisors []AdvisorResponse `json:"advisors"`
	Total    int               `json:"total"`
	Offset   int               `json:"offset"`
	Limit    int               `json:"limit"`
}
