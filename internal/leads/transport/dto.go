package transport

import (
	"time"

	"github.com/google/uuid"

	"advisormatch_backend/internal/leads/domain"
	"advisormatch_backend/internal/leads/repository"
)

// IntakeRequest is the public consumer submission payload.
type IntakeRequest struct {
	FirstName       string   `json:"firstName" binding:"required,max=100"`
	LastName        string   `json:"lastName" binding:"required,max=100"`
	Email           string   `json:"email" binding:"required,email"`
	Phone           string   `json:"phone" binding:"required,max=32"`
	State           string   `json:"state" binding:"required,len=2"`
	PortfolioBucket string   `json:"portfolioBucket" binding:"required,max=50"`
	AgeBucket       string   `json:"ageBucket" binding:"required,max=50"`
	Goals           []string `json:"goals" binding:"max=20,dive,max=100"`
	CampaignID      *string  `json:"campaignId"`
}

// UpdateLeadRequest is the sparse admin update payload. Absent keys leave
// fields untouched; isQualified accepts explicit null to clear the verdict.
type UpdateLeadRequest struct {
	FirstName       *string        `json:"firstName"`
	LastName        *string        `json:"lastName"`
	Email           *string        `json:"email"`
	Phone           *string        `json:"phone"`
	State           *string        `json:"state"`
	PortfolioBucket *string        `json:"portfolioBucket"`
	AgeBucket       *string        `json:"ageBucket"`
	Goals           *[]string      `json:"goals"`
	Status          *string        `json:"status"`
	IsQualified     Optional[bool] `json:"isQualified"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SetQualificationRequest struct {
	IsQualified Optional[bool] `json:"isQualified"`
}

type AssignRequest struct {
	AdvisorID string `json:"advisorId" binding:"required,uuid"`
}

// ScheduleRequest carries the appointment time as an RFC 3339 string; the
// service validates it so malformed input yields a validation error rather
// than a bind failure.
type ScheduleRequest struct {
	ScheduledAt string  `json:"scheduledAt" binding:"required"`
	Note        *string `json:"note"`
}

type AddNoteRequest struct {
	Body string `json:"body" binding:"required,max=4000"`
}

type LeadResponse struct {
	ID                uuid.UUID     `json:"id"`
	FirstName         string        `json:"firstName"`
	LastName          string        `json:"lastName"`
	Email             string        `json:"email"`
	Phone             string        `json:"phone"`
	State             string        `json:"state"`
	PortfolioBucket   string        `json:"portfolioBucket"`
	AgeBucket         string        `json:"ageBucket"`
	Goals             []string      `json:"goals"`
	Status            domain.Status `json:"status"`
	IsQualified       *bool         `json:"isQualified"`
	AssignedAdvisorID *uuid.UUID    `json:"assignedAdvisorId"`
	ScheduledAt       *time.Time    `json:"scheduledAt"`
	CampaignID        *uuid.UUID    `json:"campaignId"`
	FirmName          *string       `json:"firmName"`
	CRDNumber         *string       `json:"crdNumber"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

func ToLeadResponse(l repository.Lead) LeadResponse {
	goals := l.Goals
	if goals == nil {
		goals = []string{}
	}
	return LeadResponse{
		ID:                l.ID,
		FirstName:         l.FirstName,
		LastName:          l.LastName,
		Email:             l.Email,
		Phone:             l.Phone,
		State:             l.State,
		PortfolioBucket:   l.PortfolioBucket,
		AgeBucket:         l.AgeBucket,
		Goals:             goals,
		Status:            l.Status,
		IsQualified:       l.IsQualified,
		AssignedAdvisorID: l.AssignedAdvisorID,
		ScheduledAt:       l.ScheduledAt,
		CampaignID:        l.CampaignID,
		FirmName:          l.FirmName,
		CRDNumber:         l.CRDNumber,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

// IntakeResponse is returned to the public submitter. It intentionally
// exposes only whether routing happened, not which advisor or score.
type IntakeResponse struct {
	LeadID   uuid.UUID `json:"leadId"`
	Assigned bool      `json:"assigned"`
}

type ListLeadsResponse struct {
	Leads  []LeadResponse `json:"leads"`
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"leadId"`
	AuthorID  uuid.UUID `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToNoteResponse(n repository.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		LeadID:    n.LeadID,
		AuthorID:  n.AuthorID,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
	}
}
