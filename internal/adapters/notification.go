// Package adapters bridges cross-module dependencies so modules depend on
// their own small interfaces instead of each other's services.
package adapters

import (
	"context"
	"strings"

	"github.com/google/uuid"

	advisorservice "advisormatch_backend/internal/advisors/service"
	leadrepo "advisormatch_backend/internal/leads/repository"
)

// AdvisorDirectory exposes advisor contact lookup to the notification
// module.
type AdvisorDirectory struct {
	svc *advisorservice.Service
}

func NewAdvisorDirectory(svc *advisorservice.Service) *AdvisorDirectory {
	return &AdvisorDirectory{svc: svc}
}

func (a *AdvisorDirectory) AdvisorEmail(ctx context.Context, id uuid.UUID) (string, error) {
	advisor, err := a.svc.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return advisor.Email, nil
}

// LeadReader exposes consumer naming to the notification module.
type LeadReader struct {
	repo *leadrepo.Repository
}

func NewLeadReader(repo *leadrepo.Repository) *LeadReader {
	return &LeadReader{repo: repo}
}

func (r *LeadReader) LeadConsumerName(ctx context.Context, id uuid.UUID) (string, error) {
	lead, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(lead.FirstName + " " + lead.LastName), nil
}
