// Package service implements advisor-owned campaign management for lead
// attribution.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"advisormatch_backend/internal/campaigns/repository"
	"advisormatch_backend/platform/apperr"
	"advisormatch_backend/platform/sanitize"
)

// Repository abstracts campaign persistence.
type Repository interface {
	Create(ctx context.Context, params repository.CreateCampaignParams) (repository.Campaign, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Campaign, error)
	ListByAdvisor(ctx context.Context, advisorID uuid.UUID) ([]repository.Campaign, error)
	ListAll(ctx context.Context) ([]repository.Campaign, error)
	Update(ctx context.Context, id uuid.UUID, update repository.CampaignUpdate) (repository.Campaign, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LeadCounter aggregates lead totals per campaign, provided by the lead
// store.
type LeadCounter interface {
	CountByCampaign(ctx context.Context, campaignIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type Service struct {
	repo  Repository
	leads LeadCounter
}

func New(repo Repository, leads LeadCounter) *Service {
	return &Service{repo: repo, leads: leads}
}

// Actor identifies the caller for ownership checks.
type Actor struct {
	IsAdmin   bool
	AdvisorID *uuid.UUID
}

// authorize rejects cross-advisor access with Forbidden, distinct from
// NotFound, so an advisor probing another's campaign learns it exists but
// is off limits.
func authorize(campaign repository.Campaign, actor Actor, op string) error {
	if actor.IsAdmin {
		return nil
	}
	if actor.AdvisorID != nil && campaign.AdvisorID == *actor.AdvisorID {
		return nil
	}
	return apperr.Forbidden("campaign belongs to another advisor").WithOp(op)
}

type CreateInput struct {
	AdvisorID uuid.UUID
	Name      string
	Source    string
}

func (s *Service) Create(ctx context.Context, input CreateInput, actor Actor) (repository.Campaign, error) {
	const op = "campaigns.Create"

	if !actor.IsAdmin {
		if actor.AdvisorID == nil || *actor.AdvisorID != input.AdvisorID {
			return repository.Campaign{}, apperr.Forbidden("cannot create campaigns for another advisor").WithOp(op)
		}
	}

	campaign, err := s.repo.Create(ctx, repository.CreateCampaignParams{
		AdvisorID: input.AdvisorID,
		Name:      sanitize.Text(input.Name),
		Source:    sanitize.Text(input.Source),
	})
	if err != nil {
		return repository.Campaign{}, apperr.Wrap(apperr.KindInternal, "failed to create campaign", err).WithOp(op)
	}
	return campaign, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID, actor Actor) (repository.Campaign, error) {
	const op = "campaigns.GetByID"

	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Campaign{}, apperr.Wrap(apperr.KindNotFound, "campaign not found", err).WithOp(op)
		}
		return repository.Campaign{}, apperr.Wrap(apperr.KindInternal, "failed to fetch campaign", err).WithOp(op)
	}
	if err := authorize(campaign, actor, op); err != nil {
		return repository.Campaign{}, err
	}
	return campaign, nil
}

// CampaignWithCount pairs a campaign with its attributed lead total.
type CampaignWithCount struct {
	Campaign  repository.Campaign
	LeadCount int
}

// List returns the caller's campaigns with per-campaign lead counts.
// Admins see every campaign.
func (s *Service) List(ctx context.Context, actor Actor) ([]CampaignWithCount, error) {
	const op = "campaigns.List"

	var campaigns []repository.Campaign
	var err error
	if actor.IsAdmin {
		campaigns, err = s.repo.ListAll(ctx)
	} else {
		if actor.AdvisorID == nil {
			return nil, apperr.Forbidden("no advisor profile linked to this account").WithOp(op)
		}
		campaigns, err = s.repo.ListByAdvisor(ctx, *actor.AdvisorID)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list campaigns", err).WithOp(op)
	}

	ids := make([]uuid.UUID, 0, len(campaigns))
	for _, campaign := range campaigns {
		ids = append(ids, campaign.ID)
	}
	counts, err := s.leads.CountByCampaign(ctx, ids)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to count campaign leads", err).WithOp(op)
	}

	out := make([]CampaignWithCount, 0, len(campaigns))
	for _, campaign := range campaigns {
		out = append(out, CampaignWithCount{
			Campaign:  campaign,
			LeadCount: counts[campaign.ID],
		})
	}
	return out, nil
}

type UpdateInput struct {
	Name     *string
	Source   *string
	IsActive *bool
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput, actor Actor) (repository.Campaign, error) {
	const op = "campaigns.Update"

	if _, err := s.GetByID(ctx, id, actor); err != nil {
		return repository.Campaign{}, err
	}

	update := repository.CampaignUpdate{IsActive: input.IsActive}
	if input.Name != nil {
		clean := sanitize.Text(*input.Name)
		update.Name = &clean
	}
	if input.Source != nil {
		clean := sanitize.Text(*input.Source)
		update.Source = &clean
	}

	campaign, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return repository.Campaign{}, apperr.Wrap(apperr.KindInternal, "failed to update campaign", err).WithOp(op)
	}
	return campaign, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	const op = "campaigns.Delete"

	if _, err := s.GetByID(ctx, id, actor); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete campaign", err).WithOp(op)
	}
	return nil
}

// ValidateActive is the intake-facing check: the campaign must exist and
// be accepting leads.
func (s *Service) ValidateActive(ctx context.Context, id uuid.UUID) error {
	const op = "campaigns.ValidateActive"

	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Validation("unknown campaign").WithOp(op)
		}
		return apperr.Wrap(apperr.KindInternal, "failed to resolve campaign", err).WithOp(op)
	}
	if !campaign.IsActive {
		return apperr.Validation("campaign is not accepting leads").WithOp(op)
	}
	return nil
}
