// Package service implements the lead lifecycle manager: assignment,
// scheduling, qualification, sparse updates, and notes.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"advisormatch_backend/internal/events"
	"advisormatch_backend/internal/leads/domain"
	"advisormatch_backend/internal/leads/repository"
	"advisormatch_backend/internal/matching"
	"advisormatch_backend/platform/apperr"
	"advisormatch_backend/platform/logger"
	"advisormatch_backend/platform/sanitize"
)

// Repository abstracts lead persistence for the service layer.
type Repository interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	Update(ctx context.Context, id uuid.UUID, update repository.LeadUpdate) (repository.Lead, error)
	SetAssigned(ctx context.Context, id uuid.UUID, advisorID uuid.UUID) (repository.Lead, error)
	Schedule(ctx context.Context, id uuid.UUID, scheduledAt time.Time) (repository.Lead, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Lead, int, error)
	AppendNote(ctx context.Context, leadID, authorID uuid.UUID, body string) (repository.Note, error)
	ListNotes(ctx context.Context, leadID uuid.UUID) ([]repository.Note, error)
}

type Service struct {
	repo      Repository
	registry  AdvisorRegistry
	matcher   *matching.Engine
	verifier  Verifier
	campaigns CampaignResolver
	bus       events.Bus
	logger    *logger.Logger
}

func New(
	repo Repository,
	registry AdvisorRegistry,
	matcher *matching.Engine,
	verifier Verifier,
	campaigns CampaignResolver,
	bus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		registry:  registry,
		matcher:   matcher,
		verifier:  verifier,
		campaigns: campaigns,
		bus:       bus,
		logger:    log,
	}
}

// Actor identifies who is performing a lifecycle operation. Admins may act
// on any lead; advisors only on leads assigned to them.
type Actor struct {
	UserID    uuid.UUID
	IsAdmin   bool
	AdvisorID *uuid.UUID
}

// authorize enforces the ownership rule. An advisor acting on a lead that
// is not theirs gets Forbidden, deliberately distinct from NotFound so the
// caller knows the lead exists but is out of scope.
func authorize(lead repository.Lead, actor Actor, op string) error {
	if actor.IsAdmin {
		return nil
	}
	if actor.AdvisorID != nil && lead.AssignedAdvisorID != nil && *lead.AssignedAdvisorID == *actor.AdvisorID {
		return nil
	}
	return apperr.Forbidden("lead is not assigned to you").WithOp(op)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID, actor Actor) (repository.Lead, error) {
	const op = "leads.GetByID"

	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.Wrap(apperr.KindNotFound, "lead not found", err).WithOp(op)
		}
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to fetch lead", err).WithOp(op)
	}
	if err := authorize(lead, actor, op); err != nil {
		return repository.Lead{}, err
	}
	return lead, nil
}

type ListInput struct {
	Status      string
	Unassigned  bool
	AdvisorID   *uuid.UUID
	CampaignID  *uuid.UUID
	IsQualified *bool
	Search      string
	Offset      int
	Limit       int
}

func (s *Service) List(ctx context.Context, input ListInput, actor Actor) ([]repository.Lead, int, error) {
	const op = "leads.List"

	params := repository.ListParams{
		AssignedAdvisorID: input.AdvisorID,
		Unassigned:        input.Unassigned,
		CampaignID:        input.CampaignID,
		IsQualified:       input.IsQualified,
		Search:            strings.TrimSpace(input.Search),
		Offset:            input.Offset,
		Limit:             input.Limit,
	}

	if input.Status != "" {
		status := domain.Status(input.Status)
		if !domain.IsValidStatus(status) {
			return nil, 0, apperr.Validation("unknown status filter").WithOp(op)
		}
		params.Status = &status
	}

	// Advisors only ever see their own book.
	if !actor.IsAdmin {
		if actor.AdvisorID == nil {
			return nil, 0, apperr.Forbidden("no advisor profile linked to this account").WithOp(op)
		}
		params.AssignedAdvisorID = actor.AdvisorID
		params.Unassigned = false
	}

	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 25
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "failed to list leads", err).WithOp(op)
	}
	return leads, total, nil
}

type UpdateInput struct {
	FirstName       *string
	LastName        *string
	Email           *string
	Phone           *string
	State           *string
	PortfolioBucket *string
	AgeBucket       *string
	Goals           *[]string
	Status          *string
	IsQualified     *bool
	IsQualifiedSet  bool
}

// Update applies a sparse mutation. Only the provided fields reach the
// repository, so a concurrent update to a different field is never lost.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput, actor Actor) (repository.Lead, error) {
	const op = "leads.Update"

	if _, err := s.GetByID(ctx, id, actor); err != nil {
		return repository.Lead{}, err
	}

	update := repository.LeadUpdate{
		IsQualified:    input.IsQualified,
		IsQualifiedSet: input.IsQualifiedSet,
	}
	if input.FirstName != nil {
		clean := sanitize.Text(*input.FirstName)
		update.FirstName = &clean
	}
	if input.LastName != nil {
		clean := sanitize.Text(*input.LastName)
		update.LastName = &clean
	}
	if input.Email != nil {
		clean := strings.ToLower(strings.TrimSpace(*input.Email))
		update.Email = &clean
	}
	if input.Phone != nil {
		update.Phone = input.Phone
	}
	if input.State != nil {
		clean := strings.ToUpper(strings.TrimSpace(*input.State))
		if len(clean) != 2 {
			return repository.Lead{}, apperr.Validation("state must be a two-letter code").WithOp(op)
		}
		update.State = &clean
	}
	if input.PortfolioBucket != nil {
		update.PortfolioBucket = input.PortfolioBucket
	}
	if input.AgeBucket != nil {
		update.AgeBucket = input.AgeBucket
	}
	if input.Goals != nil {
		update.Goals = *input.Goals
	}
	if input.Status != nil {
		status := domain.Status(*input.Status)
		if !domain.IsValidStatus(status) {
			return repository.Lead{}, apperr.Validation("unknown status").WithOp(op)
		}
		update.Status = &status
	}

	lead, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.Wrap(apperr.KindNotFound, "lead not found", err).WithOp(op)
		}
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to update lead", err).WithOp(op)
	}
	return lead, nil
}

// UpdateStatus moves a lead between lifecycle states. Any movement between
// known states is allowed, including reopening a closed lead.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status, actor Actor) (repository.Lead, error) {
	const op = "leads.UpdateStatus"

	lead, err := s.GetByID(ctx, id, actor)
	if err != nil {
		return repository.Lead{}, err
	}
	if !domain.CanTransition(lead.Status, status) {
		return repository.Lead{}, apperr.Validation("unknown status").WithOp(op)
	}

	updated, err := s.repo.Update(ctx, id, repository.LeadUpdate{Status: &status})
	if err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to update status", err).WithOp(op)
	}
	return updated, nil
}

// SetQualification records the tri-state verdict. Passing an unset value
// clears it back to "no verdict".
func (s *Service) SetQualification(ctx context.Context, id uuid.UUID, verdict domain.Qualification, actor Actor) (repository.Lead, error) {
	const op = "leads.SetQualification"

	if _, err := s.GetByID(ctx, id, actor); err != nil {
		return repository.Lead{}, err
	}

	lead, err := s.repo.Update(ctx, id, repository.LeadUpdate{
		IsQualified:    verdict.Ptr(),
		IsQualifiedSet: true,
	})
	if err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to set qualification", err).WithOp(op)
	}
	return lead, nil
}

// Assign routes a lead to an advisor: records the assignment, bumps the
// advisor's load counter, and announces it. Not idempotent: assigning the
// same lead twice increments the counter twice. The advisor must be active
// at the moment of assignment.
func (s *Service) Assign(ctx context.Context, leadID, advisorID uuid.UUID) (repository.Lead, error) {
	const op = "leads.Assign"

	active, err := s.registry.IsActive(ctx, advisorID)
	if err != nil {
		return repository.Lead{}, err
	}
	if !active {
		return repository.Lead{}, apperr.Validation("advisor is not active").WithOp(op)
	}

	lead, err := s.repo.SetAssigned(ctx, leadID, advisorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.Wrap(apperr.KindNotFound, "lead not found", err).WithOp(op)
		}
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to assign lead", err).WithOp(op)
	}

	if err := s.registry.RecordAssignment(ctx, advisorID); err != nil {
		s.logger.Error("failed to record assignment on advisor",
			"lead_id", leadID.String(),
			"advisor_id", advisorID.String(),
			"error", err.Error(),
		)
	}

	s.publishAssigned(ctx, lead, nil)
	return lead, nil
}

// Schedule validates the timestamp, then writes scheduled_at and the
// scheduled status in one repository call. Malformed input mutates nothing.
func (s *Service) Schedule(ctx context.Context, id uuid.UUID, scheduledAtRaw string, note *string, actor Actor) (repository.Lead, error) {
	const op = "leads.Schedule"

	if _, err := s.GetByID(ctx, id, actor); err != nil {
		return repository.Lead{}, err
	}

	scheduledAt, err := time.Parse(time.RFC3339, scheduledAtRaw)
	if err != nil {
		return repository.Lead{}, apperr.Validation("scheduledAt must be an RFC 3339 timestamp").WithOp(op)
	}

	lead, err := s.repo.Schedule(ctx, id, scheduledAt.UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.Wrap(apperr.KindNotFound, "lead not found", err).WithOp(op)
		}
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to schedule lead", err).WithOp(op)
	}

	if note != nil && strings.TrimSpace(*note) != "" {
		if _, err := s.repo.AppendNote(ctx, id, actor.UserID, sanitize.Text(*note)); err != nil {
			s.logger.Error("failed to append scheduling note",
				"lead_id", id.String(),
				"error", err.Error(),
			)
		}
	}

	s.bus.Publish(ctx, events.LeadScheduled{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		AdvisorID:   lead.AssignedAdvisorID,
		ScheduledAt: lead.ScheduledAt.UTC().Format(time.RFC3339),
	})
	return lead, nil
}

// AddNote appends to the lead's activity trail. Notes are immutable.
func (s *Service) AddNote(ctx context.Context, leadID uuid.UUID, body string, actor Actor) (repository.Note, error) {
	const op = "leads.AddNote"

	if _, err := s.GetByID(ctx, leadID, actor); err != nil {
		return repository.Note{}, err
	}

	clean := sanitize.Text(body)
	if clean == "" {
		return repository.Note{}, apperr.Validation("note body must not be empty").WithOp(op)
	}

	note, err := s.repo.AppendNote(ctx, leadID, actor.UserID, clean)
	if err != nil {
		return repository.Note{}, apperr.Wrap(apperr.KindInternal, "failed to add note", err).WithOp(op)
	}
	return note, nil
}

func (s *Service) ListNotes(ctx context.Context, leadID uuid.UUID, actor Actor) ([]repository.Note, error) {
	const op = "leads.ListNotes"

	if _, err := s.GetByID(ctx, leadID, actor); err != nil {
		return nil, err
	}

	notes, err := s.repo.ListNotes(ctx, leadID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list notes", err).WithOp(op)
	}
	return notes, nil
}

func (s *Service) publishAssigned(ctx context.Context, lead repository.Lead, score *int) {
	if lead.AssignedAdvisorID == nil {
		return
	}
	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		AdvisorID:     *lead.AssignedAdvisorID,
		ConsumerName:  lead.FirstName + " " + lead.LastName,
		ConsumerPhone: lead.Phone,
		ConsumerEmail: lead.Email,
		MatchScore:    score,
	})
}
