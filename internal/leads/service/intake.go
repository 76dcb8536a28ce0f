package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"advisormatch_backend/internal/events"
	"advisormatch_backend/internal/leads/repository"
	"advisormatch_backend/platform/apperr"
	"advisormatch_backend/platform/phone"
	"advisormatch_backend/platform/sanitize"
)

type IntakeInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	State           string
	PortfolioBucket string
	AgeBucket       string
	Goals           []string
	CampaignID      *uuid.UUID
}

// IntakeResult is the outcome of a consumer submission.
type IntakeResult struct {
	Lead     repository.Lead
	Assigned bool
}

// Intake processes a public consumer submission end to end: create the
// lead, then run matching over the active roster and assign on a hit.
// Matching finding nobody is a normal outcome; the lead stays unassigned
// in the pool.
func (s *Service) Intake(ctx context.Context, input IntakeInput) (IntakeResult, error) {
	const op = "leads.Intake"

	state := strings.ToUpper(strings.TrimSpace(input.State))

	if input.CampaignID != nil {
		if err := s.campaigns.ValidateActive(ctx, *input.CampaignID); err != nil {
			return IntakeResult{}, err
		}
	}

	firstName := sanitize.Text(input.FirstName)
	lastName := sanitize.Text(input.LastName)

	params := repository.CreateLeadParams{
		FirstName:       firstName,
		LastName:        lastName,
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:           phone.NormalizeE164(input.Phone),
		State:           state,
		PortfolioBucket: strings.TrimSpace(input.PortfolioBucket),
		AgeBucket:       strings.TrimSpace(input.AgeBucket),
		Goals:           normalizeGoals(input.Goals),
		CampaignID:      input.CampaignID,
	}

	// Best-effort registry enrichment; lookup failure leaves the fields
	// empty and the submission proceeds.
	if s.verifier != nil && s.verifier.Enabled() {
		candidates := s.verifier.Lookup(ctx, firstName+" "+lastName)
		if len(candidates) > 0 {
			params.FirmName = &candidates[0].FirmName
			params.CRDNumber = &candidates[0].CRDNumber
		}
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return IntakeResult{}, apperr.Wrap(apperr.KindInternal, "failed to create lead", err).WithOp(op)
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          lead.ID,
		ConsumerName:    lead.FirstName + " " + lead.LastName,
		ConsumerPhone:   lead.Phone,
		ConsumerEmail:   lead.Email,
		State:           lead.State,
		PortfolioBucket: lead.PortfolioBucket,
		CampaignID:      lead.CampaignID,
	})

	assigned, err := s.matchAndAssign(ctx, lead)
	if err != nil {
		// The lead exists; routing trouble must not fail the submission.
		s.logger.Error("matching failed after intake",
			"lead_id", lead.ID.String(),
			"error", err.Error(),
		)
		return IntakeResult{Lead: lead}, nil
	}
	if assigned != nil {
		return IntakeResult{Lead: *assigned, Assigned: true}, nil
	}
	return IntakeResult{Lead: lead}, nil
}

// matchAndAssign runs the scoring engine over the active roster and, on a
// match, records the assignment. Returns nil when no advisor matched.
func (s *Service) matchAndAssign(ctx context.Context, lead repository.Lead) (*repository.Lead, error) {
	candidates, err := s.registry.ActiveCandidates(ctx)
	if err != nil {
		return nil, err
	}

	profile := s.matcher.ResolveProfile(lead.PortfolioBucket, lead.AgeBucket, lead.State, lead.Goals)
	best, ok := s.matcher.Match(profile, candidates)
	if !ok {
		s.logger.MatchResult(lead.ID.String(), "", 0, len(candidates))
		return nil, nil
	}

	assigned, err := s.repo.SetAssigned(ctx, lead.ID, best.Candidate.ID)
	if err != nil {
		return nil, err
	}
	if err := s.registry.RecordAssignment(ctx, best.Candidate.ID); err != nil {
		s.logger.Error("failed to record assignment on advisor",
			"lead_id", lead.ID.String(),
			"advisor_id", best.Candidate.ID.String(),
			"error", err.Error(),
		)
	}

	s.logger.MatchResult(lead.ID.String(), best.Candidate.ID.String(), best.Total, len(candidates))

	score := best.Total
	s.publishAssigned(ctx, assigned, &score)
	return &assigned, nil
}

func normalizeGoals(goals []string) []string {
	out := make([]string, 0, len(goals))
	seen := make(map[string]bool, len(goals))
	for _, goal := range goals {
		normalized := strings.ToLower(strings.TrimSpace(goal))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}
	return out
}
