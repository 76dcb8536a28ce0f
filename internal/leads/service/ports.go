package service

import (
	"context"

	"github.com/google/uuid"

	"advisormatch_backend/internal/matching"
	"advisormatch_backend/internal/verification"
)

// AdvisorRegistry is the slice of the advisor module the lifecycle manager
// depends on. Kept as an interface so the leads module never imports the
// advisor service directly.
type AdvisorRegistry interface {
	// ActiveCandidates returns the matching roster in stable order.
	ActiveCandidates(ctx context.Context) ([]matching.Candidate, error)
	// IsActive reports whether an advisor is eligible for assignment.
	IsActive(ctx context.Context, id uuid.UUID) (bool, error)
	// RecordAssignment bumps the advisor's load counter by one.
	RecordAssignment(ctx context.Context, id uuid.UUID) error
}

// CampaignResolver validates campaign attribution on intake.
type CampaignResolver interface {
	// ValidateActive returns an error when the campaign does not exist or
	// is not accepting leads.
	ValidateActive(ctx context.Context, id uuid.UUID) error
}

// Verifier is the external registry client used for intake enrichment.
type Verifier interface {
	Enabled() bool
	Lookup(ctx context.Context, name string) []verification.Candidate
}
