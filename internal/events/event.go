// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"advisormatch_backend/platform/events"
	"advisormatch_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a consumer submission creates a new lead.
type LeadCreated struct {
	BaseEvent
	LeadID          uuid.UUID  `json:"leadId"`
	ConsumerName    string     `json:"consumerName"`
	ConsumerPhone   string     `json:"consumerPhone"`
	ConsumerEmail   string     `json:"consumerEmail"`
	State           string     `json:"state"`
	PortfolioBucket string     `json:"portfolioBucket"`
	CampaignID      *uuid.UUID `json:"campaignId,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadAssigned is published when a lead is assigned to an advisor.
type LeadAssigned struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	AdvisorID     uuid.UUID `json:"advisorId"`
	ConsumerName  string    `json:"consumerName"`
	ConsumerPhone string    `json:"consumerPhone"`
	ConsumerEmail string    `json:"consumerEmail"`
	MatchScore    *int      `json:"matchScore,omitempty"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }

// LeadScheduled is published when an appointment is scheduled for a lead.
type LeadScheduled struct {
	BaseEvent
	LeadID      uuid.UUID  `json:"leadId"`
	AdvisorID   *uuid.UUID `json:"advisorId,omitempty"`
	ScheduledAt string     `json:"scheduledAt"`
}

func (e LeadScheduled) EventName() string { return "leads.lead.scheduled" }

// =============================================================================
// Advisors Domain Events
// =============================================================================

// AdvisorDeactivated is published when an admin removes an advisor from
// matching eligibility. Already-assigned leads are not touched.
type AdvisorDeactivated struct {
	BaseEvent
	AdvisorID uuid.UUID `json:"advisorId"`
}

func (e AdvisorDeactivated) EventName() string { return "advisors.advisor.deactivated" }

// =============================================================================
// Notification Events
// =============================================================================

// NotificationOutboxDue is published by the scheduler worker when an outbox
// record is due for delivery.
type NotificationOutboxDue struct {
	BaseEvent
	OutboxID uuid.UUID `json:"outboxId"`
}

func (e NotificationOutboxDue) EventName() string { return "notification.outbox.due" }
