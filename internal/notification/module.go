// Package notification turns domain events into outbox records and drains
// due records into email deliveries. Domain modules publish events and
// never know about SMTP or templates; delivery failure is this module's
// problem, logged and retried, never the triggering operation's.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"advisormatch_backend/internal/email"
	"advisormatch_backend/internal/events"
	"advisormatch_backend/internal/notification/outbox"
	"advisormatch_backend/platform/config"
	"advisormatch_backend/platform/logger"
)

// Outbox record kinds.
const (
	KindNewLead       = "lead.new"
	KindLeadAssigned  = "lead.assigned"
	KindLeadScheduled = "lead.scheduled"
)

type newLeadPayload struct {
	ConsumerName    string `json:"consumerName"`
	State           string `json:"state"`
	PortfolioBucket string `json:"portfolioBucket"`
}

type leadAssignedPayload struct {
	ConsumerName  string `json:"consumerName"`
	ConsumerEmail string `json:"consumerEmail"`
	ConsumerPhone string `json:"consumerPhone"`
}

type leadScheduledPayload struct {
	ConsumerName string `json:"consumerName"`
	ScheduledAt  string `json:"scheduledAt"`
}

// AdvisorDirectory resolves advisor contact details for deliveries.
type AdvisorDirectory interface {
	AdvisorEmail(ctx context.Context, id uuid.UUID) (string, error)
}

// LeadReader resolves lead details for deliveries that carry more than the
// event payload.
type LeadReader interface {
	LeadConsumerName(ctx context.Context, id uuid.UUID) (string, error)
}

// outboxStore is the slice of the outbox repository the module touches.
type outboxStore interface {
	Insert(ctx context.Context, p outbox.InsertParams) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (outbox.Record, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkSucceeded(ctx context.Context, id uuid.UUID) error
	RetryOrFail(ctx context.Context, rec outbox.Record, lastError string) error
}

// Module subscribes to domain events, writes outbox records, and handles
// due-record delivery.
type Module struct {
	outbox   outboxStore
	sender   email.Sender
	advisors AdvisorDirectory
	leads    LeadReader
	cfg      config.NotificationConfig
	log      *logger.Logger
}

func NewModule(
	pool *pgxpool.Pool,
	sender email.Sender,
	advisors AdvisorDirectory,
	leads LeadReader,
	cfg config.NotificationConfig,
	log *logger.Logger,
) *Module {
	return &Module{
		outbox:   outbox.New(pool),
		sender:   sender,
		advisors: advisors,
		leads:    leads,
		cfg:      cfg,
		log:      log,
	}
}

// Subscribe registers the module's event handlers on the bus.
func (m *Module) Subscribe(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(m.onLeadCreated))
	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(m.onLeadAssigned))
	bus.Subscribe(events.LeadScheduled{}.EventName(), events.HandlerFunc(m.onLeadScheduled))
	bus.Subscribe(events.NotificationOutboxDue{}.EventName(), events.HandlerFunc(m.onOutboxDue))
}

func (m *Module) onLeadCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	recipient := m.cfg.GetAdminNotifyAddress()
	if recipient == "" {
		return nil
	}

	m.enqueue(ctx, KindNewLead, recipient, newLeadPayload{
		ConsumerName:    e.ConsumerName,
		State:           e.State,
		PortfolioBucket: e.PortfolioBucket,
	})
	return nil
}

func (m *Module) onLeadAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadAssigned)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	payload := leadAssignedPayload{
		ConsumerName:  e.ConsumerName,
		ConsumerEmail: e.ConsumerEmail,
		ConsumerPhone: e.ConsumerPhone,
	}

	advisorEmail, err := m.advisors.AdvisorEmail(ctx, e.AdvisorID)
	if err != nil {
		m.log.NotificationFailure(KindLeadAssigned, e.AdvisorID.String(), err)
	} else {
		m.enqueue(ctx, KindLeadAssigned, advisorEmail, payload)
	}

	// Admins get a copy of every assignment when a notify address is set.
	if admin := m.cfg.GetAdminNotifyAddress(); admin != "" {
		m.enqueue(ctx, KindLeadAssigned, admin, payload)
	}
	return nil
}

// enqueue inserts one outbox record due immediately. Insert failures are
// logged; the triggering operation already committed.
func (m *Module) enqueue(ctx context.Context, kind, recipient string, payload any) {
	_, err := m.outbox.Insert(ctx, outbox.InsertParams{
		Kind:      kind,
		Recipient: recipient,
		Payload:   payload,
		RunAt:     time.Now().UTC(),
	})
	if err != nil {
		m.log.NotificationFailure(kind, recipient, err)
	}
}

func (m *Module) onLeadScheduled(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadScheduled)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if e.AdvisorID == nil {
		return nil
	}

	recipient, err := m.advisors.AdvisorEmail(ctx, *e.AdvisorID)
	if err != nil {
		m.log.NotificationFailure(KindLeadScheduled, e.AdvisorID.String(), err)
		return nil
	}

	consumerName, err := m.leads.LeadConsumerName(ctx, e.LeadID)
	if err != nil {
		consumerName = "your client"
	}

	m.enqueue(ctx, KindLeadScheduled, recipient, leadScheduledPayload{
		ConsumerName: consumerName,
		ScheduledAt:  e.ScheduledAt,
	})
	return nil
}

// onOutboxDue delivers one claimed outbox record. Errors here drive the
// retry bookkeeping and are never surfaced past the worker.
func (m *Module) onOutboxDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.NotificationOutboxDue)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	rec, err := m.outbox.GetByID(ctx, e.OutboxID)
	if err != nil {
		return err
	}
	if rec.Status == outbox.StatusSucceeded || rec.Status == outbox.StatusFailed {
		return nil
	}

	if err := m.outbox.MarkProcessing(ctx, rec.ID); err != nil {
		return err
	}
	rec.Attempts++

	if err := m.deliver(ctx, rec); err != nil {
		m.log.NotificationFailure(rec.Kind, rec.Recipient, err)
		return m.outbox.RetryOrFail(ctx, rec, err.Error())
	}
	return m.outbox.MarkSucceeded(ctx, rec.ID)
}

func (m *Module) deliver(ctx context.Context, rec outbox.Record) error {
	switch rec.Kind {
	case KindNewLead:
		var p newLeadPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}
		return m.sender.SendNewLeadEmail(ctx, rec.Recipient, p.ConsumerName, p.State, p.PortfolioBucket)
	case KindLeadAssigned:
		var p leadAssignedPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}
		return m.sender.SendLeadAssignedEmail(ctx, rec.Recipient, p.ConsumerName, p.ConsumerEmail, p.ConsumerPhone)
	case KindLeadScheduled:
		var p leadScheduledPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}
		return m.sender.SendLeadScheduledEmail(ctx, rec.Recipient, p.ConsumerName, p.ScheduledAt)
	default:
		return fmt.Errorf("unknown outbox kind %q", rec.Kind)
	}
}
