package notification

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"advisormatch_backend/internal/events"
	"advisormatch_backend/internal/notification/outbox"
	"advisormatch_backend/platform/logger"
)

type testConfig struct {
	adminAddress string
}

func (c testConfig) GetAppBaseURL() string         { return "https://app.example.com" }
func (c testConfig) GetAdminNotifyAddress() string { return c.adminAddress }

type testSender struct {
	newLeadCalls   int
	assignedCalls  int
	scheduledCalls int
	lastRecipient  string
	lastName       string
}

func (s *testSender) SendNewLeadEmail(_ context.Context, toEmail, consumerName, _, _ string) error {
	s.newLeadCalls++
	s.lastRecipient = toEmail
	s.lastName = consumerName
	return nil
}

func (s *testSender) SendLeadAssignedEmail(_ context.Context, toEmail, consumerName, _, _ string) error {
	s.assignedCalls++
	s.lastRecipient = toEmail
	s.lastName = consumerName
	return nil
}

func (s *testSender) SendLeadScheduledEmail(_ context.Context, toEmail, consumerName, _ string) error {
	s.scheduledCalls++
	s.lastRecipient = toEmail
	s.lastName = consumerName
	return nil
}

type testDirectory struct {
	email string
	calls int
}

func (d *testDirectory) AdvisorEmail(context.Context, uuid.UUID) (string, error) {
	d.calls++
	return d.email, nil
}

type testLeadReader struct{ name string }

func (r testLeadReader) LeadConsumerName(context.Context, uuid.UUID) (string, error) {
	return r.name, nil
}

type testOutbox struct {
	inserts []outbox.InsertParams
}

func (o *testOutbox) Insert(_ context.Context, p outbox.InsertParams) (uuid.UUID, error) {
	o.inserts = append(o.inserts, p)
	return uuid.New(), nil
}

func (o *testOutbox) GetByID(context.Context, uuid.UUID) (outbox.Record, error) {
	return outbox.Record{}, nil
}

func (o *testOutbox) MarkProcessing(context.Context, uuid.UUID) error          { return nil }
func (o *testOutbox) MarkSucceeded(context.Context, uuid.UUID) error           { return nil }
func (o *testOutbox) RetryOrFail(context.Context, outbox.Record, string) error { return nil }

func newTestModule(sender *testSender, directory *testDirectory, adminAddress string) *Module {
	return NewModule(nil, sender, directory, testLeadReader{name: "Dana Reyes"}, testConfig{adminAddress: adminAddress}, logger.New("development"))
}

func mustPayload(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return raw
}

func TestOnLeadCreated_SkipsWithoutAdminAddress(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, &testDirectory{}, "")

	err := m.onLeadCreated(context.Background(), events.LeadCreated{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       uuid.New(),
		ConsumerName: "Dana Reyes",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.newLeadCalls != 0 {
		t.Fatal("expected no direct send from the event handler")
	}
}

func TestOnLeadScheduled_SkipsUnassignedLead(t *testing.T) {
	directory := &testDirectory{email: "advisor@example.com"}
	m := newTestModule(&testSender{}, directory, "admin@example.com")

	err := m.onLeadScheduled(context.Background(), events.LeadScheduled{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      uuid.New(),
		ScheduledAt: "2026-09-15T14:30:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if directory.calls != 0 {
		t.Fatal("expected no advisor lookup without an assigned advisor")
	}
}

func TestOnLeadAssigned_NotifiesAdvisorAndAdmin(t *testing.T) {
	store := &testOutbox{}
	m := newTestModule(&testSender{}, &testDirectory{email: "advisor@example.com"}, "admin@example.com")
	m.outbox = store

	err := m.onLeadAssigned(context.Background(), events.LeadAssigned{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        uuid.New(),
		AdvisorID:     uuid.New(),
		ConsumerName:  "Dana Reyes",
		ConsumerEmail: "dana@example.com",
		ConsumerPhone: "+15550001111",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.inserts) != 2 {
		t.Fatalf("expected 2 outbox records, got %d", len(store.inserts))
	}
	recipients := map[string]bool{}
	for _, p := range store.inserts {
		if p.Kind != KindLeadAssigned {
			t.Fatalf("expected kind %q, got %q", KindLeadAssigned, p.Kind)
		}
		recipients[p.Recipient] = true
	}
	if !recipients["advisor@example.com"] || !recipients["admin@example.com"] {
		t.Fatalf("expected records for advisor and admin, got %v", recipients)
	}
}

func TestOnLeadAssigned_SkipsAdminCopyWhenUnconfigured(t *testing.T) {
	store := &testOutbox{}
	m := newTestModule(&testSender{}, &testDirectory{email: "advisor@example.com"}, "")
	m.outbox = store

	err := m.onLeadAssigned(context.Background(), events.LeadAssigned{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       uuid.New(),
		AdvisorID:    uuid.New(),
		ConsumerName: "Dana Reyes",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.inserts) != 1 {
		t.Fatalf("expected 1 outbox record, got %d", len(store.inserts))
	}
	if store.inserts[0].Recipient != "advisor@example.com" {
		t.Fatalf("expected advisor recipient, got %q", store.inserts[0].Recipient)
	}
}

func TestHandlers_RejectForeignEventTypes(t *testing.T) {
	m := newTestModule(&testSender{}, &testDirectory{}, "admin@example.com")
	wrong := events.LeadScheduled{BaseEvent: events.NewBaseEvent()}

	if err := m.onLeadCreated(context.Background(), wrong); err == nil {
		t.Fatal("expected error for mismatched event type")
	}
	if err := m.onLeadAssigned(context.Background(), wrong); err == nil {
		t.Fatal("expected error for mismatched event type")
	}
}

func TestDeliver_DispatchesByKind(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, &testDirectory{}, "admin@example.com")
	ctx := context.Background()

	err := m.deliver(ctx, outbox.Record{
		Kind:      KindNewLead,
		Recipient: "admin@example.com",
		Payload: mustPayload(t, newLeadPayload{
			ConsumerName:    "Dana Reyes",
			State:           "CA",
			PortfolioBucket: "250k_500k",
		}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.newLeadCalls != 1 || sender.lastRecipient != "admin@example.com" {
		t.Fatalf("expected one new-lead send to admin, got %+v", sender)
	}

	err = m.deliver(ctx, outbox.Record{
		Kind:      KindLeadAssigned,
		Recipient: "advisor@example.com",
		Payload: mustPayload(t, leadAssignedPayload{
			ConsumerName:  "Dana Reyes",
			ConsumerEmail: "dana@example.com",
			ConsumerPhone: "+15550001111",
		}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.assignedCalls != 1 {
		t.Fatalf("expected one assigned send, got %d", sender.assignedCalls)
	}

	err = m.deliver(ctx, outbox.Record{
		Kind:      KindLeadScheduled,
		Recipient: "advisor@example.com",
		Payload: mustPayload(t, leadScheduledPayload{
			ConsumerName: "Dana Reyes",
			ScheduledAt:  "2026-09-15T14:30:00Z",
		}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.scheduledCalls != 1 {
		t.Fatalf("expected one scheduled send, got %d", sender.scheduledCalls)
	}
}

func TestDeliver_UnknownKindErrors(t *testing.T) {
	m := newTestModule(&testSender{}, &testDirectory{}, "admin@example.com")

	err := m.deliver(context.Background(), outbox.Record{
		Kind:    "lead.archived",
		Payload: json.RawMessage(`{}`),
	})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestDeliver_MalformedPayloadErrors(t *testing.T) {
	m := newTestModule(&testSender{}, &testDirectory{}, "admin@example.com")

	err := m.deliver(context.Background(), outbox.Record{
		Kind:    KindNewLead,
		Payload: json.RawMessage(`{"consumerName":`),
	})
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
