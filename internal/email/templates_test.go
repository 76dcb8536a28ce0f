package email

import (
	"strings"
	"testing"
)

func TestRenderEmailTemplate_NewLead(t *testing.T) {
	content, err := renderEmailTemplate("new_lead.html", newLeadEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectNewLead,
			Heading: "New lead received",
		},
		ConsumerName:    "Dana Reyes",
		State:           "CA",
		PortfolioBucket: "250k_500k",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"New lead received", "Dana Reyes", "CA", "250k_500k"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected rendered email to contain %q", want)
		}
	}
}

func TestRenderEmailTemplate_LeadAssigned(t *testing.T) {
	content, err := renderEmailTemplate("lead_assigned.html", leadAssignedEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectLeadAssigned,
			Heading: "You have a new lead",
		},
		ConsumerName:  "Dana Reyes",
		ConsumerEmail: "dana@example.com",
		ConsumerPhone: "+15550001111",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"You have a new lead", "dana@example.com", "+15550001111"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected rendered email to contain %q", want)
		}
	}
}

func TestRenderEmailTemplate_LeadScheduled(t *testing.T) {
	content, err := renderEmailTemplate("lead_scheduled.html", leadScheduledEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectLeadScheduled,
			Heading: "Appointment scheduled",
		},
		ConsumerName:  "Dana Reyes",
		ScheduledDate: "2026-09-15T14:30:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(content, "2026-09-15T14:30:00Z") {
		t.Fatal("expected rendered email to contain the appointment time")
	}
}

func TestRenderEmailTemplate_EscapesMarkup(t *testing.T) {
	content, err := renderEmailTemplate("new_lead.html", newLeadEmailData{
		baseEmailData:   baseEmailData{Title: "t", Heading: "h"},
		ConsumerName:    "<script>alert(1)</script>",
		State:           "CA",
		PortfolioBucket: "under_100k",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(content, "<script>") {
		t.Fatal("expected template to escape injected markup")
	}
}

func TestRenderEmailTemplate_UnknownTemplateErrors(t *testing.T) {
	if _, err := renderEmailTemplate("missing.html", baseEmailData{}); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
