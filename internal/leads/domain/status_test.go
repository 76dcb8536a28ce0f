package domain

import "testing"

func TestIsValidStatus(t *testing.T) {
	for _, s := range AllStatuses {
		if !IsValidStatus(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}

	invalid := []Status{"", "archived", "NEW", "Contacted"}
	for _, s := range invalid {
		if IsValidStatus(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

func TestCanTransition_AnyKnownPairAllowed(t *testing.T) {
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			if !CanTransition(from, to) {
				t.Fatalf("expected %q -> %q to be allowed", from, to)
			}
		}
	}

	// Reopening a closed lead is an explicit part of the contract.
	if !CanTransition(StatusClosed, StatusNew) {
		t.Fatal("expected closed lead to be reopenable")
	}
}

func TestCanTransition_RejectsUnknownStates(t *testing.T) {
	if CanTransition(StatusNew, "archived") {
		t.Fatal("expected unknown target state to be rejected")
	}
	if CanTransition("archived", StatusNew) {
		t.Fatal("expected unknown source state to be rejected")
	}
}

func TestQualification_TriState(t *testing.T) {
	if q := QualificationFromPtr(nil); q.Known {
		t.Fatal("expected nil to mean no verdict")
	}

	falsy := false
	q := QualificationFromPtr(&falsy)
	if !q.Known || q.Value {
		t.Fatalf("expected explicit not-qualified verdict, got %+v", q)
	}

	truthy := true
	q = QualificationFromPtr(&truthy)
	if !q.Known || !q.Value {
		t.Fatalf("expected explicit qualified verdict, got %+v", q)
	}

	if ptr := (Qualification{}).Ptr(); ptr != nil {
		t.Fatal("expected unknown verdict to round-trip to nil")
	}
	if ptr := q.Ptr(); ptr == nil || !*ptr {
		t.Fatal("expected qualified verdict to round-trip to true")
	}
}
