// Package domain holds the lead lifecycle rules shared by the service and
// repository layers.
package domain

// Status is the lifecycle state of a lead.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusScheduled Status = "scheduled"
	StatusClosed    Status = "closed"
)

// AllStatuses lists every lifecycle state in display order.
var AllStatuses = []Status{StatusNew, StatusContacted, StatusScheduled, StatusClosed}

var validStatuses = map[Status]bool{
	StatusNew:       true,
	StatusContacted: true,
	StatusScheduled: true,
	StatusClosed:    true,
}

// IsValidStatus reports whether s is a known lifecycle state.
func IsValidStatus(s Status) bool {
	return validStatuses[s]
}

// CanTransition reports whether a lead may move from one status to
// another. Every movement between known states is allowed, including
// reopening a closed lead; the gate exists so unknown states are rejected
// in one place.
func CanTransition(from, to Status) bool {
	return validStatuses[from] && validStatuses[to]
}

// Qualification is the tri-state qualification verdict on a lead.
// A nil *bool in the record means no verdict has been recorded yet, which
// is distinct from an explicit "not qualified".
type Qualification struct {
	Known bool
	Value bool
}

// QualificationFromPtr converts the stored nullable flag.
func QualificationFromPtr(v *bool) Qualification {
	if v == nil {
		return Qualification{}
	}
	return Qualification{Known: true, Value: *v}
}

// Ptr converts the verdict back to its stored form.
func (q Qualification) Ptr() *bool {
	if !q.Known {
		return nil
	}
	v := q.Value
	return &v
}
