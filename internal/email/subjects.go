package email

const (
	subjectNewLead       = "New lead received"
	subjectLeadAssigned  = "A new lead has been assigned to you"
	subjectLeadScheduled = "Appointment scheduled"
)
