package models

type InterviewStatus string

const (
	InterviewStatusScheduled   InterviewStatus = "SCHEDULED"
	InterviewStatusConfirmed   InterviewStatus = "CONFIRMED"
	InterviewStatusCompleted   InterviewStatus = "COMPLETED"
	InterviewStatusCancelled   InterviewStatus = "CANCELLED"
	InterviewStatusRescheduled InterviewStatus = "RESCHEDULED"
)

var interviewStatusHumanName = map[InterviewStatus]string{
	InterviewStatusScheduled:   "Scheduled",
	InterviewStatusConfirmed:   "Confirmed",
	InterviewStatusCompleted:   "Completed",
	InterviewStatusCancelled:   "Cancelled",
	InterviewStatusRescheduled: "Rescheduled",
}

func (s InterviewStatus) ToHuman() string {
	if human, exist := interviewStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// cancellation is terminal, completed likewise
func (s InterviewStatus) IsFinal() bool {
	return s == InterviewStatusCancelled || s == InterviewStatusCompleted
}

// statuses a reminder still makes sense for
func (s InterviewStatus) IsUpcoming() bool {
	return s == InterviewStatusScheduled || s == InterviewStatusConfirmed || s == InterviewStatusRescheduled
}
