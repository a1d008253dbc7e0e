package interviewapimodels

import (
	"intavia-backend/models"
	dbmodels "intavia-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type InterviewView struct {
	ID             string                 `json:"id"`
	CandidateID    string                 `json:"candidate_id"`
	JobID          string                 `json:"job_id"`
	Date           time.Time              `json:"date"`
	TimezoneID     string                 `json:"timezone_id"`
	DurationMin    int                    `json:"duration_min"`
	Status         models.InterviewStatus `json:"status"`
	StatusName     string                 `json:"status_name"`
	MeetLink       string                 `json:"meet_link,omitempty"`
	CalendarSynced bool                   `json:"calendar_synced"`
	ReminderSentAt *time.Time             `json:"reminder_sent_at,omitempty"`
}

func InterviewConvert(rec dbmodels.Interview) InterviewView {
	return InterviewView{
		ID:             rec.ID,
		CandidateID:    rec.CandidateID,
		JobID:          rec.JobID,
		Date:           rec.Date,
		TimezoneID:     rec.TimezoneID,
		DurationMin:    rec.DurationMin,
		Status:         rec.Status,
		StatusName:     rec.Status.ToHuman(),
		MeetLink:       rec.MeetLink,
		CalendarSynced: rec.CalendarEventID != "",
		ReminderSentAt: rec.ReminderSentAt,
	}
}

type ScheduleRequest struct {
	CandidateID string    `json:"candidate_id"`
	Date        time.Time `json:"date"`
	TimezoneID  string    `json:"timezone_id"`
	DurationMin int       `json:"duration_min"`
}

func (r ScheduleRequest) Validate() error {
	if r.CandidateID == "" {
		return errors.New("candidate not specified")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	if r.DurationMin <= 0 {
		return errors.New("duration is required")
	}
	return nil
}

type RescheduleRequest struct {
	Date        time.Time `json:"date"`
	TimezoneID  string    `json:"timezone_id"`
	DurationMin int       `json:"duration_min"`
}

func (r RescheduleRequest) Validate() error {
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}
