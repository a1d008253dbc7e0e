package dbmodels

import (
	"intavia-backend/models"
	"time"

	"github.com/pkg/errors"
)

type Interview struct {
	BaseCompanyModel
	CandidateID string     `gorm:"index;type:varchar(36)"`
	Candidate   *Candidate `gorm:"foreignKey:CandidateID"`
	JobID       string     `gorm:"index;type:varchar(36)"`
	Date        time.Time
	TimezoneID  string `gorm:"type:varchar(100)"`
	DurationMin int
	Status      models.InterviewStatus `gorm:"index;type:varchar(50)"`
	// external calendar linkage, empty when the organizer has no integration
	CalendarEventID string `gorm:"type:varchar(255)"`
	MeetLink        string `gorm:"type:varchar(512)"`
	OrganizerID     string `gorm:"type:varchar(36)"`
	// reminder fires at most once, gated on this column
	ReminderSentAt *time.Time
}

// InterviewExt joins in the people and job the reminder mail mentions.
type InterviewExt struct {
	Interview
	CandidateName  string
	CandidateEmail string
	JobTitle       string
	OrganizerEmail string
	OrganizerName  string
}

func (i Interview) Validate() error {
	if err := i.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if i.CandidateID == "" {
		return errors.New("candidate not specified")
	}
	if i.Date.IsZero() {
		return errors.New("interview date is required")
	}
	if i.DurationMin <= 0 {
		return errors.New("interview duration is required")
	}
	return nil
}
