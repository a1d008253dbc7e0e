package dbmodels

import (
	"intavia-backend/models"
	"time"

	"github.com/pkg/errors"
)

type Candidate struct {
	BaseCompanyModel
	JobID       string                 `gorm:"index;type:varchar(36)"`
	Job         *Job                   `gorm:"foreignKey:JobID"`
	Status      models.CandidateStatus `gorm:"index;type:varchar(50)"`
	FirstName   string                 `gorm:"type:varchar(255)"`
	LastName    string                 `gorm:"type:varchar(255)"`
	Email       string                 `gorm:"type:varchar(255)"`
	Phone       string                 `gorm:"type:varchar(255)"`
	ResumePath  string                 `gorm:"type:varchar(512)"`
	IsCompleted bool
	CurrentStep int
	TotalSteps  int
	SubmittedAt *time.Time
}

func (c Candidate) Validate() error {
	if err := c.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if c.JobID == "" {
		return errors.New("job not specified")
	}
	if c.Email == "" {
		return errors.New("candidate email is required")
	}
	return nil
}

// CandidateExt is the read model joining in the job a candidate applied to.
type CandidateExt struct {
	Candidate
	JobTitle      string
	JobAuthorID   string
	HasEvaluation bool
}
