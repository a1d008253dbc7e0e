package dbmodels

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

type JobStatus string

const (
	JobStatusOpen   JobStatus = "OPEN"
	JobStatusClosed JobStatus = "CLOSED"
)

type Job struct {
	BaseCompanyModel
	Title       string `gorm:"type:varchar(255)"`
	Description string
	Location    string    `gorm:"type:varchar(255)"`
	Status      JobStatus `gorm:"type:varchar(50)"`
	AuthorID    string    `gorm:"type:varchar(36)"`
	// total interview flow steps a candidate walks through for this job
	TotalSteps int
}

func (j Job) Validate() error {
	if err := j.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if j.Title == "" {
		return errors.New("job title is required")
	}
	return nil
}

// JobPermission grants a non-author user access to manage a job's candidates.
type JobPermission struct {
	BaseCompanyModel
	JobID     string         `gorm:"index;type:varchar(36)"`
	UserID    string         `gorm:"index;type:varchar(36)"`
	GrantedBy string         `gorm:"type:varchar(36)"`
	Scopes    pq.StringArray `gorm:"type:text[]"`
}

func (p JobPermission) Validate() error {
	if err := p.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if p.JobID == "" || p.UserID == "" {
		return errors.New("job and user are required")
	}
	return nil
}
