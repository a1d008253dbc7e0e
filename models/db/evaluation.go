package dbmodels

import (
	"intavia-backend/models"

	"github.com/pkg/errors"
)

// Evaluation is the resume/interview scoring result for one candidate.
// At most one row per candidate; force re-evaluation deletes it first.
type Evaluation struct {
	BaseCompanyModel
	CandidateID string                  `gorm:"uniqueIndex;type:varchar(36)"`
	Status      models.EvaluationStatus `gorm:"type:varchar(50)"`
	Score       float64
	Summary     string
	Feedback    string
	RequestedBy string `gorm:"type:varchar(36)"`
}

func (e Evaluation) Validate() error {
	if err := e.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if e.CandidateID == "" {
		return errors.New("candidate not specified")
	}
	if e.Status == "" {
		return errors.New("status is missing")
	}
	return nil
}
