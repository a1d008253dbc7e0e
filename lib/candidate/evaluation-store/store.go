package evaluationstore

import (
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Evaluation) (id string, err error)
	GetByCandidate(companyID, candidateID string) (*dbmodels.Evaluation, error)
	// Replace deletes the prior evaluation and creates the new one in one
	// transaction, keeping the at-most-one-row invariant.
	Replace(rec dbmodels.Evaluation) (id string, err error)
	Update(id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Evaluation) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByCandidate(companyID, candidateID string) (*dbmodels.Evaluation, error) {
	rec := dbmodels.Evaluation{}
	err := i.db.
		Where("company_id = ?", companyID).
		Where("candidate_id = ?", candidateID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Replace(rec dbmodels.Evaluation) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	err = i.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("company_id = ?", rec.CompanyID).
			Where("candidate_id = ?", rec.CandidateID).
			Delete(&dbmodels.Evaluation{}).
			Error
		if err != nil {
			return err
		}
		return tx.Save(&rec).Error
	})
	if err != nil {
		return "", errors.Wrap(err, "evaluation replace failed")
	}
	return rec.ID, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.Evaluation{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}
