package candidatestore

import (
	"intavia-backend/models"
	candidateapimodels "intavia-backend/models/api/candidate"
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Candidate) (id string, err error)
	GetByID(companyID, id string) (*dbmodels.Candidate, error)
	GetExtByID(companyID, id string) (*dbmodels.CandidateExt, error)
	List(companyID string, filter candidateapimodels.CandidateFilter) ([]dbmodels.CandidateExt, error)
	ListExtByIDs(companyID string, ids []string) ([]dbmodels.CandidateExt, error)
	Update(companyID, id string, updMap map[string]interface{}) error
	// UpdateStatusIf writes the new status only when the row still carries
	// the expected current status; updated=false means somebody got there first.
	UpdateStatusIf(companyID, id string, current, next models.CandidateStatus) (updated bool, err error)
	// UpdateStepIf applies the updMap only while the row is still on fromStep.
	UpdateStepIf(companyID, id string, fromStep int, updMap map[string]interface{}) (updated bool, err error)
	BulkUpdateStatus(companyID string, ids []string, status models.CandidateStatus) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Candidate) (id string, err error) {
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

func (i impl) GetByID(companyID, id string) (*dbmodels.Candidate, error) {
	rec := dbmodels.Candidate{}
	err := i.db.
		Where("id = ?", id).
		Where("company_id = ?", companyID).
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

const extSelect = `candidates.*,
	jobs.title as job_title,
	jobs.author_id as job_author_id,
	evaluations.id is not null as has_evaluation`

func (i impl) GetExtByID(companyID, id string) (*dbmodels.CandidateExt, error) {
	rec := dbmodels.CandidateExt{}
	err := i.db.
		Model(&dbmodels.Candidate{}).
		Select(extSelect).
		Joins("left join jobs on jobs.id = candidates.job_id").
		Joins("left join evaluations on evaluations.candidate_id = candidates.id").
		Where("candidates.id = ?", id).
		Where("candidates.company_id = ?", companyID).
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

func (i impl) List(companyID string, filter candidateapimodels.CandidateFilter) ([]dbmodels.CandidateExt, error) {
	var result []dbmodels.CandidateExt
	tx := i.db.
		Model(&dbmodels.Candidate{}).
		Select(extSelect).
		Joins("left join jobs on jobs.id = candidates.job_id").
		Joins("left join evaluations on evaluations.candidate_id = candidates.id").
		Where("candidates.company_id = ?", companyID).
		Where("candidates.job_id = ?", filter.JobID)
	if filter.Status != "" {
		tx.Where("candidates.status = ?", filter.Status)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		tx.Where("candidates.first_name ilike ? or candidates.last_name ilike ? or candidates.email ilike ?",
			search, search, search)
	}
	err := tx.
		Order("candidates.created_at desc").
		Find(&result).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "candidate list query failed")
	}
	return result, nil
}

func (i impl) ListExtByIDs(companyID string, ids []string) ([]dbmodels.CandidateExt, error) {
	var result []dbmodels.CandidateExt
	err := i.db.
		Model(&dbmodels.Candidate{}).
		Select(extSelect).
		Joins("left join jobs on jobs.id = candidates.job_id").
		Joins("left join evaluations on evaluations.candidate_id = candidates.id").
		Where("candidates.company_id = ?", companyID).
		Where("candidates.id in ?", ids).
		Find(&result).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "candidate batch query failed")
	}
	return result, nil
}

func (i impl) Update(companyID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.Candidate{}).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) UpdateStatusIf(companyID, id string, current, next models.CandidateStatus) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.Candidate{}).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Where("status = ?", current).
		Updates(map[string]interface{}{
			"Status": next,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) UpdateStepIf(companyID, id string, fromStep int, updMap map[string]interface{}) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.Candidate{}).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Where("current_step = ?", fromStep).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// BulkUpdateStatus is a single batched write: either every targeted row is
// updated or, on error, none.
func (i impl) BulkUpdateStatus(companyID string, ids []string, status models.CandidateStatus) error {
	err := i.db.
		Model(&dbmodels.Candidate{}).
		Where("company_id = ?", companyID).
		Where("id in ?", ids).
		Updates(map[string]interface{}{
			"Status": status,
		}).
		Error
	if err != nil {
		return errors.Wrap(err, "bulk status update failed")
	}
	return nil
}
