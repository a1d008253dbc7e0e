package jobstore

import (
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Job) (id string, err error)
	GetByID(companyID, id string) (*dbmodels.Job, error)
	List(companyID string) ([]dbmodels.Job, error)
	Update(companyID, id string, updMap map[string]interface{}) error
	GrantPermission(rec dbmodels.JobPermission) (id string, err error)
	GetPermission(companyID, jobID, userID string) (*dbmodels.JobPermission, error)
	ListPermissions(companyID, jobID string) ([]dbmodels.JobPermission, error)
	RevokePermission(companyID, jobID, userID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Job) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(companyID, id string) (*dbmodels.Job, error) {
	rec := dbmodels.Job{}
	err := i.db.
		Where("company_id = ?", companyID).
		Where("id = ?", id).
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

func (i impl) List(companyID string) ([]dbmodels.Job, error) {
	list := make([]dbmodels.Job, 0)
	err := i.db.
		Where("company_id = ?", companyID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(companyID, id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.Job{}).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) GrantPermission(rec dbmodels.JobPermission) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetPermission(companyID, jobID, userID string) (*dbmodels.JobPermission, error) {
	rec := dbmodels.JobPermission{}
	err := i.db.
		Where("company_id = ?", companyID).
		Where("job_id = ?", jobID).
		Where("user_id = ?", userID).
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

func (i impl) ListPermissions(companyID, jobID string) ([]dbmodels.JobPermission, error) {
	list := make([]dbmodels.JobPermission, 0)
	err := i.db.
		Where("company_id = ?", companyID).
		Where("job_id = ?", jobID).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) RevokePermission(companyID, jobID, userID string) error {
	return i.db.
		Where("company_id = ?", companyID).
		Where("job_id = ?", jobID).
		Where("user_id = ?", userID).
		Delete(&dbmodels.JobPermission{}).
		Error
}
