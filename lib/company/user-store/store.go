package userstore

import (
	"intavia-backend/models"
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.CompanyUser) (id string, err error)
	GetByID(companyID, id string) (*dbmodels.CompanyUser, error)
	GetByEmail(email string) (*dbmodels.CompanyUser, error)
	ListByCompany(companyID string) ([]dbmodels.CompanyUser, error)
	GetAdmin(companyID string) (*dbmodels.CompanyUser, error)
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

func (i impl) Create(rec dbmodels.CompanyUser) (id string, err error) {
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

func (i impl) GetByID(companyID, id string) (*dbmodels.CompanyUser, error) {
	rec := dbmodels.CompanyUser{}
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

func (i impl) GetByEmail(email string) (*dbmodels.CompanyUser, error) {
	rec := dbmodels.CompanyUser{}
	err := i.db.
		Where("email = ?", email).
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

func (i impl) ListByCompany(companyID string) ([]dbmodels.CompanyUser, error) {
	list := make([]dbmodels.CompanyUser, 0)
	err := i.db.
		Where("company_id = ?", companyID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// GetAdmin returns the oldest admin of the company, the default recipient
// for billing mail.
func (i impl) GetAdmin(companyID string) (*dbmodels.CompanyUser, error) {
	rec := dbmodels.CompanyUser{}
	err := i.db.
		Where("company_id = ?", companyID).
		Where("role = ?", models.CompanyAdminRole).
		Order("created_at").
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.CompanyUser{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}
