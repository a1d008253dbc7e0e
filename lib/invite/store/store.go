package invitestore

import (
	"time"

	"intavia-backend/models"
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Invite) (id string, err error)
	// GetByID has no company filter, the invitee is outside the company
	GetByID(id string) (*dbmodels.Invite, error)
	GetPendingByEmail(companyID, email string) (*dbmodels.Invite, error)
	ListByCompany(companyID string) ([]dbmodels.Invite, error)
	UpdateStatusIf(id string, current, next models.InviteStatus) (updated bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Invite) (id string, err error) {
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

func (i impl) GetByID(id string) (*dbmodels.Invite, error) {
	rec := dbmodels.Invite{}
	err := i.db.
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

func (i impl) GetPendingByEmail(companyID, email string) (*dbmodels.Invite, error) {
	rec := dbmodels.Invite{}
	err := i.db.
		Where("company_id = ?", companyID).
		Where("email = ?", email).
		Where("status = ?", models.InviteStatusPending).
		Where("expires_at > ?", time.Now()).
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

func (i impl) ListByCompany(companyID string) ([]dbmodels.Invite, error) {
	list := make([]dbmodels.Invite, 0)
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

func (i impl) UpdateStatusIf(id string, current, next models.InviteStatus) (updated bool, err error) {
	result := i.db.
		Model(&dbmodels.Invite{}).
		Where("id = ?", id).
		Where("status = ?", current).
		Update("Status", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
