package integrationstore

import (
	dbmodels "intavia-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	GetByUser(companyID, userID, provider string) (*dbmodels.Integration, error)
	Save(rec dbmodels.Integration) (id string, err error)
	UpdateToken(id, accessToken string, expiresAt *time.Time) error
	Delete(companyID, userID, provider string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByUser(companyID, userID, provider string) (*dbmodels.Integration, error) {
	rec := dbmodels.Integration{}
	err := i.db.
		Where("company_id = ?", companyID).
		Where("user_id = ?", userID).
		Where("provider = ?", provider).
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

// Save upserts on (user, provider), keeping at most one row per pair.
func (i impl) Save(rec dbmodels.Integration) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	existing, err := i.GetByUser(rec.CompanyID, rec.UserID, rec.Provider)
	if err != nil {
		return "", err
	}
	if existing != nil {
		updMap := map[string]interface{}{
			"AccessToken":  rec.AccessToken,
			"RefreshToken": rec.RefreshToken,
			"ExpiresAt":    rec.ExpiresAt,
			"Scope":        rec.Scope,
			"Metadata":     rec.Metadata,
		}
		err = i.db.
			Model(&dbmodels.Integration{}).
			Where("id = ?", existing.ID).
			Updates(updMap).
			Error
		if err != nil {
			return "", err
		}
		return existing.ID, nil
	}
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) UpdateToken(id, accessToken string, expiresAt *time.Time) error {
	updMap := map[string]interface{}{
		"AccessToken": accessToken,
		"ExpiresAt":   expiresAt,
	}
	err := i.db.
		Model(&dbmodels.Integration{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) Delete(companyID, userID, provider string) error {
	rec := dbmodels.Integration{}
	err := i.db.
		Where("company_id = ? AND user_id = ? AND provider = ?", companyID, userID, provider).
		Delete(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}
