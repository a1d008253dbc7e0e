package preferencestore

import (
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	GetByUser(userID string) (*dbmodels.NotificationPreference, error)
	Save(rec dbmodels.NotificationPreference) (id string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByUser(userID string) (*dbmodels.NotificationPreference, error) {
	rec := dbmodels.NotificationPreference{}
	err := i.db.
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

func (i impl) Save(rec dbmodels.NotificationPreference) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	existing, err := i.GetByUser(rec.UserID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		updMap := map[string]interface{}{
			"DisabledCategories": rec.DisabledCategories,
			"QuietHoursStart":    rec.QuietHoursStart,
			"QuietHoursEnd":      rec.QuietHoursEnd,
		}
		err = i.db.
			Model(&dbmodels.NotificationPreference{}).
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
