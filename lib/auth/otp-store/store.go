package otpstore

import (
	"time"

	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.OtpCode) (id string, err error)
	GetActive(email, code string, now time.Time) (*dbmodels.OtpCode, error)
	MarkUsed(id string, at time.Time) (updated bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.OtpCode) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetActive(email, code string, now time.Time) (*dbmodels.OtpCode, error) {
	rec := dbmodels.OtpCode{}
	err := i.db.
		Where("email = ?", email).
		Where("code = ?", code).
		Where("used_at IS NULL").
		Where("date_expires > ?", now).
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

// MarkUsed burns the code; the IS NULL guard makes each code single-use.
func (i impl) MarkUsed(id string, at time.Time) (updated bool, err error) {
	result := i.db.
		Model(&dbmodels.OtpCode{}).
		Where("id = ?", id).
		Where("used_at IS NULL").
		Update("UsedAt", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
