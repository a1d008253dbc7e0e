package dbmodels

import (
	"time"

	"github.com/pkg/errors"
)

type BaseModel struct {
	ID        string    `gorm:"primaryKey;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BaseCompanyModel struct {
	BaseModel
	CompanyID string `gorm:"index;type:varchar(36)" json:"company_id"`
}

func (m BaseCompanyModel) Validate() error {
	if m.CompanyID == "" {
		return errors.New("company not specified")
	}
	return nil
}
