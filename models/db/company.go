package dbmodels

import (
	"github.com/pkg/errors"
)

type Company struct {
	BaseModel
	Name        string `gorm:"type:varchar(255)"`
	Website     string `gorm:"type:varchar(255)"`
	Description string
}

func (c Company) Validate() error {
	if c.Name == "" {
		return errors.New("company name is required")
	}
	return nil
}
