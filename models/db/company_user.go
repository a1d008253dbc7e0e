package dbmodels

import (
	"fmt"
	"intavia-backend/models"

	"github.com/pkg/errors"
)

type CompanyUser struct {
	BaseCompanyModel
	Email         string            `gorm:"index;type:varchar(255)"`
	PasswordHash  string            `gorm:"type:varchar(255)"`
	FirstName     string            `gorm:"type:varchar(255)"`
	LastName      string            `gorm:"type:varchar(255)"`
	Role          models.UserRole   `gorm:"type:varchar(50)"`
	Status        models.UserStatus `gorm:"type:varchar(50)"`
	EmailVerified bool
}

func (u CompanyUser) Validate() error {
	if err := u.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if !u.Role.IsKnown() {
		return errors.New("unknown role")
	}
	return nil
}

func (u CompanyUser) GetFullName() string {
	return fmt.Sprintf("%v %v", u.FirstName, u.LastName)
}
