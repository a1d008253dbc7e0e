package dbmodels

import (
	"intavia-backend/models"
	"time"

	"github.com/pkg/errors"
)

type Invite struct {
	BaseCompanyModel
	Email     string              `gorm:"index;type:varchar(255)"`
	Role      models.UserRole     `gorm:"type:varchar(50)"`
	Status    models.InviteStatus `gorm:"index;type:varchar(50)"`
	ExpiresAt time.Time
	InvitedBy string `gorm:"type:varchar(36)"`
}

func (i Invite) Validate() error {
	if err := i.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if i.Email == "" {
		return errors.New("email is required")
	}
	if !i.Role.IsKnown() {
		return errors.New("unknown role")
	}
	return nil
}

// IsUsable is the gate every consumer must apply: an expired invite is
// invalid even while its status still reads PENDING.
func (i Invite) IsUsable(now time.Time) bool {
	return i.Status == models.InviteStatusPending && i.ExpiresAt.After(now)
}
