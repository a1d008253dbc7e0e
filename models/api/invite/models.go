package inviteapimodels

import (
	"intavia-backend/models"
	dbmodels "intavia-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type InviteView struct {
	ID         string              `json:"id"`
	Email      string              `json:"email"`
	Role       models.UserRole     `json:"role"`
	Status     models.InviteStatus `json:"status"`
	StatusName string              `json:"status_name"`
	ExpiresAt  time.Time           `json:"expires_at"`
	IsExpired  bool                `json:"is_expired"`
}

func InviteConvert(rec dbmodels.Invite, now time.Time) InviteView {
	return InviteView{
		ID:         rec.ID,
		Email:      rec.Email,
		Role:       rec.Role,
		Status:     rec.Status,
		StatusName: rec.Status.ToHuman(),
		ExpiresAt:  rec.ExpiresAt,
		IsExpired:  !rec.ExpiresAt.After(now),
	}
}

type CreateInviteRequest struct {
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

func (r CreateInviteRequest) Validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return errors.New("valid email is required")
	}
	if !r.Role.IsKnown() {
		return errors.New("unknown role")
	}
	return nil
}
