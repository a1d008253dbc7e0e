package dbmodels

import (
	"intavia-backend/models"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// NotificationPreference is the per-user opt-out matrix. Absence of a row
// means every category is on (default-on policy).
type NotificationPreference struct {
	BaseCompanyModel
	UserID             string         `gorm:"uniqueIndex;type:varchar(36)"`
	DisabledCategories pq.StringArray `gorm:"type:text[]"`
	// quiet hours in the user's local day, 0-23; equal values disable the window.
	// TimezoneID is the IANA zone the window is evaluated in, empty means UTC.
	QuietHoursStart int
	QuietHoursEnd   int
	TimezoneID      string `gorm:"type:varchar(64)"`
}

func (p NotificationPreference) Validate() error {
	if err := p.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if p.UserID == "" {
		return errors.New("user not specified")
	}
	if p.QuietHoursStart < 0 || p.QuietHoursStart > 23 || p.QuietHoursEnd < 0 || p.QuietHoursEnd > 23 {
		return errors.New("quiet hours must be within 0-23")
	}
	return nil
}

func (p NotificationPreference) IsCategoryEnabled(cat models.NotificationCategory) bool {
	for _, disabled := range p.DisabledCategories {
		if disabled == string(cat) {
			return false
		}
	}
	return true
}

// IsQuietHour reports whether the given local hour falls inside the quiet
// window, handling windows crossing midnight.
func (p NotificationPreference) IsQuietHour(hour int) bool {
	if p.QuietHoursStart == p.QuietHoursEnd {
		return false
	}
	if p.QuietHoursStart < p.QuietHoursEnd {
		return hour >= p.QuietHoursStart && hour < p.QuietHoursEnd
	}
	return hour >= p.QuietHoursStart || hour < p.QuietHoursEnd
}
