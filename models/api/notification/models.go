package notificationapimodels

import (
	"time"

	"intavia-backend/models"
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
)

type PreferenceView struct {
	DisabledCategories []string `json:"disabled_categories"`
	QuietHoursStart    int      `json:"quiet_hours_start"`
	QuietHoursEnd      int      `json:"quiet_hours_end"`
	TimezoneID         string   `json:"timezone_id,omitempty"`
}

func PreferenceConvert(rec dbmodels.NotificationPreference) PreferenceView {
	return PreferenceView{
		DisabledCategories: rec.DisabledCategories,
		QuietHoursStart:    rec.QuietHoursStart,
		QuietHoursEnd:      rec.QuietHoursEnd,
		TimezoneID:         rec.TimezoneID,
	}
}

type SavePreferenceRequest struct {
	DisabledCategories []string `json:"disabled_categories"`
	QuietHoursStart    int      `json:"quiet_hours_start"`
	QuietHoursEnd      int      `json:"quiet_hours_end"`
	TimezoneID         string   `json:"timezone_id"`
}

func (r SavePreferenceRequest) Validate() error {
	for _, cat := range r.DisabledCategories {
		switch models.NotificationCategory(cat) {
		case models.NotificationCategoryBilling, models.NotificationCategoryInterviews, models.NotificationCategoryTeam:
		default:
			return errors.Errorf("unknown notification category %v", cat)
		}
	}
	if r.QuietHoursStart < 0 || r.QuietHoursStart > 23 || r.QuietHoursEnd < 0 || r.QuietHoursEnd > 23 {
		return errors.New("quiet hours must be within 0-23")
	}
	if r.TimezoneID != "" {
		if _, err := time.LoadLocation(r.TimezoneID); err != nil {
			return errors.Errorf("unknown timezone %v", r.TimezoneID)
		}
	}
	return nil
}
